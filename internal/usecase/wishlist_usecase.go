package usecase

import (
	"context"

	"grocery/internal/domain/model"
	repo "grocery/internal/repository"
)

type WishlistUsecase struct {
	wishlistRepo repo.WishlistRepository
	productRepo  repo.ProductRepository
}

func NewWishlistUsecase(wishlistRepo repo.WishlistRepository, productRepo repo.ProductRepository) *WishlistUsecase {
	return &WishlistUsecase{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

type WishlistItemResponse struct {
	ID      int64         `json:"id"`
	Product model.Product `json:"product"`
}

type WishlistResponse struct {
	ID    int64                  `json:"id"`
	Items []WishlistItemResponse `json:"items"`
}

func (u *WishlistUsecase) GetWishlist(ctx context.Context, userID int64) (WishlistResponse, error) {
	if userID <= 0 {
		return WishlistResponse{}, NewUnauthorizedError("unauthorized")
	}

	wl, err := u.wishlistRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return WishlistResponse{}, NewUnexpectedError("db error")
	}

	return u.buildResponse(ctx, wl)
}

// 二重追加は409
func (u *WishlistUsecase) AddToWishlist(ctx context.Context, userID int64, productID int64) (WishlistResponse, error) {
	if userID <= 0 {
		return WishlistResponse{}, NewUnauthorizedError("unauthorized")
	}
	if productID <= 0 {
		return WishlistResponse{}, NewValidationError("product id is required")
	}

	_, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return WishlistResponse{}, NewNotFoundError("product not found")
	}
	if err != nil {
		return WishlistResponse{}, NewUnexpectedError("db error")
	}

	wl, err := u.wishlistRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return WishlistResponse{}, NewUnexpectedError("db error")
	}

	err = u.wishlistRepo.AddItem(ctx, wl.ID, productID)
	if err == repo.ErrConflict {
		return WishlistResponse{}, NewConflictError("already in wishlist")
	}
	if err != nil {
		return WishlistResponse{}, NewUnexpectedError("db error")
	}

	return u.buildResponse(ctx, wl)
}

func (u *WishlistUsecase) RemoveFromWishlist(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewUnauthorizedError("unauthorized")
	}
	if productID <= 0 {
		return NewValidationError("product id is required")
	}

	wl, err := u.wishlistRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return NewUnexpectedError("db error")
	}

	err = u.wishlistRepo.RemoveItem(ctx, wl.ID, productID)
	if err == repo.ErrNotFound {
		return NewNotFoundError("item not found in wishlist")
	}
	if err != nil {
		return NewUnexpectedError("db error")
	}

	return nil
}

func (u *WishlistUsecase) buildResponse(ctx context.Context, wl model.Wishlist) (WishlistResponse, error) {
	items, err := u.wishlistRepo.ListItems(ctx, wl.ID)
	if err != nil {
		return WishlistResponse{}, NewUnexpectedError("db error")
	}

	respItems := make([]WishlistItemResponse, 0, len(items))
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			continue
		}
		respItems = append(respItems, WishlistItemResponse{ID: it.ID, Product: p})
	}

	return WishlistResponse{ID: wl.ID, Items: respItems}, nil
}

package usecase

import (
	"context"

	"grocery/internal/domain/model"
	repo "grocery/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartItemResponse struct {
	ID       int64         `json:"id"`
	Product  model.Product `json:"product"`
	Quantity int64         `json:"quantity"`
}

type CartResponse struct {
	ID    int64              `json:"id"`
	Items []CartItemResponse `json:"items"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

// GetCart はカート取得（無ければ作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewUnauthorizedError("unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewUnexpectedError("db error")
	}

	return u.buildCartResponse(ctx, cart)
}

// AddToCart はカートに追加（同一商品は数量加算）。
// カート内の数量＋追加分が現在庫を超えるなら追加させない。
// 在庫は精算時にも必ず再チェックする
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewUnauthorizedError("unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewValidationError("invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewValidationError("invalid quantity")
	}

	// 商品チェック
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewNotFoundError("product not found")
	}
	if err != nil {
		return CartResponse{}, NewUnexpectedError("db error")
	}

	// カート取得（無ければ作成）
	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewUnexpectedError("db error")
	}

	// 既存数量を調べる
	var existingQty int64 = 0
	existing, err := u.cartItemRepo.FindByCartAndProduct(ctx, cart.ID, in.ProductID)
	if err == nil {
		existingQty = existing.Quantity
	} else if err != repo.ErrNotFound {
		return CartResponse{}, NewUnexpectedError("db error")
	}

	if existingQty+in.Quantity > p.Stock {
		return CartResponse{}, NewInsufficientStock("product not available in requested quantity")
	}

	// Upsert（同一商品は加算）
	if err := u.cartItemRepo.UpsertAddQuantity(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
		return CartResponse{}, NewUnexpectedError("db error")
	}

	return u.buildCartResponse(ctx, cart)
}

// RemoveFromCart は指定商品の明細を丸ごと削除する。
func (u *CartUsecase) RemoveFromCart(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewUnauthorizedError("unauthorized")
	}
	if productID <= 0 {
		return NewValidationError("invalid product_id")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		//カートが無い＝明細も無い
		return NewValidationError("item not in cart")
	}
	if err != nil {
		return NewUnexpectedError("db error")
	}

	err = u.cartItemRepo.DeleteByCartAndProduct(ctx, cart.ID, productID)
	if err == repo.ErrNotFound {
		return NewValidationError("item not in cart")
	}
	if err != nil {
		return NewUnexpectedError("db error")
	}

	return nil
}

// カートの明細をまとめてCartResponseを作る。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cart model.Cart) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, NewUnexpectedError("db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			//消えた商品は表示しない
			continue
		}

		respItems = append(respItems, CartItemResponse{
			ID:       it.ID,
			Product:  p,
			Quantity: it.Quantity,
		})
	}

	return CartResponse{ID: cart.ID, Items: respItems}, nil
}

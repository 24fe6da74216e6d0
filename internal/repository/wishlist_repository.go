package repository

import (
	"context"

	"grocery/internal/domain/model"
)

type WishlistRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Wishlist, error)
	ListItems(ctx context.Context, wishlistID int64) ([]model.WishlistItem, error)
	// 既に入っていたら ErrConflict
	AddItem(ctx context.Context, wishlistID int64, productID int64) error
	// 無ければ ErrNotFound
	RemoveItem(ctx context.Context, wishlistID int64, productID int64) error
}

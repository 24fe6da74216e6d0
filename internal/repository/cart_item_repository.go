package repository

import (
	"context"

	"grocery/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error)
	// 同一商品はプラス
	UpsertAddQuantity(ctx context.Context, cartID int64, productID int64, addQty int64) error
	DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error
	// 精算でカートを消費するときに使う
	DeleteAllByCartID(ctx context.Context, cartID int64) error
}

package repository

import "context"

type InventoryRepository interface {
	// 在庫が足りるときだけ減算。足りなければfalse
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	// 在庫を「現在値」に更新し、調整履歴も残す
	SetStockWithAdjustment(ctx context.Context, managerUserID int64, productID int64, newStock int64, reason string) error
}

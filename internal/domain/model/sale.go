package model

import "time"

// 販売イベント。レポート集計専用の追記オンリーな記録。
// 更新も削除もしない
type Sale struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	SoldAt    time.Time `gorm:"not null;index" json:"sold_at"`
}

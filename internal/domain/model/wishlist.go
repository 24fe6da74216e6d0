package model

import "time"

// 1ユーザーにつき1つ。初回アクセス時に作る
type Wishlist struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 同じ商品の二重追加は不可
type WishlistItem struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WishlistID int64     `gorm:"not null;index;uniqueIndex:idx_wishlist_product" json:"wishlist_id"`
	ProductID  int64     `gorm:"not null;index;uniqueIndex:idx_wishlist_product" json:"product_id"`
	AddedAt    time.Time `gorm:"not null;autoCreateTime" json:"added_at"`
}

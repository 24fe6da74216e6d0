package model

import "time"

type PromoCode struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code            string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"code"`
	DiscountPercent int64     `gorm:"not null" json:"discount_percent"`
	Active          bool      `gorm:"not null;default:true" json:"active"`
	ExpiryDate      time.Time `gorm:"not null" json:"expiry_date"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 有効＝activeかつ期限が未来
func (p PromoCode) IsValid(now time.Time) bool {
	return p.Active && p.ExpiryDate.After(now)
}

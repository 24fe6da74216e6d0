package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Category string `gorm:"type:varchar(100);not null;index" json:"category"`

	//固定小数点（10,2）で保存する
	Price decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`

	//在庫数。0未満にはならない
	Stock int64 `gorm:"not null" json:"stock"`

	//この値以下になったら低在庫扱い
	LowStockThreshold int64 `gorm:"not null;default:10" json:"low_stock_threshold"`

	ImageURL string `gorm:"type:varchar(500)" json:"image_url,omitempty"`

	//作成したマネージャーのユーザーID
	CreatedBy int64 `gorm:"not null;index" json:"created_by"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 在庫がしきい値以下かどうか
func (p Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

package repository

import (
	"context"

	"grocery/internal/domain/model"
	repo "grocery/internal/repository"

	"gorm.io/gorm"
)

type SaleGormRepository struct {
	db *gorm.DB
}

// DI
func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

// 販売イベントを追記する。更新・削除のAPIは持たない
func (r *SaleGormRepository) Create(ctx context.Context, sale model.Sale) error {
	return r.db.WithContext(ctx).Create(&sale).Error
}

// 商品ごとの販売集計。
// LEFT JOIN + COALESCE なので販売実績ゼロの商品も0で返る
func (r *SaleGormRepository) Report(ctx context.Context, q repo.SalesReportQuery) ([]repo.SalesReportRow, error) {
	var rows []repo.SalesReportRow

	tx := r.db.WithContext(ctx).
		Table("products").
		Select("products.id AS product_id, products.name, products.category, products.price, COALESCE(SUM(sales.quantity), 0) AS total_quantity_sold").
		Joins("LEFT JOIN sales ON sales.product_id = products.id").
		Where("products.deleted_at IS NULL").
		Group("products.id")

	//大文字小文字は区別しない完全一致
	if q.Category != "" {
		tx = tx.Where("LOWER(products.category) = LOWER(?)", q.Category)
	}

	switch q.Sort {
	case repo.SalesSortLeastSold:
		tx = tx.Order("total_quantity_sold asc").Order("products.id asc")
	default:
		tx = tx.Order("total_quantity_sold desc").Order("products.id asc")
	}

	if err := tx.Scan(&rows).Error; err != nil {
		return []repo.SalesReportRow{}, err
	}
	return rows, nil
}

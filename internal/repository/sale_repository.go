package repository

import (
	"context"

	"grocery/internal/domain/model"

	"github.com/shopspring/decimal"
)

// レポートの並び順
type SalesReportSort string

const (
	SalesSortMostSold  SalesReportSort = "most_sold"
	SalesSortLeastSold SalesReportSort = "least_sold"
)

type SalesReportQuery struct {
	// 空なら全カテゴリ。大文字小文字は区別しない完全一致
	Category string
	Sort     SalesReportSort
}

// 商品ごとの販売集計。販売実績ゼロの商品もTotalQuantitySold=0で入る
type SalesReportRow struct {
	ProductID         int64           `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	TotalQuantitySold int64           `json:"total_quantity_sold"`
}

type SaleRepository interface {
	Create(ctx context.Context, sale model.Sale) error
	Report(ctx context.Context, q SalesReportQuery) ([]SalesReportRow, error)
}

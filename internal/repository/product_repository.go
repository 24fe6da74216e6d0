package repository

import (
	"context"
	"errors"

	"grocery/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 一意制約に当たったとき（ウィッシュリスト二重追加、プロモコード重複など）
var ErrConflict = errors.New("conflict")

// 顧客向けの商品一覧検索
type ProductBrowseQuery struct {
	Category    string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	MostPopular bool
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// 在庫ありの商品だけを返す。MostPopularは販売数の多い順
	ListBrowse(ctx context.Context, q ProductBrowseQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	// stock <= low_stock_threshold の商品
	ListLowStock(ctx context.Context) ([]model.Product, error)
}

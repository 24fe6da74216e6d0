package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"grocery/internal/auth"
	"grocery/internal/cache"
	"grocery/internal/domain/model"
	repo "grocery/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	auditRepo     repo.AuditLogRepository
	listCache     *cache.ProductCache
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
	listCache *cache.ProductCache,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		listCache:     listCache,
	}
}

// GET /productsの入力DTO
type BrowseProductsInput struct {
	Filter   string // "" | "category" | "price_range" | "most_popular"
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
}

// 顧客向けの商品一覧。在庫ありのものだけ返す
func (u *ProductUsecase) BrowseProducts(ctx context.Context, in BrowseProductsInput) (ProductListOutput, error) {
	q := repo.ProductBrowseQuery{}

	switch in.Filter {
	case "":
		// 全件（在庫あり）
	case "category":
		if strings.TrimSpace(in.Category) == "" {
			return ProductListOutput{}, NewValidationError("category is required")
		}
		q.Category = strings.TrimSpace(in.Category)
	case "price_range":
		if in.MinPrice != nil && in.MinPrice.IsNegative() {
			return ProductListOutput{}, NewValidationError("min_price must be >= 0")
		}
		if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
			return ProductListOutput{}, NewValidationError("max_price must be >= 0")
		}
		q.MinPrice = in.MinPrice
		q.MaxPrice = in.MaxPrice
	case "most_popular":
		q.MostPopular = true
	default:
		return ProductListOutput{}, NewValidationError("invalid filter")
	}

	cacheKey := browseCacheKey(q)
	if items, ok := u.listCache.GetList(ctx, cacheKey); ok {
		return ProductListOutput{Items: items}, nil
	}

	items, err := u.productRepo.ListBrowse(ctx, q)
	if err != nil {
		return ProductListOutput{}, NewUnexpectedError("db error")
	}

	u.listCache.SetList(ctx, cacheKey, items)

	return ProductListOutput{Items: items}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewValidationError("invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewNotFoundError("product not found")
	}
	if err != nil {
		return model.Product{}, NewUnexpectedError("db error")
	}
	return p, nil
}

type ManagerProductInput struct {
	Name              string
	Category          string
	Price             decimal.Decimal
	Stock             int64
	LowStockThreshold *int64
	ImageURL          string
}

// マネージャーだけが商品を作れる
func (u *ProductUsecase) CreateProduct(ctx context.Context, p auth.Principal, in ManagerProductInput) (model.Product, error) {
	if !p.IsManager() {
		return model.Product{}, NewPermissionDenied("only store managers can add products")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	threshold := int64(10)
	if in.LowStockThreshold != nil {
		threshold = *in.LowStockThreshold
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		Name:              strings.TrimSpace(in.Name),
		Category:          strings.TrimSpace(in.Category),
		Price:             in.Price,
		Stock:             in.Stock,
		LowStockThreshold: threshold,
		ImageURL:          in.ImageURL,
		CreatedBy:         p.UserID,
	})
	if err != nil {
		return model.Product{}, NewUnexpectedError("db error")
	}

	u.audit(ctx, p.UserID, model.AuditActionCreateProduct, created.ID, nil, &created)
	u.listCache.InvalidateLists(ctx)

	return created, nil
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, p auth.Principal, productID int64, in ManagerProductInput) error {
	if !p.IsManager() {
		return NewPermissionDenied("only store managers can edit products")
	}
	if productID <= 0 {
		return NewValidationError("invalid product id")
	}
	if err := validateProductInput(in); err != nil {
		return err
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewNotFoundError("product not found")
	}
	if err != nil {
		return NewUnexpectedError("db error")
	}

	after := before
	after.Name = strings.TrimSpace(in.Name)
	after.Category = strings.TrimSpace(in.Category)
	after.Price = in.Price
	after.Stock = in.Stock
	after.ImageURL = in.ImageURL
	if in.LowStockThreshold != nil {
		after.LowStockThreshold = *in.LowStockThreshold
	}

	if err := u.productRepo.Update(ctx, after); err != nil {
		if err == repo.ErrNotFound {
			return NewNotFoundError("product not found")
		}
		return NewUnexpectedError("db error")
	}

	u.audit(ctx, p.UserID, model.AuditActionUpdateProduct, productID, &before, &after)
	u.listCache.InvalidateLists(ctx)

	return nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, p auth.Principal, productID int64) error {
	if !p.IsManager() {
		return NewPermissionDenied("only store managers can delete products")
	}
	if productID <= 0 {
		return NewValidationError("invalid product id")
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewNotFoundError("product not found")
	}
	if err != nil {
		return NewUnexpectedError("db error")
	}

	if err := u.productRepo.SoftDelete(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return NewNotFoundError("product not found")
		}
		return NewUnexpectedError("db error")
	}

	u.audit(ctx, p.UserID, model.AuditActionDeleteProduct, productID, &before, nil)
	u.listCache.InvalidateLists(ctx)

	return nil
}

type SetStockInput struct {
	Stock  int64
	Reason string
}

// 在庫を「現在値」に更新する。調整履歴と監査ログも残す
func (u *ProductUsecase) SetStock(ctx context.Context, p auth.Principal, productID int64, in SetStockInput) error {
	if !p.IsManager() {
		return NewPermissionDenied("only store managers can update stock")
	}
	if productID <= 0 {
		return NewValidationError("invalid product id")
	}
	if in.Stock < 0 {
		return NewValidationError("stock must be >= 0")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return NewValidationError("reason is required")
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewNotFoundError("product not found")
	}
	if err != nil {
		return NewUnexpectedError("db error")
	}

	err = u.inventoryRepo.SetStockWithAdjustment(ctx, p.UserID, productID, in.Stock, strings.TrimSpace(in.Reason))
	if err == repo.ErrNotFound {
		return NewNotFoundError("product not found")
	}
	if err != nil {
		return NewUnexpectedError("db error")
	}

	after := before
	after.Stock = in.Stock
	u.audit(ctx, p.UserID, model.AuditActionUpdateStock, productID, &before, &after)
	u.listCache.InvalidateLists(ctx)

	return nil
}

type LowStockAlert struct {
	Product  string `json:"product"`
	Quantity int64  `json:"quantity"`
}

// 低在庫アラート。マネージャーだけ
func (u *ProductUsecase) ListLowStock(ctx context.Context, p auth.Principal) ([]LowStockAlert, error) {
	if !p.IsManager() {
		return nil, NewPermissionDenied("only managers can view low-stock alerts")
	}

	products, err := u.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, NewUnexpectedError("db error")
	}

	alerts := make([]LowStockAlert, 0, len(products))
	for _, prod := range products {
		alerts = append(alerts, LowStockAlert{Product: prod.Name, Quantity: prod.Stock})
	}
	return alerts, nil
}

func validateProductInput(in ManagerProductInput) error {
	if strings.TrimSpace(in.Name) == "" || len(in.Name) > 100 {
		return NewValidationError("invalid name")
	}
	if strings.TrimSpace(in.Category) == "" || len(in.Category) > 100 {
		return NewValidationError("invalid category")
	}
	if in.Price.IsNegative() {
		return NewValidationError("price must be >= 0")
	}
	if in.Stock < 0 {
		return NewValidationError("stock must be >= 0")
	}
	if in.LowStockThreshold != nil && *in.LowStockThreshold < 0 {
		return NewValidationError("low_stock_threshold must be >= 0")
	}
	return nil
}

// 監査は本処理を失敗させない
func (u *ProductUsecase) audit(ctx context.Context, actorID int64, action model.AuditAction, resourceID int64, before *model.Product, after *model.Product) {
	log := model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   resourceID,
	}
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			log.BeforeJSON = string(b)
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			log.AfterJSON = string(a)
		}
	}
	_ = u.auditRepo.Create(ctx, log)
}

func browseCacheKey(q repo.ProductBrowseQuery) string {
	min := ""
	if q.MinPrice != nil {
		min = q.MinPrice.String()
	}
	max := ""
	if q.MaxPrice != nil {
		max = q.MaxPrice.String()
	}
	return fmt.Sprintf("cat=%s:min=%s:max=%s:pop=%t", q.Category, min, max, q.MostPopular)
}

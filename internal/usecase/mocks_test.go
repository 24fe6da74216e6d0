package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"grocery/internal/domain/model"
	repo "grocery/internal/repository"
	"grocery/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（usecaseパッケージ共通）
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListBrowse(ctx context.Context, q repo.ProductBrowseQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) ListLowStock(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

var _ repo.ProductRepository = (*ProductRepoMock)(nil)

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) SetStockWithAdjustment(ctx context.Context, managerUserID int64, productID int64, newStock int64, reason string) error {
	args := m.Called(ctx, managerUserID, productID, newStock, reason)
	return args.Error(0)
}

var _ repo.InventoryRepository = (*InventoryRepoMock)(nil)

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

var _ repo.CartRepository = (*CartRepoMock)(nil)

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartID, productID)
	ci, _ := args.Get(0).(model.CartItem)
	return ci, args.Error(1)
}

func (m *CartItemRepoMock) UpsertAddQuantity(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	args := m.Called(ctx, cartID, productID, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error {
	args := m.Called(ctx, cartID, productID)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteAllByCartID(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

var _ repo.CartItemRepository = (*CartItemRepoMock)(nil)

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	args := m.Called(ctx, orderID, total)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

var _ repo.OrderRepository = (*OrderRepoMock)(nil)

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

var _ repo.OrderItemRepository = (*OrderItemRepoMock)(nil)

type SaleRepoMock struct{ mock.Mock }

func (m *SaleRepoMock) Create(ctx context.Context, sale model.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *SaleRepoMock) Report(ctx context.Context, q repo.SalesReportQuery) ([]repo.SalesReportRow, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]repo.SalesReportRow)
	return rows, args.Error(1)
}

var _ repo.SaleRepository = (*SaleRepoMock)(nil)

type PromoRepoMock struct{ mock.Mock }

func (m *PromoRepoMock) FindByCode(ctx context.Context, code string) (model.PromoCode, error) {
	args := m.Called(ctx, code)
	p, _ := args.Get(0).(model.PromoCode)
	return p, args.Error(1)
}

func (m *PromoRepoMock) Create(ctx context.Context, promo model.PromoCode) (model.PromoCode, error) {
	args := m.Called(ctx, promo)
	created, _ := args.Get(0).(model.PromoCode)
	return created, args.Error(1)
}

func (m *PromoRepoMock) ListValid(ctx context.Context, now time.Time) ([]model.PromoCode, error) {
	args := m.Called(ctx, now)
	promos, _ := args.Get(0).([]model.PromoCode)
	return promos, args.Error(1)
}

var _ repo.PromoCodeRepository = (*PromoRepoMock)(nil)

type WishlistRepoMock struct{ mock.Mock }

func (m *WishlistRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Wishlist, error) {
	args := m.Called(ctx, userID)
	wl, _ := args.Get(0).(model.Wishlist)
	return wl, args.Error(1)
}

func (m *WishlistRepoMock) ListItems(ctx context.Context, wishlistID int64) ([]model.WishlistItem, error) {
	args := m.Called(ctx, wishlistID)
	items, _ := args.Get(0).([]model.WishlistItem)
	return items, args.Error(1)
}

func (m *WishlistRepoMock) AddItem(ctx context.Context, wishlistID int64, productID int64) error {
	args := m.Called(ctx, wishlistID, productID)
	return args.Error(0)
}

func (m *WishlistRepoMock) RemoveItem(ctx context.Context, wishlistID int64, productID int64) error {
	args := m.Called(ctx, wishlistID, productID)
	return args.Error(0)
}

var _ repo.WishlistRepository = (*WishlistRepoMock)(nil)

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

var _ repo.AuditLogRepository = (*AuditRepoMock)(nil)

// =====================
// TxManagerスタブ
// =====================

// 本物のトランザクションは張らず、fnに同じモック群を渡すだけ。
// ロールバックの検証は「失敗時に後続メソッドが呼ばれないこと」で行う
type txReposStub struct {
	products   *ProductRepoMock
	inventory  *InventoryRepoMock
	carts      *CartRepoMock
	cartItems  *CartItemRepoMock
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	sales      *SaleRepoMock
}

func newTxReposStub() *txReposStub {
	return &txReposStub{
		products:   new(ProductRepoMock),
		inventory:  new(InventoryRepoMock),
		carts:      new(CartRepoMock),
		cartItems:  new(CartItemRepoMock),
		orders:     new(OrderRepoMock),
		orderItems: new(OrderItemRepoMock),
		sales:      new(SaleRepoMock),
	}
}

func (s *txReposStub) Products() repo.ProductRepository     { return s.products }
func (s *txReposStub) Inventory() repo.InventoryRepository  { return s.inventory }
func (s *txReposStub) Carts() repo.CartRepository           { return s.carts }
func (s *txReposStub) CartItems() repo.CartItemRepository   { return s.cartItems }
func (s *txReposStub) Orders() repo.OrderRepository         { return s.orders }
func (s *txReposStub) OrderItems() repo.OrderItemRepository { return s.orderItems }
func (s *txReposStub) Sales() repo.SaleRepository           { return s.sales }

var _ repo.TxRepos = (*txReposStub)(nil)

type txManagerStub struct {
	repos *txReposStub
}

func (t *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(t.repos)
}

var _ repo.TransactionManager = (*txManagerStub)(nil)

// =====================
// Clock（promo用）
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// =====================
// Helpers
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func assertErrKind(t *testing.T, err error, want usecase.ErrorKind) {
	t.Helper()
	if assert.Error(t, err) {
		ae, ok := usecase.AsAppError(err)
		if assert.True(t, ok, "err=%v is not an AppError", err) {
			assert.Equal(t, want, ae.Kind)
		}
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func decimalEq(want decimal.Decimal) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

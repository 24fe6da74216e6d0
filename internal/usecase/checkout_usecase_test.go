package usecase_test

import (
	"context"
	"testing"

	"grocery/internal/domain/model"
	repo "grocery/internal/repository"
	"grocery/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCheckoutUC() (*usecase.CheckoutUsecase, *txReposStub) {
	repos := newTxReposStub()
	return usecase.NewCheckoutUsecase(&txManagerStub{repos: repos}), repos
}

func TestCheckoutUsecase_Checkout_InvalidKey(t *testing.T) {
	uc, _ := newCheckoutUC()

	_, err := uc.Checkout(context.Background(), 1, usecase.CheckoutInput{IdempotencyKey: "  "})
	assertErrKind(t, err, usecase.KindValidation)
}

// カートが存在しない => 空カート扱いで注文は作られない
func TestCheckoutUsecase_Checkout_EmptyCart_NoCart(t *testing.T) {
	ctx := context.Background()
	uc, r := newCheckoutUC()

	r.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "key-1").Return(model.Order{}, false, nil)
	r.carts.On("FindByUserID", mock.Anything, int64(7)).Return(model.Cart{}, repo.ErrNotFound)

	_, err := uc.Checkout(ctx, 7, usecase.CheckoutInput{IdempotencyKey: "key-1"})
	assertErrKind(t, err, usecase.KindEmptyCart)
	assertErrContains(t, err, "your cart is empty")

	r.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// カートはあるが明細ゼロ => 同じく空カート
func TestCheckoutUsecase_Checkout_EmptyCart_NoItems(t *testing.T) {
	ctx := context.Background()
	uc, r := newCheckoutUC()

	r.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "key-1").Return(model.Order{}, false, nil)
	r.carts.On("FindByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 3, UserID: 7}, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(3)).Return([]model.CartItem{}, nil)

	_, err := uc.Checkout(ctx, 7, usecase.CheckoutInput{IdempotencyKey: "key-1"})
	assertErrKind(t, err, usecase.KindEmptyCart)

	r.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	r.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

// 2明細目で在庫不足 => 全体中断。カートは消えず合計も確定しない
func TestCheckoutUsecase_Checkout_InsufficientStock_Aborts(t *testing.T) {
	ctx := context.Background()
	uc, r := newCheckoutUC()

	r.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "key-1").Return(model.Order{}, false, nil)
	r.carts.On("FindByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 3, UserID: 7}, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(3)).Return([]model.CartItem{
		{ID: 1, CartID: 3, ProductID: 10, Quantity: 2},
		{ID: 2, CartID: 3, ProductID: 11, Quantity: 5},
	}, nil)

	r.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 7 && o.TotalPrice.IsZero() && o.IdempotencyKey == "key-1"
	})).Return(int64(100), nil)

	r.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Name: "Apple", Price: mustDecimal(t, "5.00"), Stock: 2}, nil)
	r.products.On("FindByID", mock.Anything, int64(11)).Return(model.Product{ID: 11, Name: "Milk", Price: mustDecimal(t, "3.00"), Stock: 1}, nil)

	r.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(2)).Return(true, nil)
	r.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(11), int64(5)).Return(false, nil)

	r.sales.On("Create", mock.Anything, mock.AnythingOfType("model.Sale")).Return(nil)

	_, err := uc.Checkout(ctx, 7, usecase.CheckoutInput{IdempotencyKey: "key-1"})
	assertErrKind(t, err, usecase.KindInsufficientStock)
	assertErrContains(t, err, "Milk")

	// ロールバック対象の後続処理は呼ばれていない
	r.orderItems.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	r.orders.AssertNotCalled(t, "UpdateTotal", mock.Anything, mock.Anything, mock.Anything)
	r.cartItems.AssertNotCalled(t, "DeleteAllByCartID", mock.Anything, mock.Anything)
}

// 精算時に商品が消えていた => 404で中断
func TestCheckoutUsecase_Checkout_ProductVanished(t *testing.T) {
	ctx := context.Background()
	uc, r := newCheckoutUC()

	r.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "key-1").Return(model.Order{}, false, nil)
	r.carts.On("FindByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 3, UserID: 7}, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(3)).Return([]model.CartItem{
		{ID: 1, CartID: 3, ProductID: 10, Quantity: 1},
	}, nil)
	r.orders.On("Create", mock.Anything, mock.AnythingOfType("model.Order")).Return(int64(100), nil)
	r.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.Checkout(ctx, 7, usecase.CheckoutInput{IdempotencyKey: "key-1"})
	assertErrKind(t, err, usecase.KindNotFound)

	r.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	r.cartItems.AssertNotCalled(t, "DeleteAllByCartID", mock.Anything, mock.Anything)
}

// 正常系：Apple 2×5.00 + Milk 1×3.00 = 13.00。
// 明細スナップショット・販売イベント・カート消費まで全部確認する
func TestCheckoutUsecase_Checkout_Success_WorkedExample(t *testing.T) {
	ctx := context.Background()
	uc, r := newCheckoutUC()

	r.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "key-1").Return(model.Order{}, false, nil)
	r.carts.On("FindByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 3, UserID: 7}, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(3)).Return([]model.CartItem{
		{ID: 1, CartID: 3, ProductID: 10, Quantity: 2},
		{ID: 2, CartID: 3, ProductID: 11, Quantity: 1},
	}, nil)

	r.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 7 && o.TotalPrice.IsZero()
	})).Return(int64(100), nil)

	r.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Name: "Apple", Price: mustDecimal(t, "5.00"), Stock: 8}, nil)
	r.products.On("FindByID", mock.Anything, int64(11)).Return(model.Product{ID: 11, Name: "Milk", Price: mustDecimal(t, "3.00"), Stock: 4}, nil)

	r.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(2)).Return(true, nil)
	r.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(11), int64(1)).Return(true, nil)

	// 販売イベントは明細ごとに1件
	r.sales.On("Create", mock.Anything, mock.MatchedBy(func(s model.Sale) bool {
		return s.ProductID == 10 && s.Quantity == 2
	})).Return(nil).Once()
	r.sales.On("Create", mock.Anything, mock.MatchedBy(func(s model.Sale) bool {
		return s.ProductID == 11 && s.Quantity == 1
	})).Return(nil).Once()

	r.orderItems.On("CreateBulk", mock.Anything, int64(100), mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 2 {
			return false
		}
		return items[0].ProductNameSnapshot == "Apple" &&
			items[0].Price.Equal(mustDecimal(t, "10.00")) &&
			items[1].ProductNameSnapshot == "Milk" &&
			items[1].Price.Equal(mustDecimal(t, "3.00"))
	})).Return(nil)

	r.orders.On("UpdateTotal", mock.Anything, int64(100), decimalEq(mustDecimal(t, "13.00"))).Return(nil)
	r.cartItems.On("DeleteAllByCartID", mock.Anything, int64(3)).Return(nil)

	out, err := uc.Checkout(ctx, 7, usecase.CheckoutInput{IdempotencyKey: "key-1"})
	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.ID)
	assert.Equal(t, int64(7), out.UserID)
	assert.True(t, out.TotalPrice.Equal(mustDecimal(t, "13.00")), "total=%s", out.TotalPrice)
	assert.Equal(t, 2, len(out.Items))
	assert.Equal(t, "Apple", out.Items[0].Name)
	assert.True(t, out.Items[0].Price.Equal(mustDecimal(t, "10.00")))

	r.orders.AssertExpectations(t)
	r.orderItems.AssertExpectations(t)
	r.inventory.AssertExpectations(t)
	r.sales.AssertExpectations(t)
	r.cartItems.AssertExpectations(t)
}

// 同じキーの再送 => 既存注文をそのまま返し、在庫には触らない
func TestCheckoutUsecase_Checkout_IdempotentReplay(t *testing.T) {
	ctx := context.Background()
	uc, r := newCheckoutUC()

	existing := model.Order{ID: 55, UserID: 7, TotalPrice: mustDecimal(t, "13.00"), IdempotencyKey: "key-1"}
	r.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "key-1").Return(existing, true, nil)
	r.orderItems.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{
		{ID: 1, OrderID: 55, ProductID: 10, ProductNameSnapshot: "Apple", Quantity: 2, Price: mustDecimal(t, "10.00")},
	}, nil)

	out, err := uc.Checkout(ctx, 7, usecase.CheckoutInput{IdempotencyKey: "key-1"})
	assert.NoError(t, err)
	assert.Equal(t, int64(55), out.ID)
	assert.True(t, out.TotalPrice.Equal(mustDecimal(t, "13.00")))

	r.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	r.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	r.cartItems.AssertNotCalled(t, "DeleteAllByCartID", mock.Anything, mock.Anything)
}

// 注文作成が一意制約で落ちたら、再検索して同じ結果を返す
func TestCheckoutUsecase_Checkout_ConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	uc, r := newCheckoutUC()

	// 1回目の検索では未登録、Create失敗後の再検索でヒットする
	r.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "key-1").Return(model.Order{}, false, nil).Once()
	r.carts.On("FindByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 3, UserID: 7}, nil)
	r.cartItems.On("ListByCartID", mock.Anything, int64(3)).Return([]model.CartItem{
		{ID: 1, CartID: 3, ProductID: 10, Quantity: 1},
	}, nil)
	r.orders.On("Create", mock.Anything, mock.AnythingOfType("model.Order")).Return(int64(0), repo.ErrConflict)

	winner := model.Order{ID: 77, UserID: 7, TotalPrice: mustDecimal(t, "5.00"), IdempotencyKey: "key-1"}
	r.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "key-1").Return(winner, true, nil).Once()
	r.orderItems.On("ListByOrderID", mock.Anything, int64(77)).Return([]model.OrderItem{}, nil)

	out, err := uc.Checkout(ctx, 7, usecase.CheckoutInput{IdempotencyKey: "key-1"})
	assert.NoError(t, err)
	assert.Equal(t, int64(77), out.ID)

	r.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_GetMyOrderDetail_OtherUsersOrderIsNotFound(t *testing.T) {
	ctx := context.Background()
	uc, r := newCheckoutUC()

	r.orders.On("FindByID", mock.Anything, int64(55)).Return(model.Order{ID: 55, UserID: 99}, nil)

	_, err := uc.GetMyOrderDetail(ctx, 7, 55)
	assertErrKind(t, err, usecase.KindNotFound)
}

func TestCheckoutUsecase_ListMyOrders_Success(t *testing.T) {
	ctx := context.Background()
	uc, r := newCheckoutUC()

	orders := []model.Order{
		{ID: 1, UserID: 7, TotalPrice: mustDecimal(t, "13.00")},
		{ID: 2, UserID: 7, TotalPrice: mustDecimal(t, "5.00")},
	}
	r.orders.On("ListByUserID", mock.Anything, int64(7), 1, 50).Return(orders, int64(2), nil)
	r.orderItems.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{
		{ID: 1, OrderID: 1, ProductID: 10, ProductNameSnapshot: "Apple", Quantity: 2, Price: mustDecimal(t, "10.00")},
	}, nil)
	r.orderItems.On("ListByOrderID", mock.Anything, int64(2)).Return([]model.OrderItem{}, nil)

	outs, err := uc.ListMyOrders(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(outs))
	assert.Equal(t, 1, len(outs[0].Items))
	assert.Equal(t, 0, len(outs[1].Items))
}

// decimal同士の合計が文字列表現に依存しないことの確認
func TestCheckoutUsecase_TotalDecimalExactness(t *testing.T) {
	a := mustDecimal(t, "0.10")
	b := mustDecimal(t, "0.20")
	assert.True(t, a.Add(b).Equal(decimal.RequireFromString("0.30")))
}

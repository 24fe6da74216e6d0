package usecase

import (
	"context"
	"strings"
	"time"

	"grocery/internal/domain/model"
	repo "grocery/internal/repository"

	"github.com/shopspring/decimal"
)

// CheckoutUsecase はカートを注文に変換する。
// 在庫減算・注文作成・販売イベント記録は1つのトランザクションで、
// どこかで失敗したら全部ロールバックする
type CheckoutUsecase struct {
	tx repo.TransactionManager
}

func NewCheckoutUsecase(tx repo.TransactionManager) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx}
}

type CheckoutInput struct {
	IdempotencyKey string
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderOutput struct {
	ID           int64             `json:"id"`
	UserID       int64             `json:"user_id"`
	TotalPrice   decimal.Decimal   `json:"total_price"`
	PurchaseDate time.Time         `json:"purchase_date"`
	Items        []OrderItemOutput `json:"items"`
}

// Checkout はカート全明細を1回のトランザクションで注文に確定する。
//
// 在庫はカート追加時から変わっているかもしれないので、
// 必ずここで商品ごとに再チェックしてから減算する。
// 減算は条件付きUPDATEなので、同じ商品への同時精算が
// 合計で在庫を超えて成功することはない（DBの行ロックが直列化する）
func (u *CheckoutUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewUnauthorizedError("unauthorized")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return OrderOutput{}, NewValidationError("invalid idempotency_key")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return NewUnexpectedError("db error")
		}
		if found {
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return NewUnexpectedError("db error")
			}
			out = toOrderOutput(existing, items)
			return nil
		}

		//カート取得
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewEmptyCartError("your cart is empty")
		}
		if err != nil {
			return NewUnexpectedError("db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewUnexpectedError("db error")
		}
		if len(cartItems) == 0 {
			return NewEmptyCartError("your cart is empty")
		}

		//仮注文（合計0）を先に作る
		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:         userID,
			TotalPrice:     decimal.Zero,
			PurchaseDate:   now,
			IdempotencyKey: key,
		})
		if err != nil {
			//同時に同じキーが入った等。もう一回検索して同じ結果を返す
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, userID, key)
			if err2 == nil && found2 {
				items2, err3 := r.OrderItems().ListByOrderID(ctx, ex2.ID)
				if err3 != nil {
					return NewUnexpectedError("db error")
				}
				out = toOrderOutput(ex2, items2)
				return nil
			}
			return NewConflictError("idempotency conflict")
		}

		orderItems := make([]model.OrderItem, 0, len(cartItems))
		total := decimal.Zero

		//カートの明細順に処理する
		for _, ci := range cartItems {
			//商品と在庫を精算時点で読み直す
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return NewNotFoundError("one of the products in your cart no longer exists")
			}
			if err != nil {
				return NewUnexpectedError("db error")
			}

			//在庫減算（足りないなら false → 全体中断）
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return NewUnexpectedError("db error")
			}
			if !ok {
				return NewInsufficientStock("product " + p.Name + " not available in requested quantity")
			}

			//数量×精算時点の単価でスナップショット
			linePrice := p.Price.Mul(decimal.NewFromInt(ci.Quantity))
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           ci.ProductID,
				ProductNameSnapshot: p.Name,
				Quantity:            ci.Quantity,
				Price:               linePrice,
			})

			//レポート用の販売イベント
			if err := r.Sales().Create(ctx, model.Sale{
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				SoldAt:    now,
			}); err != nil {
				return NewUnexpectedError("db error")
			}

			total = total.Add(linePrice)
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewUnexpectedError("db error")
		}

		//合計を確定
		if err := r.Orders().UpdateTotal(ctx, orderID, total); err != nil {
			return NewUnexpectedError("db error")
		}

		//カートは消費済み
		if err := r.CartItems().DeleteAllByCartID(ctx, cart.ID); err != nil {
			return NewUnexpectedError("db error")
		}

		out = toOrderOutput(model.Order{
			ID:           orderID,
			UserID:       userID,
			TotalPrice:   total,
			PurchaseDate: now,
		}, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *CheckoutUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewUnauthorizedError("unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return NewUnexpectedError("db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewUnexpectedError("db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *CheckoutUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewUnauthorizedError("unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewValidationError("invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewNotFoundError("not found")
		}
		if err != nil {
			return NewUnexpectedError("db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewNotFoundError("not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewUnexpectedError("db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	return OrderOutput{
		ID:           o.ID,
		UserID:       o.UserID,
		TotalPrice:   o.TotalPrice,
		PurchaseDate: o.PurchaseDate,
		Items:        outItems,
	}
}

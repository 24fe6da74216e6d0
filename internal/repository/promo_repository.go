package repository

import (
	"context"
	"time"

	"grocery/internal/domain/model"
)

type PromoCodeRepository interface {
	FindByCode(ctx context.Context, code string) (model.PromoCode, error)
	// コード重複は ErrConflict
	Create(ctx context.Context, promo model.PromoCode) (model.PromoCode, error)
	// activeかつ期限が未来のものだけ
	ListValid(ctx context.Context, now time.Time) ([]model.PromoCode, error)
}

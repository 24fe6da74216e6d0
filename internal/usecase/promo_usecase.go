package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"grocery/internal/auth"
	"grocery/internal/domain/model"
	repo "grocery/internal/repository"
)

// 現在時刻の供給源。テストで固定できるようにDIする
type Clock interface {
	Now() time.Time
}

// プロモコードの検証と管理。
// 割引率を返すだけで、コードにもカートにも注文にも触らない。
// 注文合計への適用は精算側には組み込まれていない
type PromoUsecase struct {
	promoRepo repo.PromoCodeRepository
	auditRepo repo.AuditLogRepository
	clock     Clock
}

func NewPromoUsecase(promoRepo repo.PromoCodeRepository, auditRepo repo.AuditLogRepository, clock Clock) *PromoUsecase {
	return &PromoUsecase{
		promoRepo: promoRepo,
		auditRepo: auditRepo,
		clock:     clock,
	}
}

type ApplyPromoOutput struct {
	DiscountPercent int64 `json:"discount_percent"`
}

// コード不明は404、無効（期限切れ or inactive）は400
func (u *PromoUsecase) ApplyPromo(ctx context.Context, code string) (ApplyPromoOutput, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return ApplyPromoOutput{}, NewValidationError("code is required")
	}

	promo, err := u.promoRepo.FindByCode(ctx, code)
	if err == repo.ErrNotFound {
		return ApplyPromoOutput{}, NewNotFoundError("invalid promo code")
	}
	if err != nil {
		return ApplyPromoOutput{}, NewUnexpectedError("db error")
	}

	if !promo.IsValid(u.clock.Now()) {
		return ApplyPromoOutput{}, NewValidationError("promo code expired or inactive")
	}

	return ApplyPromoOutput{DiscountPercent: promo.DiscountPercent}, nil
}

type CreatePromoInput struct {
	Code            string
	DiscountPercent int64
	Active          bool
	ExpiryDate      time.Time
}

// マネージャーだけが作れる
func (u *PromoUsecase) CreatePromo(ctx context.Context, p auth.Principal, in CreatePromoInput) (model.PromoCode, error) {
	if !p.IsManager() {
		return model.PromoCode{}, NewPermissionDenied("only managers can create promo codes")
	}

	code := strings.TrimSpace(in.Code)
	if code == "" || len(code) > 20 {
		return model.PromoCode{}, NewValidationError("invalid code")
	}
	if in.DiscountPercent < 1 || in.DiscountPercent > 100 {
		return model.PromoCode{}, NewValidationError("discount_percent must be between 1 and 100")
	}
	if in.ExpiryDate.IsZero() {
		return model.PromoCode{}, NewValidationError("expiry_date is required")
	}

	created, err := u.promoRepo.Create(ctx, model.PromoCode{
		Code:            code,
		DiscountPercent: in.DiscountPercent,
		Active:          in.Active,
		ExpiryDate:      in.ExpiryDate,
	})
	if err == repo.ErrConflict {
		return model.PromoCode{}, NewConflictError("promo code already exists")
	}
	if err != nil {
		return model.PromoCode{}, NewUnexpectedError("db error")
	}

	if a, err := json.Marshal(created); err == nil {
		_ = u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  p.UserID,
			Action:       model.AuditActionCreatePromo,
			ResourceType: model.AuditResourcePromo,
			ResourceID:   created.ID,
			AfterJSON:    string(a),
		})
	}

	return created, nil
}

// 現在有効なコードの一覧
func (u *PromoUsecase) ListValidPromos(ctx context.Context) ([]model.PromoCode, error) {
	promos, err := u.promoRepo.ListValid(ctx, u.clock.Now())
	if err != nil {
		return nil, NewUnexpectedError("db error")
	}
	return promos, nil
}

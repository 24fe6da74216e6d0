package repository

import (
	"context"
	"errors"
	"time"

	"grocery/internal/domain/model"
	repo "grocery/internal/repository"

	"gorm.io/gorm"
)

type PromoCodeGormRepository struct {
	db *gorm.DB
}

// DI
func NewPromoCodeGormRepository(db *gorm.DB) *PromoCodeGormRepository {
	return &PromoCodeGormRepository{db: db}
}

func (r *PromoCodeGormRepository) FindByCode(ctx context.Context, code string) (model.PromoCode, error) {
	var promo model.PromoCode

	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&promo).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PromoCode{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PromoCode{}, err
	}
	return promo, nil
}

func (r *PromoCodeGormRepository) Create(ctx context.Context, promo model.PromoCode) (model.PromoCode, error) {
	if err := r.db.WithContext(ctx).Create(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.PromoCode{}, repo.ErrConflict
		}
		return model.PromoCode{}, err
	}
	return promo, nil
}

// activeかつ期限が未来のものだけ
func (r *PromoCodeGormRepository) ListValid(ctx context.Context, now time.Time) ([]model.PromoCode, error) {
	var promos []model.PromoCode

	err := r.db.WithContext(ctx).
		Where("active = ? AND expiry_date > ?", true, now).
		Order("id asc").
		Find(&promos).Error
	if err != nil {
		return []model.PromoCode{}, err
	}
	return promos, nil
}

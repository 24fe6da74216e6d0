package repository

import (
	"context"
	"errors"

	"grocery/internal/domain/model"
	repo "grocery/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistGormRepository struct {
	db *gorm.DB
}

// DI
func NewWishlistGormRepository(db *gorm.DB) *WishlistGormRepository {
	return &WishlistGormRepository{db: db}
}

// ユーザーのウィッシュリストを取得し、無ければ作成
func (r *WishlistGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Wishlist, error) {
	var wl model.Wishlist

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&wl).Error

		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		newWL := model.Wishlist{UserID: userID}
		if err := tx.Create(&newWL).Error; err != nil {
			retryErr := tx.Where("user_id = ?", userID).First(&wl).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		wl = newWL
		return nil
	})

	if err != nil {
		return model.Wishlist{}, err
	}
	return wl, nil
}

func (r *WishlistGormRepository) ListItems(ctx context.Context, wishlistID int64) ([]model.WishlistItem, error) {
	var items []model.WishlistItem

	if err := r.db.WithContext(ctx).
		Where("wishlist_id = ?", wishlistID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.WishlistItem{}, err
	}

	return items, nil
}

// 既に入っていたら ErrConflict
func (r *WishlistGormRepository) AddItem(ctx context.Context, wishlistID int64, productID int64) error {
	item := model.WishlistItem{
		WishlistID: wishlistID,
		ProductID:  productID,
	}

	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repo.ErrConflict
		}
		return err
	}
	return nil
}

func (r *WishlistGormRepository) RemoveItem(ctx context.Context, wishlistID int64, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Delete(&model.WishlistItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

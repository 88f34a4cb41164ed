package repository

import (
	"context"
	"errors"

	"foodcart/internal/domain/model"
	repo "foodcart/internal/repository"

	"gorm.io/gorm"
)

type PromoCodeGormRepository struct {
	db *gorm.DB
}

func NewPromoCodeGormRepository(db *gorm.DB) *PromoCodeGormRepository {
	return &PromoCodeGormRepository{db: db}
}

func (r *PromoCodeGormRepository) FindByCode(ctx context.Context, code string) (model.PromoCode, error) {
	var p model.PromoCode
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PromoCode{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PromoCode{}, err
	}
	return p, nil
}

// 上限チェックと加算を1文で行う（同時利用でも上限を超えない）。max_uses が NULL か0なら上限なし。
func (r *PromoCodeGormRepository) IncrementUsedCountIfAvailable(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.PromoCode{}).
		Where("id = ? AND (max_uses IS NULL OR max_uses = 0 OR used_count < max_uses)", id).
		Update("used_count", gorm.Expr("used_count + ?", 1))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

package repository

import (
	"context"
	"errors"

	"foodcart/internal/domain/model"
	repo "foodcart/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのカートを取得
func (r *CartGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// ユーザーのカートを行ロック付きで取得
func (r *CartGormRepository) LockByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// カートを取得し、無ければ作成（行ロック付き）
func (r *CartGormRepository) GetOrCreateForUpdate(ctx context.Context, userID int64, token string) (model.Cart, error) {
	cart, err := r.LockByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, err
	}

	// 同時に作られた場合は user_id の一意制約で何もしない
	newCart := model.Cart{
		UserID: userID,
		Token:  token,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&newCart).Error; err != nil {
		return model.Cart{}, err
	}

	return r.LockByUserID(ctx, userID)
}

// carts.total_amountを更新
func (r *CartGormRepository) UpdateTotalAmount(ctx context.Context, cartID int64, totalAmount int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("total_amount", totalAmount)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

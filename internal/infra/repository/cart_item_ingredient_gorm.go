package repository

import (
	"context"
	"errors"

	"foodcart/internal/domain/model"
	repo "foodcart/internal/repository"

	"gorm.io/gorm"
)

type CartItemIngredientGormRepository struct {
	db *gorm.DB
}

func NewCartItemIngredientGormRepository(db *gorm.DB) *CartItemIngredientGormRepository {
	return &CartItemIngredientGormRepository{db: db}
}

func (r *CartItemIngredientGormRepository) FindByItemAndIngredient(ctx context.Context, cartItemID int64, ingredientID int64) (model.CartItemIngredient, error) {
	var row model.CartItemIngredient

	err := r.db.WithContext(ctx).
		Where("cart_item_id = ? AND ingredient_id = ?", cartItemID, ingredientID).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItemIngredient{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItemIngredient{}, err
	}
	return row, nil
}

func (r *CartItemIngredientGormRepository) Create(ctx context.Context, row model.CartItemIngredient) (model.CartItemIngredient, error) {
	if row.Quantity <= 0 {
		return model.CartItemIngredient{}, errors.New("invalid quantity")
	}
	if err := r.db.WithContext(ctx).Omit("Ingredient").Create(&row).Error; err != nil {
		return model.CartItemIngredient{}, err
	}
	return row, nil
}

func (r *CartItemIngredientGormRepository) AddQuantity(ctx context.Context, id int64, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItemIngredient{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartItemIngredientGormRepository) UpdateQuantity(ctx context.Context, id int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItemIngredient{}).
		Where("id = ?", id).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartItemIngredientGormRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItemIngredient{}, id)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 無ければ0件で正常終了
func (r *CartItemIngredientGormRepository) DeleteByItemAndIngredient(ctx context.Context, cartItemID int64, ingredientID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cart_item_id = ? AND ingredient_id = ?", cartItemID, ingredientID).
		Delete(&model.CartItemIngredient{})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

package repository

import (
	"context"
	"errors"

	"foodcart/internal/domain/model"
	repo "foodcart/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

type IngredientGormRepository struct {
	db *gorm.DB
}

func NewIngredientGormRepository(db *gorm.DB) *IngredientGormRepository {
	return &IngredientGormRepository{db: db}
}

func (r *IngredientGormRepository) FindByID(ctx context.Context, id int64) (model.Ingredient, error) {
	var ing model.Ingredient
	err := r.db.WithContext(ctx).First(&ing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Ingredient{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Ingredient{}, err
	}
	return ing, nil
}

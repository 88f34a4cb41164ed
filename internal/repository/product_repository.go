package repository

import (
	"context"

	"foodcart/internal/domain/model"
)

// カタログ（商品）の読み取りだけを約束。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
}

// トッピングの読み取り
type IngredientRepository interface {
	FindByID(ctx context.Context, id int64) (model.Ingredient, error)
}

package repository

import (
	"context"

	"foodcart/internal/domain/model"
)

type CartItemRepository interface {
	// Variant.Product と Ingredients.Ingredient を読み込んだ明細一覧
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByCartAndVariant(ctx context.Context, cartID int64, variantID int64) (model.CartItem, error)
	// バリエーションが productID に属する明細（id順で最初）
	FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error)
	Create(ctx context.Context, item model.CartItem) (model.CartItem, error)
	// quantity = quantity + delta をDB側で行う
	AddQuantity(ctx context.Context, itemID int64, delta int64) error
	UpdateVariant(ctx context.Context, itemID int64, variantID int64) error
	// 付いているトッピングも一緒に削除
	DeleteByID(ctx context.Context, itemID int64) error
}

type CartItemIngredientRepository interface {
	FindByItemAndIngredient(ctx context.Context, cartItemID int64, ingredientID int64) (model.CartItemIngredient, error)
	Create(ctx context.Context, row model.CartItemIngredient) (model.CartItemIngredient, error)
	AddQuantity(ctx context.Context, id int64, delta int64) error
	UpdateQuantity(ctx context.Context, id int64, qty int64) error
	DeleteByID(ctx context.Context, id int64) error
	// 該当が無くてもエラーにしない（削除件数を返す）
	DeleteByItemAndIngredient(ctx context.Context, cartItemID int64, ingredientID int64) (int64, error)
}

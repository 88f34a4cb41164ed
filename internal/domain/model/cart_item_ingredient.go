package model

import "time"

// 明細に付けたトッピングと個数
type CartItemIngredient struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartItemID   int64     `gorm:"not null;uniqueIndex:idx_cart_item_ingredients_pair" json:"cartItemId"`
	IngredientID int64     `gorm:"not null;uniqueIndex:idx_cart_item_ingredients_pair" json:"ingredientId"`
	Quantity     int64     `gorm:"not null" json:"quantity"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
}

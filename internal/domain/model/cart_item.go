package model

import "time"

// カートの明細
// (cart_id, product_variant_id) で1行のみ。同じバリエーションの追加は数量加算。
type CartItem struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID           int64     `gorm:"not null;uniqueIndex:idx_cart_items_cart_variant" json:"cartId"`
	ProductVariantID int64     `gorm:"not null;uniqueIndex:idx_cart_items_cart_variant;index" json:"productItemId"`
	Quantity         int64     `gorm:"not null" json:"quantity"`
	CreatedAt        time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime" json:"-"`

	Variant     ProductVariant       `gorm:"foreignKey:ProductVariantID" json:"-"`
	Ingredients []CartItemIngredient `gorm:"foreignKey:CartItemID;constraint:OnDelete:CASCADE" json:"-"`
}

package model

// マイグレーション対象
func All() []interface{} {
	return []interface{}{
		&Product{},
		&ProductVariant{},
		&Ingredient{},
		&Cart{},
		&CartItem{},
		&CartItemIngredient{},
		&PromoCode{},
	}
}

package usecase

import (
	"foodcart/internal/domain/model"
	"foodcart/internal/domain/pricing"
)

type CartIngredientView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	ImageURL string `json:"imageUrl"`
	Quantity int64  `json:"quantity"`
}

// price はバリエーションの価格。lineTotal はトッピング込みの明細小計。
type CartItemView struct {
	ID            int64                `json:"id"`
	ProductID     int64                `json:"productId"`
	ProductItemID int64                `json:"productItemId"`
	Name          string               `json:"name"`
	ImageURL      string               `json:"imageUrl"`
	Price         int64                `json:"price"`
	Size          *int                 `json:"size"`
	Type          *int                 `json:"type"`
	Quantity      int64                `json:"quantity"`
	Ingredients   []CartIngredientView `json:"ingredients"`
	LineTotal     int64                `json:"lineTotal"`
}

type CartView struct {
	ID            int64          `json:"id"`
	UserID        int64          `json:"userId"`
	Items         []CartItemView `json:"items"`
	Subtotal      int64          `json:"subtotal"`
	DeliveryPrice int64          `json:"deliveryPrice"`
	TotalAmount   int64          `json:"totalAmount"`
}

// カートが無いときの形
func emptyCartView(userID int64, deliveryPrice int64) CartView {
	return CartView{
		UserID:        userID,
		Items:         []CartItemView{},
		DeliveryPrice: deliveryPrice,
	}
}

func toPricingLine(it model.CartItem) pricing.Line {
	ings := make([]pricing.IngredientLine, 0, len(it.Ingredients))
	for _, ci := range it.Ingredients {
		ings = append(ings, pricing.IngredientLine{
			UnitPrice: ci.Ingredient.Price,
			Quantity:  ci.Quantity,
		})
	}
	return pricing.Line{
		VariantPrice: it.Variant.Price,
		Quantity:     it.Quantity,
		Ingredients:  ings,
	}
}

// 明細（関連読み込み済み）からレスポンスと合計を作る。
// 金額が int64 に収まらないときは pricing.ErrOverflow を返す。
func buildCartView(cart model.Cart, items []model.CartItem, deliveryPrice int64) (CartView, error) {
	views := make([]CartItemView, 0, len(items))
	lines := make([]pricing.Line, 0, len(items))

	for _, it := range items {
		line := toPricingLine(it)
		lines = append(lines, line)
		lineTotal, err := pricing.LineSubtotal(line)
		if err != nil {
			return CartView{}, err
		}

		ings := make([]CartIngredientView, 0, len(it.Ingredients))
		for _, ci := range it.Ingredients {
			ings = append(ings, CartIngredientView{
				ID:       ci.IngredientID,
				Name:     ci.Ingredient.Name,
				Price:    ci.Ingredient.Price,
				ImageURL: ci.Ingredient.ImageURL,
				Quantity: ci.Quantity,
			})
		}

		views = append(views, CartItemView{
			ID:            it.ID,
			ProductID:     it.Variant.ProductID,
			ProductItemID: it.ProductVariantID,
			Name:          it.Variant.Product.Name,
			ImageURL:      it.Variant.Product.ImageURL,
			Price:         it.Variant.Price,
			Size:          it.Variant.Size,
			Type:          it.Variant.Type,
			Quantity:      it.Quantity,
			Ingredients:   ings,
			LineTotal:     lineTotal,
		})
	}

	subtotal, err := pricing.Subtotal(lines)
	if err != nil {
		return CartView{}, err
	}
	total, err := pricing.Total(subtotal, deliveryPrice)
	if err != nil {
		return CartView{}, err
	}
	return CartView{
		ID:            cart.ID,
		UserID:        cart.UserID,
		Items:         views,
		Subtotal:      subtotal,
		DeliveryPrice: deliveryPrice,
		TotalAmount:   total,
	}, nil
}

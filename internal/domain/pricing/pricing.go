// Package pricing は明細・カートの金額計算。
// カートの合計はすべてここを通して計算する（エンドポイントごとに式を持たない）。
package pricing

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// 金額が int64 に収まらない
	ErrOverflow = errors.New("pricing: amount overflows int64")

	// 価格・数量がマイナス
	ErrNegative = errors.New("pricing: negative price or quantity")
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// 明細に付いたトッピング1種類分
type IngredientLine struct {
	UnitPrice int64
	Quantity  int64
}

// 価格計算に必要な明細の情報
type Line struct {
	VariantPrice int64
	Quantity     int64
	Ingredients  []IngredientLine
}

// 途中計算は decimal で行い、最後に int64 へ戻す
func toAmount(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, ErrNegative
	}
	if d.GreaterThan(maxAmount) {
		return 0, ErrOverflow
	}
	return d.IntPart(), nil
}

func lineAmount(l Line) (decimal.Decimal, error) {
	if l.VariantPrice < 0 || l.Quantity < 0 {
		return decimal.Zero, ErrNegative
	}
	unit := decimal.NewFromInt(l.VariantPrice)
	for _, ing := range l.Ingredients {
		if ing.UnitPrice < 0 || ing.Quantity < 0 {
			return decimal.Zero, ErrNegative
		}
		unit = unit.Add(decimal.NewFromInt(ing.UnitPrice).Mul(decimal.NewFromInt(ing.Quantity)))
	}
	return unit.Mul(decimal.NewFromInt(l.Quantity)), nil
}

// quantity * (variantPrice + Σ(ingredientPrice * ingredientQuantity))
func LineSubtotal(l Line) (int64, error) {
	d, err := lineAmount(l)
	if err != nil {
		return 0, err
	}
	return toAmount(d)
}

// 全明細の小計
func Subtotal(lines []Line) (int64, error) {
	sum := decimal.Zero
	for _, l := range lines {
		d, err := lineAmount(l)
		if err != nil {
			return 0, err
		}
		sum = sum.Add(d)
	}
	return toAmount(sum)
}

// 小計＋配送料。Cart.TotalAmount に保存する値。
func Total(subtotal int64, deliveryPrice int64) (int64, error) {
	return toAmount(decimal.NewFromInt(subtotal).Add(decimal.NewFromInt(deliveryPrice)))
}

// amount * percent / 100 を四捨五入（0.5は切り上げ）
func PercentDiscount(amount int64, percent int64) int64 {
	d := decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return d.IntPart()
}

// 配送料（送料無料なら0）と割引を反映した支払額。0 から MaxInt64 の間に収める。
func FinalPrice(subtotal int64, deliveryPrice int64, discount int64, freeShipping bool) int64 {
	delivery := deliveryPrice
	if freeShipping {
		delivery = 0
	}
	final := decimal.NewFromInt(subtotal).
		Add(decimal.NewFromInt(delivery)).
		Sub(decimal.NewFromInt(discount))
	if final.IsNegative() {
		return 0
	}
	if final.GreaterThan(maxAmount) {
		return math.MaxInt64
	}
	return final.IntPart()
}

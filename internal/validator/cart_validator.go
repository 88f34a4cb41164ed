package validator

import (
	"errors"

	"foodcart/internal/usecase"
)

// 1回の指定で受け付ける数量の上限（商品・トッピング共通）
const MaxQuantity = 999

var (
	// userIdが無い
	ErrUserIDRequired = errors.New("userId is required")

	// 明細の指定が無い
	ErrLineRefRequired = errors.New("productId or variantId is required")

	// 追加数量
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 999")

	// トッピング
	ErrIngredientRequired = errors.New("ingredientId is required")
	ErrNegativeQuantity   = errors.New("quantity must be >= 0")
	ErrQuantityTooLarge   = errors.New("quantity must be <= 999")

	// 付け替え先
	ErrVariantRequired = errors.New("variantId is required")
)

type cartValidator struct{}

// Usecaseは interface を依存注入
func NewCartValidator() usecase.CartValidator {
	return &cartValidator{}
}

func (v *cartValidator) ValidateUserID(userID int64) error {
	if userID <= 0 {
		return ErrUserIDRequired
	}
	return nil
}

func (v *cartValidator) ValidateLineRef(ref usecase.LineRef) error {
	if ref.ProductID < 0 || ref.VariantID < 0 {
		return ErrLineRefRequired
	}
	if ref.ProductID == 0 && ref.VariantID == 0 {
		return ErrLineRefRequired
	}
	return nil
}

func (v *cartValidator) ValidateAddItem(in usecase.AddItemInput) error {
	if err := v.ValidateLineRef(usecase.LineRef{ProductID: in.ProductID, VariantID: in.VariantID}); err != nil {
		return err
	}
	if in.Quantity < 1 || in.Quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	for _, ing := range in.Ingredients {
		if ing.ID <= 0 {
			return ErrIngredientRequired
		}
		// 0は1個扱い
		if ing.Quantity < 0 {
			return ErrNegativeQuantity
		}
		if ing.Quantity > MaxQuantity {
			return ErrQuantityTooLarge
		}
	}
	return nil
}

func (v *cartValidator) ValidateSetVariant(in usecase.SetVariantInput) error {
	if err := v.ValidateLineRef(usecase.LineRef{ProductID: in.ProductID, VariantID: in.CurrentVariantID}); err != nil {
		return err
	}
	if in.VariantID <= 0 {
		return ErrVariantRequired
	}
	return nil
}

func (v *cartValidator) ValidateIngredient(in usecase.IngredientInput) error {
	if err := v.ValidateLineRef(in.Ref); err != nil {
		return err
	}
	if in.IngredientID <= 0 {
		return ErrIngredientRequired
	}
	if in.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if in.Quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}
	return nil
}

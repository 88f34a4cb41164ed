package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"foodcart/internal/domain/pricing"
)

// エラーコード（レスポンスの code に入る）
const (
	CodeInvalidInput         = "INVALID_INPUT"
	CodeCartNotFound         = "CART_NOT_FOUND"
	CodeProductNotFound      = "PRODUCT_NOT_FOUND"
	CodeVariantNotFound      = "VARIANT_NOT_FOUND"
	CodeItemNotFound         = "ITEM_NOT_FOUND"
	CodeIngredientNotFound   = "INGREDIENT_NOT_FOUND"
	CodeIngredientNotInCart  = "INGREDIENT_NOT_IN_CART"
	CodeVariantAlreadyInCart = "VARIANT_ALREADY_IN_CART"
	CodePromoNotFound        = "PROMO_NOT_FOUND"
	CodePromoInactive        = "PROMO_INACTIVE"
	CodePromoExpired         = "PROMO_EXPIRED"
	CodePromoMinOrder        = "PROMO_MIN_ORDER"
	CodePromoExhausted       = "PROMO_EXHAUSTED"
	CodeInternal             = "INTERNAL"
)

// handlerでそのままHTTPステータスとJSONにする
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error // 原因（DBエラーなど）。レスポンスには出さない。
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, code string, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 400
func invalidInput(message string) error {
	return NewHTTPError(http.StatusBadRequest, CodeInvalidInput, message)
}

// 404（何が無いかをmessageに入れる）
func notFound(code string, message string) error {
	return NewHTTPError(http.StatusNotFound, code, message)
}

// 500。原因はErrに残す（リトライ判定とログ用）
func dbError(err error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "db error",
		Err:     err,
	}
}

// 金額計算の失敗は入力側の問題として400にする（Txはロールバックされる）
func pricingError(err error) error {
	msg := "invalid price or quantity"
	if errors.Is(err, pricing.ErrOverflow) {
		msg = "cart total is too large"
	}
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidInput,
		Message: msg,
		Err:     err,
	}
}

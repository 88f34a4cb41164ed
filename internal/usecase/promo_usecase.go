package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"foodcart/internal/domain/model"
	"foodcart/internal/domain/pricing"
	"foodcart/internal/platform/logger"
	repo "foodcart/internal/repository"
)

// テストで時刻を固定するため
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FIXED割引を金額で頭打ちにするか（しない場合でも最終金額は0未満にならない）
type PromoPolicy struct {
	CapFixedToAmount bool
}

type ApplyPromoInput struct {
	Code   string
	Amount int64
}

type PromoResult struct {
	Code         string     `json:"promoCode"`
	Discount     int64      `json:"discount"`
	FreeShipping bool       `json:"freeShipping"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

type PromoUsecase struct {
	promos repo.PromoCodeRepository
	policy PromoPolicy
	clock  Clock
	log    *logger.Logger
}

// DI
func NewPromoUsecase(promos repo.PromoCodeRepository, policy PromoPolicy, clock Clock, log *logger.Logger) *PromoUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PromoUsecase{
		promos: promos,
		policy: policy,
		clock:  clock,
		log:    log,
	}
}

// Apply はコードを金額に適用した割引を返す（使用回数は増やさない）。
func (u *PromoUsecase) Apply(ctx context.Context, in ApplyPromoInput) (PromoResult, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return PromoResult{}, invalidInput("promoCode is required")
	}
	if in.Amount < 0 {
		return PromoResult{}, invalidInput("totalAmount must be >= 0")
	}

	p, err := u.find(ctx, code)
	if err != nil {
		return PromoResult{}, err
	}
	return EvaluatePromo(p, in.Amount, u.clock.Now(), u.policy)
}

// Redeem は注文確定時に使用回数を1増やす。上限に達していればエラー。
func (u *PromoUsecase) Redeem(ctx context.Context, code string) error {
	p, err := u.find(ctx, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	ok, err := u.promos.IncrementUsedCountIfAvailable(ctx, p.ID)
	if err != nil {
		u.log.Error("promo redeem failed", "code", p.Code, "err", err)
		return dbError(err)
	}
	if !ok {
		return NewHTTPError(http.StatusBadRequest, CodePromoExhausted, "promo code usage limit reached")
	}
	return nil
}

func (u *PromoUsecase) find(ctx context.Context, code string) (model.PromoCode, error) {
	p, err := u.promos.FindByCode(ctx, code)
	if errors.Is(err, repo.ErrNotFound) {
		return model.PromoCode{}, notFound(CodePromoNotFound, "promo code not found")
	}
	if err != nil {
		u.log.Error("promo lookup failed", "code", code, "err", err)
		return model.PromoCode{}, dbError(err)
	}
	return p, nil
}

// EvaluatePromo は判定本体（DBに触らない）。
// 判定順: 有効 → 期限 → 最低金額 → 使用上限 → 割引計算
func EvaluatePromo(p model.PromoCode, amount int64, now time.Time, policy PromoPolicy) (PromoResult, error) {
	if !p.IsActive {
		return PromoResult{}, notFound(CodePromoInactive, "promo code is not active")
	}
	if p.ExpiresAt != nil && now.After(*p.ExpiresAt) {
		return PromoResult{}, NewHTTPError(http.StatusBadRequest, CodePromoExpired, "promo code has expired")
	}
	if p.MinOrderAmount != nil && amount < *p.MinOrderAmount {
		return PromoResult{}, NewHTTPError(http.StatusBadRequest, CodePromoMinOrder,
			fmt.Sprintf("minimum order amount is %d", *p.MinOrderAmount))
	}
	// maxUses が未設定または0なら上限なし
	if p.MaxUses != nil && *p.MaxUses > 0 && p.UsedCount >= *p.MaxUses {
		return PromoResult{}, NewHTTPError(http.StatusBadRequest, CodePromoExhausted, "promo code usage limit reached")
	}

	var discount int64
	switch p.DiscountType {
	case model.DiscountTypePercent:
		discount = pricing.PercentDiscount(amount, p.DiscountValue)
	case model.DiscountTypeFixed:
		discount = p.DiscountValue
		if policy.CapFixedToAmount && discount > amount {
			discount = amount
		}
	default:
		return PromoResult{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "unknown discount type")
	}

	return PromoResult{
		Code:         p.Code,
		Discount:     discount,
		FreeShipping: p.FreeShipping,
		ExpiresAt:    p.ExpiresAt,
	}, nil
}

package repository

import (
	"context"

	"foodcart/internal/domain/model"
)

type PromoCodeRepository interface {
	FindByCode(ctx context.Context, code string) (model.PromoCode, error)
	// 上限に達していないときだけ used_count を+1
	IncrementUsedCountIfAvailable(ctx context.Context, id int64) (bool, error)
}

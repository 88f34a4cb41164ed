package repository

import (
	"context"

	"foodcart/internal/domain/model"
)

type CartRepository interface {
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 行ロック（FOR UPDATE）付きで取得。同じカートへの更新はここで直列化される。
	LockByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 無ければ作成し、行ロック付きで返す
	GetOrCreateForUpdate(ctx context.Context, userID int64, token string) (model.Cart, error)
	UpdateTotalAmount(ctx context.Context, cartID int64, totalAmount int64) error
}

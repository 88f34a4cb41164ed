package repository

import (
	"context"
	"time"

	"foodcart/internal/domain/model"
)

type VariantRepository interface {
	FindByID(ctx context.Context, id int64) (model.ProductVariant, error)
	// 商品の最初のバリエーション（id順）。無ければErrNotFound。
	FirstByProductID(ctx context.Context, productID int64) (model.ProductVariant, error)
	// 商品の基本価格でサイズ無しのデフォルトを作る
	CreateSynthetic(ctx context.Context, p model.Product) (model.ProductVariant, error)
	// どの明細からも参照されていない自動作成分を削除し、削除件数を返す
	DeleteUnreferencedSynthetic(ctx context.Context, createdBefore time.Time) (int64, error)
}

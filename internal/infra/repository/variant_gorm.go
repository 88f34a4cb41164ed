package repository

import (
	"context"
	"errors"
	"time"

	"foodcart/internal/domain/model"
	repo "foodcart/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VariantGormRepository struct {
	db *gorm.DB
}

func NewVariantGormRepository(db *gorm.DB) *VariantGormRepository {
	return &VariantGormRepository{db: db}
}

// 共有ロックを取って、掃除ジョブと同時に削除されないようにする
func (r *VariantGormRepository) FindByID(ctx context.Context, id int64) (model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductVariant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductVariant{}, err
	}
	return v, nil
}

// 通常のバリエーションを優先し、無ければ自動作成分
func (r *VariantGormRepository) FirstByProductID(ctx context.Context, productID int64) (model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("product_id = ?", productID).
		Order("is_synthetic asc").
		Order("id asc").
		Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductVariant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductVariant{}, err
	}
	return v, nil
}

func (r *VariantGormRepository) CreateSynthetic(ctx context.Context, p model.Product) (model.ProductVariant, error) {
	v := model.ProductVariant{
		ProductID:   p.ID,
		Price:       p.Price,
		IsSynthetic: true,
	}
	if err := r.db.WithContext(ctx).Omit("Product").Create(&v).Error; err != nil {
		return model.ProductVariant{}, err
	}
	return v, nil
}

// 1文で「未参照かつ猶予期間を過ぎた自動作成分」だけを消す
func (r *VariantGormRepository) DeleteUnreferencedSynthetic(ctx context.Context, createdBefore time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_synthetic = ? AND created_at < ?", true, createdBefore).
		Where("NOT EXISTS (SELECT 1 FROM cart_items WHERE cart_items.product_variant_id = product_variants.id)").
		Delete(&model.ProductVariant{})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

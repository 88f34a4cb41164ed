package repository

import (
	"context"
	"errors"

	"foodcart/internal/domain/model"
	repo "foodcart/internal/repository"

	"gorm.io/gorm"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// カート明細を一覧取得（価格計算に必要な関連も読む）
func (r *CartItemGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Preload("Variant.Product").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_item_ingredients.id asc")
		}).
		Preload("Ingredients.Ingredient").
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

func (r *CartItemGormRepository) FindByCartAndVariant(ctx context.Context, cartID int64, variantID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_variant_id = ?", cartID, variantID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func (r *CartItemGormRepository) FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Select("cart_items.*").
		Joins("JOIN product_variants ON product_variants.id = cart_items.product_variant_id").
		Where("cart_items.cart_id = ? AND product_variants.product_id = ?", cartID, productID).
		Order("cart_items.id asc").
		Take(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func (r *CartItemGormRepository) Create(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	if item.Quantity <= 0 {
		return model.CartItem{}, errors.New("invalid quantity")
	}
	if err := r.db.WithContext(ctx).Omit("Variant", "Ingredients").Create(&item).Error; err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// 数量を加算（減算はdeltaをマイナスで）
func (r *CartItemGormRepository) AddQuantity(ctx context.Context, itemID int64, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", delta))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細のバリエーションを差し替え
func (r *CartItemGormRepository) UpdateVariant(ctx context.Context, itemID int64, variantID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("product_variant_id", variantID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除（トッピングを先に消す）
func (r *CartItemGormRepository) DeleteByID(ctx context.Context, itemID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_item_id = ?", itemID).Delete(&model.CartItemIngredient{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.CartItem{}, itemID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

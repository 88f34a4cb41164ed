package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodcart/internal/domain/model"
)

//go:embed default.yaml
var defaultSeed []byte

type File struct {
	Products    []Product    `yaml:"products"`
	Ingredients []Ingredient `yaml:"ingredients"`
	PromoCodes  []PromoCode  `yaml:"promoCodes"`
}

type Product struct {
	ID         int64     `yaml:"id"`
	Name       string    `yaml:"name"`
	Price      int64     `yaml:"price"`
	ImageURL   string    `yaml:"imageUrl"`
	CategoryID int64     `yaml:"categoryId"`
	Variants   []Variant `yaml:"variants"`
}

type Variant struct {
	ID    int64 `yaml:"id"`
	Price int64 `yaml:"price"`
	Size  *int  `yaml:"size"`
	Type  *int  `yaml:"type"`
}

type Ingredient struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	Price    int64  `yaml:"price"`
	ImageURL string `yaml:"imageUrl"`
}

type PromoCode struct {
	Code           string     `yaml:"code"`
	IsActive       *bool      `yaml:"isActive"`
	DiscountType   string     `yaml:"discountType"`
	DiscountValue  int64      `yaml:"discountValue"`
	ExpiresAt      *time.Time `yaml:"expiresAt"`
	MinOrderAmount *int64     `yaml:"minOrderAmount"`
	MaxUses        *int64     `yaml:"maxUses"`
	UsedCount      int64      `yaml:"usedCount"`
	FreeShipping   bool       `yaml:"freeShipping"`
}

// Default は埋め込みの初期データ
func Default() (File, error) {
	return Parse(defaultSeed)
}

// Load は path が空なら埋め込みを使う
func Load(path string) (File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read seed: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("parse seed: %w", err)
	}
	if err := f.validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

func (f File) validate() error {
	for _, p := range f.Products {
		if p.ID <= 0 || p.Name == "" || p.Price < 0 {
			return fmt.Errorf("seed: invalid product %d", p.ID)
		}
		for _, v := range p.Variants {
			if v.ID <= 0 || v.Price < 0 {
				return fmt.Errorf("seed: invalid variant %d of product %d", v.ID, p.ID)
			}
		}
	}
	for _, i := range f.Ingredients {
		if i.ID <= 0 || i.Name == "" || i.Price < 0 {
			return fmt.Errorf("seed: invalid ingredient %d", i.ID)
		}
	}
	for _, c := range f.PromoCodes {
		switch model.DiscountType(c.DiscountType) {
		case model.DiscountTypePercent, model.DiscountTypeFixed:
		default:
			return fmt.Errorf("seed: promo %q has unknown discountType %q", c.Code, c.DiscountType)
		}
		if c.Code == "" || c.DiscountValue < 0 {
			return fmt.Errorf("seed: invalid promo %q", c.Code)
		}
	}
	return nil
}

// Apply は投入（同じIDは上書き）。全体を1つのTxで行う。
func Apply(ctx context.Context, gdb *gorm.DB, f File) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := func() *gorm.DB {
			return tx.Clauses(clause.OnConflict{UpdateAll: true})
		}

		for _, p := range f.Products {
			row := model.Product{
				ID:         p.ID,
				Name:       p.Name,
				Price:      p.Price,
				ImageURL:   p.ImageURL,
				CategoryID: p.CategoryID,
			}
			if err := upsert().Create(&row).Error; err != nil {
				return fmt.Errorf("seed product %d: %w", p.ID, err)
			}
			for _, v := range p.Variants {
				vr := model.ProductVariant{
					ID:        v.ID,
					ProductID: p.ID,
					Price:     v.Price,
					Size:      v.Size,
					Type:      v.Type,
				}
				if err := upsert().Omit("Product").Create(&vr).Error; err != nil {
					return fmt.Errorf("seed variant %d: %w", v.ID, err)
				}
			}
		}

		for _, i := range f.Ingredients {
			row := model.Ingredient{
				ID:       i.ID,
				Name:     i.Name,
				Price:    i.Price,
				ImageURL: i.ImageURL,
			}
			if err := upsert().Create(&row).Error; err != nil {
				return fmt.Errorf("seed ingredient %d: %w", i.ID, err)
			}
		}

		for _, c := range f.PromoCodes {
			active := true
			if c.IsActive != nil {
				active = *c.IsActive
			}
			row := model.PromoCode{
				Code:           c.Code,
				IsActive:       active,
				DiscountType:   model.DiscountType(c.DiscountType),
				DiscountValue:  c.DiscountValue,
				ExpiresAt:      c.ExpiresAt,
				MinOrderAmount: c.MinOrderAmount,
				MaxUses:        c.MaxUses,
				UsedCount:      c.UsedCount,
				FreeShipping:   c.FreeShipping,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "code"}},
				DoUpdates: clause.AssignmentColumns([]string{"is_active", "discount_type", "discount_value", "expires_at", "min_order_amount", "max_uses", "used_count", "free_shipping"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("seed promo %q: %w", c.Code, err)
			}
		}

		// IDを直接入れたのでシーケンスを進めておく（postgresのみ）
		if tx.Dialector.Name() == "postgres" {
			for _, table := range []string{"products", "product_variants", "ingredients"} {
				q := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))", table, table)
				if err := tx.Exec(q).Error; err != nil {
					return fmt.Errorf("seed sequence %s: %w", table, err)
				}
			}
		}
		return nil
	})
}

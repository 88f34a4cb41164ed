package repository

import (
	"context"
	"errors"

	repo "foodcart/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type txReposGorm struct {
	carts               repo.CartRepository
	cartItems           repo.CartItemRepository
	cartItemIngredients repo.CartItemIngredientRepository
	products            repo.ProductRepository
	variants            repo.VariantRepository
	ingredients         repo.IngredientRepository
	promoCodes          repo.PromoCodeRepository
}

func (r *txReposGorm) Carts() repo.CartRepository         { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository { return r.cartItems }
func (r *txReposGorm) CartItemIngredients() repo.CartItemIngredientRepository {
	return r.cartItemIngredients
}
func (r *txReposGorm) Products() repo.ProductRepository       { return r.products }
func (r *txReposGorm) Variants() repo.VariantRepository       { return r.variants }
func (r *txReposGorm) Ingredients() repo.IngredientRepository { return r.ingredients }
func (r *txReposGorm) PromoCodes() repo.PromoCodeRepository   { return r.promoCodes }

// デッドロック・直列化失敗のときの最大試行回数
const defaultTxAttempts = 3

type TxManagerGorm struct {
	db       *gorm.DB
	attempts int
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db, attempts: defaultTxAttempts}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	var err error
	for i := 0; i < tm.attempts; i++ {
		err = tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			//repoはtxを持ったDBで作り直す
			return fn(NewTxRepos(tx))
		})
		if !isRetryableTxError(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

// 同じ *gorm.DB を共有するリポジトリ一式
func NewTxRepos(db *gorm.DB) repo.TxRepos {
	return &txReposGorm{
		carts:               NewCartGormRepository(db),
		cartItems:           NewCartItemGormRepository(db),
		cartItemIngredients: NewCartItemIngredientGormRepository(db),
		products:            NewProductGormRepository(db),
		variants:            NewVariantGormRepository(db),
		ingredients:         NewIngredientGormRepository(db),
		promoCodes:          NewPromoCodeGormRepository(db),
	}
}

// 40001 serialization_failure / 40P01 deadlock_detected
func isRetryableTxError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

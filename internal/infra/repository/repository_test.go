package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodcart/internal/domain/model"
	infraRepo "foodcart/internal/infra/repository"
	repo "foodcart/internal/repository"
	"foodcart/internal/testutil"
)

func TestCartGorm_GetOrCreateForUpdate_OneCartPerUser(t *testing.T) {
	ctx := context.Background()
	carts := infraRepo.NewCartGormRepository(testutil.NewDB(t))

	_, err := carts.FindByUserID(ctx, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	first, err := carts.GetOrCreateForUpdate(ctx, 1, "tok-a")
	require.NoError(t, err)
	second, err := carts.GetOrCreateForUpdate(ctx, 1, "tok-b")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "tok-a", second.Token)

	require.NoError(t, carts.UpdateTotalAmount(ctx, first.ID, 650))
	got, err := carts.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(650), got.TotalAmount)

	assert.ErrorIs(t, carts.UpdateTotalAmount(ctx, testutil.UnknownID, 1), repo.ErrNotFound)
}

func TestCartItemGorm_ListPreloadsPricingData(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	r := infraRepo.NewTxRepos(gdb)

	cart, err := r.Carts().GetOrCreateForUpdate(ctx, 1, "tok")
	require.NoError(t, err)

	item, err := r.CartItems().Create(ctx, model.CartItem{CartID: cart.ID, ProductVariantID: testutil.MargheritaSmallID, Quantity: 2})
	require.NoError(t, err)
	_, err = r.CartItemIngredients().Create(ctx, model.CartItemIngredient{CartItemID: item.ID, IngredientID: testutil.MozzarellaID, Quantity: 1})
	require.NoError(t, err)

	items, err := r.CartItems().ListByCartID(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, testutil.MargheritaSmallPrice, items[0].Variant.Price)
	assert.Equal(t, "Margherita", items[0].Variant.Product.Name)
	require.Len(t, items[0].Ingredients, 1)
	assert.Equal(t, testutil.MozzarellaPrice, items[0].Ingredients[0].Ingredient.Price)
}

func TestCartItemGorm_UniquePerCartAndVariant(t *testing.T) {
	ctx := context.Background()
	r := infraRepo.NewTxRepos(testutil.NewDB(t))

	cart, err := r.Carts().GetOrCreateForUpdate(ctx, 1, "tok")
	require.NoError(t, err)

	_, err = r.CartItems().Create(ctx, model.CartItem{CartID: cart.ID, ProductVariantID: testutil.MargheritaSmallID, Quantity: 1})
	require.NoError(t, err)
	_, err = r.CartItems().Create(ctx, model.CartItem{CartID: cart.ID, ProductVariantID: testutil.MargheritaSmallID, Quantity: 1})
	assert.Error(t, err)
}

func TestCartItemGorm_FindByCartAndProduct(t *testing.T) {
	ctx := context.Background()
	r := infraRepo.NewTxRepos(testutil.NewDB(t))

	cart, err := r.Carts().GetOrCreateForUpdate(ctx, 1, "tok")
	require.NoError(t, err)

	_, err = r.CartItems().FindByCartAndProduct(ctx, cart.ID, testutil.MargheritaID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	medium, err := r.CartItems().Create(ctx, model.CartItem{CartID: cart.ID, ProductVariantID: testutil.MargheritaMediumID, Quantity: 1})
	require.NoError(t, err)
	_, err = r.CartItems().Create(ctx, model.CartItem{CartID: cart.ID, ProductVariantID: testutil.MargheritaSmallID, Quantity: 1})
	require.NoError(t, err)

	// 先に入れた行
	got, err := r.CartItems().FindByCartAndProduct(ctx, cart.ID, testutil.MargheritaID)
	require.NoError(t, err)
	assert.Equal(t, medium.ID, got.ID)
}

func TestCartItemGorm_DeleteByIDRemovesIngredients(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	r := infraRepo.NewTxRepos(gdb)

	cart, err := r.Carts().GetOrCreateForUpdate(ctx, 1, "tok")
	require.NoError(t, err)
	item, err := r.CartItems().Create(ctx, model.CartItem{CartID: cart.ID, ProductVariantID: testutil.MargheritaSmallID, Quantity: 1})
	require.NoError(t, err)
	_, err = r.CartItemIngredients().Create(ctx, model.CartItemIngredient{CartItemID: item.ID, IngredientID: testutil.MozzarellaID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, r.CartItems().DeleteByID(ctx, item.ID))

	var left int64
	require.NoError(t, gdb.Model(&model.CartItemIngredient{}).Where("cart_item_id = ?", item.ID).Count(&left).Error)
	assert.Zero(t, left)

	assert.ErrorIs(t, r.CartItems().DeleteByID(ctx, item.ID), repo.ErrNotFound)
}

func TestCartItemIngredientGorm_DeleteByItemAndIngredient_Idempotent(t *testing.T) {
	ctx := context.Background()
	r := infraRepo.NewTxRepos(testutil.NewDB(t))

	cart, err := r.Carts().GetOrCreateForUpdate(ctx, 1, "tok")
	require.NoError(t, err)
	item, err := r.CartItems().Create(ctx, model.CartItem{CartID: cart.ID, ProductVariantID: testutil.MargheritaSmallID, Quantity: 1})
	require.NoError(t, err)
	_, err = r.CartItemIngredients().Create(ctx, model.CartItemIngredient{CartItemID: item.ID, IngredientID: testutil.MozzarellaID, Quantity: 1})
	require.NoError(t, err)

	n, err := r.CartItemIngredients().DeleteByItemAndIngredient(ctx, item.ID, testutil.MozzarellaID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = r.CartItemIngredients().DeleteByItemAndIngredient(ctx, item.ID, testutil.MozzarellaID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestVariantGorm_FirstByProductIDAndSynthetic(t *testing.T) {
	ctx := context.Background()
	r := infraRepo.NewTxRepos(testutil.NewDB(t))

	v, err := r.Variants().FirstByProductID(ctx, testutil.MargheritaID)
	require.NoError(t, err)
	assert.Equal(t, testutil.MargheritaSmallID, v.ID)

	_, err = r.Variants().FirstByProductID(ctx, testutil.CheeseID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	p, err := r.Products().FindByID(ctx, testutil.CheeseID)
	require.NoError(t, err)
	syn, err := r.Variants().CreateSynthetic(ctx, p)
	require.NoError(t, err)
	assert.True(t, syn.IsSynthetic)
	assert.Equal(t, testutil.CheesePrice, syn.Price)
	assert.Nil(t, syn.Size)

	again, err := r.Variants().FirstByProductID(ctx, testutil.CheeseID)
	require.NoError(t, err)
	assert.Equal(t, syn.ID, again.ID)
}

func TestVariantGorm_DeleteUnreferencedSynthetic(t *testing.T) {
	ctx := context.Background()
	r := infraRepo.NewTxRepos(testutil.NewDB(t))

	cheese, err := r.Products().FindByID(ctx, testutil.CheeseID)
	require.NoError(t, err)
	lemonade, err := r.Products().FindByID(ctx, 6)
	require.NoError(t, err)

	used, err := r.Variants().CreateSynthetic(ctx, cheese)
	require.NoError(t, err)
	unused, err := r.Variants().CreateSynthetic(ctx, lemonade)
	require.NoError(t, err)

	cart, err := r.Carts().GetOrCreateForUpdate(ctx, 1, "tok")
	require.NoError(t, err)
	_, err = r.CartItems().Create(ctx, model.CartItem{CartID: cart.ID, ProductVariantID: used.ID, Quantity: 1})
	require.NoError(t, err)

	// 猶予期間内は消さない
	n, err := r.Variants().DeleteUnreferencedSynthetic(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = r.Variants().DeleteUnreferencedSynthetic(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = r.Variants().FindByID(ctx, unused.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	_, err = r.Variants().FindByID(ctx, used.ID)
	assert.NoError(t, err)

	// 通常のバリエーションは対象外
	_, err = r.Variants().FindByID(ctx, testutil.MargheritaSmallID)
	assert.NoError(t, err)
}

func TestPromoCodeGorm_IncrementUsedCountIfAvailable(t *testing.T) {
	ctx := context.Background()
	promos := infraRepo.NewPromoCodeGormRepository(testutil.NewDB(t))

	once, err := promos.FindByCode(ctx, "ONCE")
	require.NoError(t, err)
	ok, err := promos.IncrementUsedCountIfAvailable(ctx, once.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// 上限なし
	save, err := promos.FindByCode(ctx, "SAVE10")
	require.NoError(t, err)
	ok, err = promos.IncrementUsedCountIfAvailable(ctx, save.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	save, err = promos.FindByCode(ctx, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, int64(1), save.UsedCount)

	_, err = promos.FindByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestPromoCodeGorm_IncrementUsedCountIfAvailable_ZeroMaxUses(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	promos := infraRepo.NewPromoCodeGormRepository(gdb)

	save, err := promos.FindByCode(ctx, "SAVE10")
	require.NoError(t, err)
	require.NoError(t, gdb.Model(&model.PromoCode{}).Where("id = ?", save.ID).
		Updates(map[string]interface{}{"max_uses": 0, "used_count": 5}).Error)

	for i := 0; i < 2; i++ {
		ok, err := promos.IncrementUsedCountIfAvailable(ctx, save.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	save, err = promos.FindByCode(ctx, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, int64(7), save.UsedCount)
}

func TestTxManagerGorm_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	tm := infraRepo.NewTxManagerGorm(gdb)

	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Carts().GetOrCreateForUpdate(ctx, 1, "tok"); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = infraRepo.NewCartGormRepository(gdb).FindByUserID(ctx, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

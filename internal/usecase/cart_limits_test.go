package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodcart/internal/domain/model"
	"foodcart/internal/testutil"
	"foodcart/internal/usecase"
	"foodcart/internal/validator"
)

func TestCartUsecase_AddItem_RejectsQuantityOverLimit(t *testing.T) {
	ctx := context.Background()
	env := newCartEnv(t)

	_, err := env.uc.AddItem(ctx, userID, usecase.AddItemInput{ProductID: testutil.MargheritaID, Quantity: 1})
	require.NoError(t, err)

	for _, qty := range []int64{validator.MaxQuantity + 1, 1 << 62} {
		_, err = env.uc.AddItem(ctx, userID, usecase.AddItemInput{ProductID: testutil.MargheritaID, Quantity: qty})
		requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidInput)
	}

	_, err = env.uc.AddItem(ctx, userID, usecase.AddItemInput{
		ProductID:   testutil.MargheritaID,
		Quantity:    1,
		Ingredients: []usecase.IngredientQty{{ID: testutil.MozzarellaID, Quantity: 1 << 62}},
	})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidInput)

	view, err := env.uc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(1), view.Items[0].Quantity)
	env.assertPersistedTotal(t, userID, 350)
}

func TestCartUsecase_AttachIngredient_RejectsQuantityOverLimit(t *testing.T) {
	ctx := context.Background()
	env := newCartEnv(t)
	const otherUser int64 = 2

	_, err := env.uc.AttachIngredient(ctx, otherUser, usecase.IngredientInput{
		Ref: margherita, IngredientID: testutil.MozzarellaID, Quantity: 1 << 62,
	})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidInput)

	_, err = env.uc.SetIngredientQuantity(ctx, otherUser, usecase.IngredientInput{
		Ref: margherita, IngredientID: testutil.MozzarellaID, Quantity: validator.MaxQuantity + 1,
	})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidInput)

	// 入力チェックで止まるのでカートも作られない
	var carts int64
	require.NoError(t, env.db.Model(&model.Cart{}).Where("user_id = ?", otherUser).Count(&carts).Error)
	assert.Zero(t, carts)
}

// 保存済みの数量が大きすぎて合計が int64 に収まらない場合も、
// 変更はロールバックされ保存済みの合計は壊れない。
func TestCartUsecase_TotalOverflowRollsBack(t *testing.T) {
	ctx := context.Background()
	env := newCartEnv(t)

	_, err := env.uc.AddItem(ctx, userID, usecase.AddItemInput{
		ProductID:   testutil.MargheritaID,
		Quantity:    1,
		Ingredients: []usecase.IngredientQty{{ID: testutil.MozzarellaID}},
	})
	require.NoError(t, err)
	env.assertPersistedTotal(t, userID, 400)

	const huge = int64(1) << 62
	require.NoError(t, env.db.Model(&model.CartItemIngredient{}).Where("1 = 1").Update("quantity", huge).Error)

	_, err = env.uc.Increase(ctx, userID, margherita)
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidInput)
	he, _ := usecase.AsHTTPError(err)
	assert.Equal(t, "cart total is too large", he.Message)

	_, err = env.uc.GetCart(ctx, userID)
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidInput)

	var item model.CartItem
	require.NoError(t, env.db.First(&item).Error)
	assert.Equal(t, int64(1), item.Quantity)
	env.assertPersistedTotal(t, userID, 400)

	// 数量を戻せばまた計算できる
	res, err := env.uc.SetIngredientQuantity(ctx, userID, usecase.IngredientInput{
		Ref: margherita, IngredientID: testutil.MozzarellaID, Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(300+2*50+50), res.Cart.TotalAmount)
	env.assertPersistedTotal(t, userID, 450)
}

package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodcart/internal/domain/model"
	infraRepo "foodcart/internal/infra/repository"
	"foodcart/internal/platform/logger"
	repo "foodcart/internal/repository"
	"foodcart/internal/testutil"
	"foodcart/internal/usecase"
	"foodcart/internal/validator"
)

// Txごとにリポジトリへのアクセス順を記録する TransactionManager
type recordingTxManager struct {
	inner repo.TransactionManager

	mu  sync.Mutex
	txs [][]string
}

func (m *recordingTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return m.inner.WithinTx(ctx, func(r repo.TxRepos) error {
		calls := &callLog{}
		err := fn(&recordingTxRepos{TxRepos: r, calls: calls})

		m.mu.Lock()
		m.txs = append(m.txs, calls.list())
		m.mu.Unlock()
		return err
	})
}

func (m *recordingTxManager) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = nil
}

func (m *recordingTxManager) lastTx(t *testing.T) []string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.txs)
	return m.txs[len(m.txs)-1]
}

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (c *callLog) add(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, name)
}

func (c *callLog) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

type recordingTxRepos struct {
	repo.TxRepos
	calls *callLog
}

func (r *recordingTxRepos) Carts() repo.CartRepository {
	return &recordingCarts{CartRepository: r.TxRepos.Carts(), calls: r.calls}
}

func (r *recordingTxRepos) CartItems() repo.CartItemRepository {
	r.calls.add("cartItems")
	return r.TxRepos.CartItems()
}

func (r *recordingTxRepos) CartItemIngredients() repo.CartItemIngredientRepository {
	r.calls.add("cartItemIngredients")
	return r.TxRepos.CartItemIngredients()
}

func (r *recordingTxRepos) Products() repo.ProductRepository {
	r.calls.add("products")
	return r.TxRepos.Products()
}

func (r *recordingTxRepos) Variants() repo.VariantRepository {
	r.calls.add("variants")
	return r.TxRepos.Variants()
}

func (r *recordingTxRepos) Ingredients() repo.IngredientRepository {
	r.calls.add("ingredients")
	return r.TxRepos.Ingredients()
}

type recordingCarts struct {
	repo.CartRepository
	calls *callLog
}

func (c *recordingCarts) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	c.calls.add("carts.find")
	return c.CartRepository.FindByUserID(ctx, userID)
}

func (c *recordingCarts) LockByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	c.calls.add("carts.lock")
	return c.CartRepository.LockByUserID(ctx, userID)
}

func (c *recordingCarts) GetOrCreateForUpdate(ctx context.Context, userID int64, token string) (model.Cart, error) {
	c.calls.add("carts.lock")
	return c.CartRepository.GetOrCreateForUpdate(ctx, userID, token)
}

func (c *recordingCarts) UpdateTotalAmount(ctx context.Context, cartID int64, totalAmount int64) error {
	c.calls.add("carts.updateTotal")
	return c.CartRepository.UpdateTotalAmount(ctx, cartID, totalAmount)
}

// どの変更操作も、カート行のロックを最初に取り、同じTxの最後に合計を書き込む。
// ロック前に明細を読むと、同じカートへの同時更新で古い明細から合計を作ってしまう。
func TestCartUsecase_MutationsLockCartFirst(t *testing.T) {
	ctx := context.Background()

	gdb := testutil.NewDB(t)
	tm := &recordingTxManager{inner: infraRepo.NewTxManagerGorm(gdb)}
	uc := usecase.NewCartUsecase(tm, validator.NewCartValidator(), nil, nil, logger.Nop(), testutil.DeliveryPrice)

	mozzarella := usecase.IngredientInput{Ref: margherita, IngredientID: testutil.MozzarellaID}

	steps := []struct {
		name string
		run  func() error
	}{
		{"add", func() error {
			_, err := uc.AddItem(ctx, userID, usecase.AddItemInput{ProductID: testutil.MargheritaID, Quantity: 1})
			return err
		}},
		{"increase", func() error { _, err := uc.Increase(ctx, userID, margherita); return err }},
		{"attachIngredient", func() error { _, err := uc.AttachIngredient(ctx, userID, mozzarella); return err }},
		{"increaseIngredient", func() error { _, err := uc.IncreaseIngredient(ctx, userID, mozzarella); return err }},
		{"setIngredientQuantity", func() error {
			in := mozzarella
			in.Quantity = 3
			_, err := uc.SetIngredientQuantity(ctx, userID, in)
			return err
		}},
		{"detachIngredient", func() error { _, err := uc.DetachIngredient(ctx, userID, mozzarella); return err }},
		{"setVariant", func() error {
			_, err := uc.SetVariant(ctx, userID, usecase.SetVariantInput{ProductID: testutil.MargheritaID, VariantID: testutil.MargheritaMediumID})
			return err
		}},
		{"decrease", func() error { _, err := uc.Decrease(ctx, userID, margherita); return err }},
	}

	for _, st := range steps {
		t.Run(st.name, func(t *testing.T) {
			tm.reset()
			require.NoError(t, st.run())

			calls := tm.lastTx(t)
			require.NotEmpty(t, calls)
			assert.Equal(t, "carts.lock", calls[0], "calls: %v", calls)
			assert.Equal(t, "carts.updateTotal", calls[len(calls)-1], "calls: %v", calls)
			assert.Equal(t, 1, count(calls, "carts.lock"), "calls: %v", calls)
		})
	}
}

func count(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}

package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodcart/internal/domain/model"
	infraRepo "foodcart/internal/infra/repository"
	"foodcart/internal/platform/logger"
	"foodcart/internal/testutil"
	"foodcart/internal/usecase"
	"foodcart/internal/validator"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []usecase.CartChangedEvent
}

func (n *recordingNotifier) CartChanged(ctx context.Context, ev usecase.CartChangedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func (n *recordingNotifier) ops() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Op)
	}
	return out
}

type cartEnv struct {
	db       *gorm.DB
	uc       *usecase.CartUsecase
	notifier *recordingNotifier
}

func newCartEnv(t *testing.T) cartEnv {
	t.Helper()

	gdb := testutil.NewDB(t)
	tm := infraRepo.NewTxManagerGorm(gdb)
	promo := usecase.NewPromoUsecase(infraRepo.NewPromoCodeGormRepository(gdb), usecase.PromoPolicy{}, nil, logger.Nop())
	n := &recordingNotifier{}

	uc := usecase.NewCartUsecase(tm, validator.NewCartValidator(), promo, n, logger.Nop(), testutil.DeliveryPrice)
	return cartEnv{db: gdb, uc: uc, notifier: n}
}

// 保存済みの total_amount がレスポンスと一致すること
func (e cartEnv) assertPersistedTotal(t *testing.T, userID int64, want int64) {
	t.Helper()

	var cart model.Cart
	require.NoError(t, e.db.Where("user_id = ?", userID).First(&cart).Error)
	assert.Equal(t, want, cart.TotalAmount)
}

func requireHTTPError(t *testing.T, err error, status int, code string) {
	t.Helper()

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, status, he.Status)
	assert.Equal(t, code, he.Code)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repo "foodcart/internal/repository"
	"foodcart/internal/testutil"
	"foodcart/internal/usecase"
)

// usecase 側で DB エラーを包んだ形（dbError と同じ）
func wrapAsDBError(err error) error {
	return &usecase.HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    usecase.CodeInternal,
		Message: "db error",
		Err:     err,
	}
}

func TestIsRetryableTxError(t *testing.T) {
	serialization := &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
	deadlock := &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}
	uniqueViolation := &pgconn.PgError{Code: "23505", Message: "duplicate key"}

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"serialization failure", serialization, true},
		{"deadlock", deadlock, true},
		{"other pg error", uniqueViolation, false},
		{"fmt wrapped serialization failure", fmt.Errorf("lock cart: %w", serialization), true},
		{"db error wrapped serialization failure", wrapAsDBError(serialization), true},
		{"db error wrapped deadlock", wrapAsDBError(fmt.Errorf("update total: %w", deadlock)), true},
		{"db error wrapped other pg error", wrapAsDBError(uniqueViolation), false},
		{"http error without cause", usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeInvalidInput, "bad"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryableTxError(tc.err))
		})
	}
}

func TestTxManagerGorm_RetriesOnSerializationFailure(t *testing.T) {
	ctx := context.Background()
	tm := NewTxManagerGorm(testutil.NewDB(t))

	calls := 0
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		calls++
		if calls < defaultTxAttempts {
			return wrapAsDBError(&pgconn.PgError{Code: "40001"})
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, defaultTxAttempts, calls)
}

func TestTxManagerGorm_GivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	tm := NewTxManagerGorm(testutil.NewDB(t))

	calls := 0
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		calls++
		return wrapAsDBError(&pgconn.PgError{Code: "40P01"})
	})
	require.Error(t, err)
	assert.Equal(t, defaultTxAttempts, calls)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "40P01", pgErr.Code)
}

func TestTxManagerGorm_DoesNotRetryOtherErrors(t *testing.T) {
	ctx := context.Background()
	tm := NewTxManagerGorm(testutil.NewDB(t))

	calls := 0
	want := usecase.NewHTTPError(http.StatusNotFound, usecase.CodeCartNotFound, "cart not found")
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		calls++
		return want
	})
	assert.Equal(t, want, err)
	assert.Equal(t, 1, calls)
}

func TestTxManagerGorm_StopsRetryingWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tm := NewTxManagerGorm(testutil.NewDB(t))

	calls := 0
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		calls++
		cancel()
		return wrapAsDBError(&pgconn.PgError{Code: "40001"})
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodcart/internal/infra/db"
	"foodcart/internal/infra/seed"
)

var dbSeq atomic.Int64

// NewDB はテストごとに別のインメモリSQLiteを作り、マイグレーションと初期データ投入まで行う。
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	gdb, err := db.OpenSQLite(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	f, err := seed.Default()
	require.NoError(t, err)
	require.NoError(t, seed.Apply(context.Background(), gdb, f))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

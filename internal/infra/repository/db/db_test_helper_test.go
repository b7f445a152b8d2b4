package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB 每個測試一個獨立的 in-memory sqlite
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	conn, err := GetSqliteConn(dsn)
	require.NoError(t, err)
	require.NoError(t, NewDbDao(conn).InitMigrate())
	t.Cleanup(func() {
		sqlDB, _ := conn.DB()
		sqlDB.Close()
	})
	return conn
}

// seedDefaultMenu 依 seed 順序寫入, Cheese 的 id 為 3
func seedDefaultMenu(t *testing.T, repo ICatalogRepository) {
	t.Helper()
	items, err := LoadMenuSeed("")
	require.NoError(t, err)
	n, err := SeedMenuIfEmpty(context.Background(), repo, items)
	require.NoError(t, err)
	require.Equal(t, len(items), n)
}

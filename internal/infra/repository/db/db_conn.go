package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RoyceAzure/lab/pickup/internal/config"
	"github.com/RoyceAzure/lab/pickup/internal/constants"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func GetDbConn(dbname, host, port, user, pas string) (*gorm.DB, error) {
	// 資料來源名稱 (DSN)
	dsn := fmt.Sprintf("user=%s password=%s host=%s port=%s dbname=%s sslmode=disable", user, pas, host, port, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// GetSqliteConn 開啟 sqlite 檔案, dsn 也可以是 "file:xxx?mode=memory&cache=shared"
// sqlite 只允許單一寫入者, 連線池固定一條連線
func GetSqliteConn(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Open 依照 DB_DRIVER 建立連線
func Open(cf *config.Config) (*gorm.DB, error) {
	switch cf.DbDriver {
	case constants.DriverPostgres:
		return GetDbConn(cf.DbName, cf.DbHost, cf.DbPort, cf.DbUser, cf.DbPas)
	case constants.DriverSqlite:
		if dir := filepath.Dir(cf.DbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		return GetSqliteConn(cf.DbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cf.DbDriver)
	}
}

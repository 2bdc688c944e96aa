// Package testutils holds shared fixtures for package tests.
package testutils

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"paper-trader/database"
	"paper-trader/models"
	"paper-trader/money"
	"paper-trader/quote"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// One connection keeps the shared in-memory database alive and
	// serializes writers the way BEGIN IMMEDIATE does on disk.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given balance and a placeholder hash.
func CreateUser(t testing.TB, db *gorm.DB, username string, cash money.Cents) *models.User {
	t.Helper()
	u := &models.User{Username: username, Hash: "x", Cash: cash}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// Cash reads the stored balance of a user.
func Cash(t testing.TB, db *gorm.DB, userID uint) money.Cents {
	t.Helper()
	var u models.User
	if err := db.First(&u, userID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	return u.Cash
}

// CountTransactions counts the ledger rows of a user.
func CountTransactions(t testing.TB, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Transaction{}).Where("userid = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	return n
}

// NewRedis starts a miniredis server that stops with the test.
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

// FlakyQuotes fails every lookup with Err, or with quote.ErrNotFound for
// symbols listed in Missing.
type FlakyQuotes struct {
	Next    quote.Lookuper
	Err     error
	Missing map[string]bool

	mu    sync.Mutex
	Calls int
}

func (f *FlakyQuotes) Lookup(ctx context.Context, symbol string) (quote.Quote, error) {
	f.mu.Lock()
	f.Calls++
	f.mu.Unlock()
	if f.Missing[symbol] {
		return quote.Quote{}, quote.ErrNotFound
	}
	if f.Err != nil {
		return quote.Quote{}, f.Err
	}
	return f.Next.Lookup(ctx, symbol)
}

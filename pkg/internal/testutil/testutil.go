package testutil

import (
	"fmt"
	"testing"

	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int

// SetupTestDB opens a fresh in-memory sqlite database, migrates the full
// schema and installs it as the package-global handle for the duration of
// the test.
func SetupTestDB(t *testing.T) {
	t.Helper()
	dbCounter++
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := gdb.AutoMigrate(
		&db.User{},
		&db.PairInvite{},
		&db.Pair{},
		&db.WishlistItem{},
		&db.NotificationLogEntry{},
		&db.PendingAction{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	db.DB = gdb

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}

	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}
		db.DB = nil
	})
}

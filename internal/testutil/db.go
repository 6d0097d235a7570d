// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"fmt"
	"testing"

	"promptly/internal/database"
	"promptly/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB returns a migrated in-memory database private to the test.
//
// The pool is pinned to one connection: every :memory: connection is its own database,
// and concurrent transactions queue on the pool instead of failing with SQLITE_BUSY.
// Code running inside a transaction must therefore only use the tx handle.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser inserts a user with a unique username and email.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// InsertPrompt writes a prompt row directly, bypassing the author counter. Use it only to
// set up engagement tests; creation semantics are exercised through the repository.
func InsertPrompt(t testing.TB, db *gorm.DB, authorID uint, title string) *models.Prompt {
	t.Helper()
	p := &models.Prompt{
		UserID:  authorID,
		Title:   title,
		Input:   "Write a haiku about Go",
		Tags:    []string{"AI"},
		AIModel: "gpt-4o",
		Output:  "Goroutines hum",
	}
	require.NoError(t, db.Omit("User").Create(p).Error)
	return p
}

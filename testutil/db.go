// Package testutil provides an isolated, migrated in-memory database per test.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"craftmyprep-backend/config"
	"craftmyprep-backend/logger"
	"craftmyprep-backend/models"
	"craftmyprep-backend/models/users"
)

// NewDB opens a fresh shared-cache in-memory SQLite database and migrates it.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := config.OpenDB(config.Database{Driver: "sqlite", DSN: dsn}, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with the given name and XP.
func CreateUser(t *testing.T, db *gorm.DB, name string, xp int) *users.User {
	t.Helper()

	email := fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8])
	u := &users.User{Name: name, Email: &email, XP: xp}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Fixture bundles a fresh database with helpers that fail the test on error.
type Fixture struct {
	t  *testing.T
	DB *gorm.DB
}

func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	return &Fixture{t: t, DB: NewDB(t)}
}

func (f *Fixture) User(name string, xp int) *users.User {
	f.t.Helper()
	return CreateUser(f.t, f.DB, name, xp)
}

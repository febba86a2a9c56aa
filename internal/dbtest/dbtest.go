// Package dbtest opens throwaway SQLite stores for tests. The schema is the
// one AutoMigrate builds for Postgres; row locks are no-ops on SQLite, and a
// single connection serializes transactions instead.
package dbtest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
)

// Open returns a migrated database living in t's temp dir
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        repositories.Now,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repositories.AutoMigrate(db))
	return db
}

// NewStore is Open wrapped in a Store
func NewStore(t testing.TB) *repositories.Store {
	return repositories.NewStore(Open(t))
}

// CreateUser inserts a user with the given handle
func CreateUser(t testing.TB, s *repositories.Store, handle string) *models.User {
	t.Helper()

	u := &models.User{Handle: handle, DisplayName: handle}
	require.NoError(t, s.Users.CreateUser(context.Background(), u))
	return u
}

// CreateUsers inserts n users named user1..userN
func CreateUsers(t testing.TB, s *repositories.Store, n int) []*models.User {
	t.Helper()

	users := make([]*models.User, n)
	for i := range users {
		users[i] = CreateUser(t, s, fmt.Sprintf("user%d", i+1))
	}
	return users
}

// CreatePost inserts a post of authorID, with a poll when options are given
func CreatePost(t testing.TB, s *repositories.Store, authorID uint, content string, options ...string) *models.Post {
	t.Helper()

	p := &models.Post{AuthorID: authorID, Content: content}
	if len(options) > 0 {
		poll, err := models.NewPoll("question?", options)
		require.NoError(t, err)
		p.SetPoll(poll)
	}
	require.NoError(t, s.Posts.CreatePost(context.Background(), p))
	return p
}

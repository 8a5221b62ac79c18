// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"reso/internal/database"
	"reso/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewSQLiteDB opens a private in-memory SQLite database with the full schema.
// A single connection serializes concurrent transactions the way row locks
// would on PostgreSQL.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_busy_timeout=5000", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user with fake identity data.
func CreateUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	u := &models.User{
		Email:    fmt.Sprintf("%d.%s", dbSeq.Add(1), gofakeit.Email()),
		Nickname: gofakeit.Username(),
	}
	if len(u.Nickname) > 30 {
		u.Nickname = u.Nickname[:30]
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateStory inserts a story owned by userID.
func CreateStory(t *testing.T, db *gorm.DB, userID uint, public bool) *models.Story {
	t.Helper()
	s := &models.Story{
		UserID:   userID,
		Title:    gofakeit.Sentence(4),
		Content:  gofakeit.Paragraph(1, 3, 12, " "),
		IsPublic: public,
		Emotion:  models.RandomEmotion(),
	}
	if len(s.Title) > 100 {
		s.Title = s.Title[:100]
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

// CreateComment inserts a comment by userID on storyID.
func CreateComment(t *testing.T, db *gorm.DB, storyID, userID uint) *models.Comment {
	t.Helper()
	c := &models.Comment{
		StoryID: storyID,
		UserID:  userID,
		Content: gofakeit.Sentence(8),
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

package database_test

import (
	"testing"

	"reso/internal/database"
	"reso/internal/models"
	"reso/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMigrate_OneBestCommentPerStory(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	owner := testutil.CreateUser(t, db)
	story := testutil.CreateStory(t, db, owner.ID, true)

	first := testutil.CreateComment(t, db, story.ID, owner.ID)
	second := testutil.CreateComment(t, db, story.ID, owner.ID)

	require.NoError(t, db.Model(&models.Comment{}).Where("id = ?", first.ID).Update("is_best", true).Error)

	err := db.Model(&models.Comment{}).Where("id = ?", second.ID).Update("is_best", true).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	other := testutil.CreateStory(t, db, owner.ID, true)
	third := testutil.CreateComment(t, db, other.ID, owner.ID)
	assert.NoError(t, db.Model(&models.Comment{}).Where("id = ?", third.ID).Update("is_best", true).Error)
}

func TestMigrate_UniqueLikePerUser(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	u := testutil.CreateUser(t, db)
	story := testutil.CreateStory(t, db, u.ID, true)

	require.NoError(t, db.Create(&models.StoryLike{UserID: u.ID, StoryID: story.ID}).Error)
	err := db.Create(&models.StoryLike{UserID: u.ID, StoryID: story.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	assert.NoError(t, database.Migrate(db))
}

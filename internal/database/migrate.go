package database

import (
	"fmt"

	"reso/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Session{},
		&models.Story{},
		&models.Comment{},
		&models.StoryLike{},
		&models.CommentLike{},
		&models.Advice{},
		&models.Bookmark{},
	}
}

// schemaStatements run after AutoMigrate. GORM tags cannot express partial indexes.
var schemaStatements = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_comments_story_best ON comments (story_id) WHERE is_best = true`,
}

// Migrate brings the schema up to date. On PostgreSQL the pgvector extension
// is created first so the embedding column type exists.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("create vector extension: %w", err)
		}
	}

	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return err
	}

	for _, stmt := range schemaStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}

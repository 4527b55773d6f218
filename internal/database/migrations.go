package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/elden-builds/backend/internal/models"
)

// Migrate creates or updates every table, index and foreign key.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Build{}, "LikedBy", &models.BuildLike{}); err != nil {
		return fmt.Errorf("setting up build_likes join table: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Build{},
		&models.BuildLike{},
		&models.Comment{},
		&models.CommentVote{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/elden-builds/backend/internal/models"
)

// CreateUser inserts a user with a default profile. displayName may be empty.
func CreateUser(t *testing.T, db *gorm.DB, username, displayName string) *models.User {
	t.Helper()

	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
	}
	require.NoError(t, db.Omit(clause.Associations).Create(u).Error)

	p := &models.UserProfile{
		UserID:      u.ID,
		DisplayName: displayName,
		Preferences: models.DefaultNotificationPreferences(),
	}
	require.NoError(t, db.Create(p).Error)
	u.Profile = p
	return u
}

func CreateBuild(t *testing.T, db *gorm.DB, owner *models.User, title string) *models.Build {
	t.Helper()

	b := &models.Build{
		Title:       title,
		Description: "strength build",
		Weapons:     "Greatsword",
		Armor:       "Bull-Goat Set",
		Talismans:   "Erdtree's Favor",
		UserID:      owner.ID,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(b).Error)
	b.User = owner
	return b
}

func CreateComment(t *testing.T, db *gorm.DB, author *models.User, build *models.Build, content string) *models.Comment {
	t.Helper()

	c := &models.Comment{Content: content, UserID: author.ID, BuildID: build.ID}
	require.NoError(t, db.Omit(clause.Associations).Create(c).Error)
	c.User = author
	c.Build = build
	return c
}

// CountNotifications counts notification rows matching the optional where
// clause.
func CountNotifications(t *testing.T, db *gorm.DB, query string, args ...any) int64 {
	t.Helper()

	var n int64
	q := db.Model(&models.Notification{})
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

package models

import "time"

// UserProfile is one-to-one with User and holds the public profile fields and
// the notification preferences.
type UserProfile struct {
	ID             int                     `gorm:"primaryKey" json:"id"`
	UserID         int                     `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName    string                  `gorm:"size:50" json:"display_name"`
	Bio            string                  `gorm:"size:500" json:"bio"`
	Location       string                  `gorm:"size:100" json:"location"`
	FavoriteWeapon string                  `gorm:"size:100" json:"favorite_weapon"`
	Preferences    NotificationPreferences `gorm:"embedded;embeddedPrefix:notify_on_" json:"preferences"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type UpdateProfileRequest struct {
	DisplayName    *string `json:"display_name" binding:"omitempty,max=50"`
	Bio            *string `json:"bio" binding:"omitempty,max=500"`
	Location       *string `json:"location" binding:"omitempty,max=100"`
	FavoriteWeapon *string `json:"favorite_weapon" binding:"omitempty,max=100"`
}

// ProfileView is the public profile page payload.
type ProfileView struct {
	Username         string       `json:"username"`
	DisplayName      string       `json:"display_name"`
	Profile          *UserProfile `json:"profile"`
	TotalBuilds      int64        `json:"total_builds"`
	TotalLikedBuilds int64        `json:"total_liked_builds"`
	TotalComments    int64        `json:"total_comments"`
}

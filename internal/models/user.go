package models

import "time"

type User struct {
	ID       int          `gorm:"primaryKey" json:"id"`
	Username string       `gorm:"unique;not null;size:150" json:"username"`
	Email    string       `gorm:"unique;not null" json:"email"`
	Password string       `gorm:"not null" json:"-"`
	Profile  *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the profile display name, falling back to the username
// when no profile is loaded or the name is blank.
func (u *User) DisplayName() string {
	if u.Profile != nil && u.Profile.DisplayName != "" {
		return u.Profile.DisplayName
	}
	return u.Username
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,max=150"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}

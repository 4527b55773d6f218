package models

import "time"

type Build struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Weapons     string    `gorm:"size:100" json:"weapons"`
	Armor       string    `gorm:"size:100" json:"armor"`
	Talismans   string    `gorm:"size:100" json:"talismans"`
	Spells      string    `gorm:"size:100" json:"spells"`
	UserID      int       `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	LikedBy     []User    `gorm:"many2many:build_likes;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BuildLike is the join row of Build.LikedBy. Membership is the like state.
type BuildLike struct {
	BuildID   int    `gorm:"primaryKey"`
	Build     *Build `gorm:"foreignKey:BuildID;constraint:OnDelete:CASCADE"`
	UserID    int    `gorm:"primaryKey"`
	User      *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

type BuildRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description" binding:"required"`
	Weapons     string `json:"weapons" binding:"required,max=100"`
	Armor       string `json:"armor" binding:"required,max=100"`
	Talismans   string `json:"talismans" binding:"required,max=100"`
	Spells      string `json:"spells" binding:"max=100"`
}

// BuildView adds like state to a build for the current viewer.
type BuildView struct {
	Build
	TotalLikes int64 `json:"total_likes"`
	IsLiked    bool  `json:"is_liked"`
}

type LikeAction string

const (
	BuildLiked   LikeAction = "liked"
	BuildUnliked LikeAction = "unliked"
)

type LikeResult struct {
	Success    bool       `json:"success"`
	Action     LikeAction `json:"action"`
	TotalLikes int64      `json:"total_likes"`
	IsLiked    bool       `json:"is_liked"`
}

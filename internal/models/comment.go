package models

import "time"

type Comment struct {
	ID        int           `gorm:"primaryKey" json:"id"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	UserID    int           `gorm:"not null;index" json:"user_id"`
	User      *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	BuildID   int           `gorm:"not null;index" json:"build_id"`
	Build     *Build        `gorm:"foreignKey:BuildID;constraint:OnDelete:CASCADE" json:"-"`
	Votes     []CommentVote `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// CommentView is a comment with its live vote tallies and the viewer's vote.
type CommentView struct {
	Comment
	Upvotes   int64     `json:"upvotes"`
	Downvotes int64     `json:"downvotes"`
	Score     int64     `json:"score"`
	UserVote  *VoteType `json:"user_vote"`
}

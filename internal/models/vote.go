package models

import "time"

type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

// ParseVoteType accepts only the two wire spellings.
func ParseVoteType(s string) (VoteType, bool) {
	switch VoteType(s) {
	case Upvote, Downvote:
		return VoteType(s), true
	default:
		return "", false
	}
}

type VoteAction string

const (
	VoteAdded   VoteAction = "added"
	VoteRemoved VoteAction = "removed"
	VoteChanged VoteAction = "changed"
)

// CommentVote tracks one user's vote on one comment. The composite unique
// index is the only guard against concurrent duplicate votes.
type CommentVote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	CommentID int       `gorm:"not null;uniqueIndex:idx_comment_votes_comment_user" json:"comment_id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_comment_votes_comment_user" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	VoteType  VoteType  `gorm:"type:varchar(10);not null;check:chk_comment_votes_type,vote_type IN ('upvote','downvote')" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type VoteCounts struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

func (c VoteCounts) Score() int64 {
	return c.Upvotes - c.Downvotes
}

// VoteResult is returned to both JSON callers and form submissions.
type VoteResult struct {
	Success   bool       `json:"success"`
	Action    VoteAction `json:"action"`
	Upvotes   int64      `json:"upvotes"`
	Downvotes int64      `json:"downvotes"`
	Score     int64      `json:"score"`
	UserVote  *VoteType  `json:"user_vote"`
}

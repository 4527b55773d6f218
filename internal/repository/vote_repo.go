package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/elden-builds/backend/internal/models"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Transaction runs fn with a repository bound to a single database transaction.
func (r *VoteRepository) Transaction(ctx context.Context, fn func(tx *VoteRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&VoteRepository{db: tx})
	})
}

// Find returns the user's vote on the comment, or nil when there is none.
func (r *VoteRepository) Find(ctx context.Context, commentID, userID int) (*models.CommentVote, error) {
	return r.find(r.db.WithContext(ctx), commentID, userID)
}

// FindForUpdate is Find with a row lock; it must run inside a transaction.
func (r *VoteRepository) FindForUpdate(ctx context.Context, commentID, userID int) (*models.CommentVote, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), commentID, userID)
}

func (r *VoteRepository) find(db *gorm.DB, commentID, userID int) (*models.CommentVote, error) {
	var v models.CommentVote
	err := db.Where("comment_id = ? AND user_id = ?", commentID, userID).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VoteRepository) Create(ctx context.Context, v *models.CommentVote) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error
}

func (r *VoteRepository) UpdateType(ctx context.Context, v *models.CommentVote, t models.VoteType) error {
	if err := r.db.WithContext(ctx).Model(v).Update("vote_type", t).Error; err != nil {
		return err
	}
	v.VoteType = t
	return nil
}

func (r *VoteRepository) Delete(ctx context.Context, v *models.CommentVote) error {
	return r.db.WithContext(ctx).Delete(v).Error
}

// Counts computes the live tallies for one comment.
func (r *VoteRepository) Counts(ctx context.Context, commentID int) (models.VoteCounts, error) {
	counts, err := r.CountsFor(ctx, []int{commentID})
	if err != nil {
		return models.VoteCounts{}, err
	}
	return counts[commentID], nil
}

// CountsFor computes live tallies for many comments in one query. Comments
// without votes are absent from the map.
func (r *VoteRepository) CountsFor(ctx context.Context, commentIDs []int) (map[int]models.VoteCounts, error) {
	out := make(map[int]models.VoteCounts, len(commentIDs))
	if len(commentIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		CommentID int
		Upvotes   int64
		Downvotes int64
	}
	err := r.db.WithContext(ctx).Model(&models.CommentVote{}).
		Select("comment_id, "+
			"COUNT(*) FILTER (WHERE vote_type = ?) AS upvotes, "+
			"COUNT(*) FILTER (WHERE vote_type = ?) AS downvotes", models.Upvote, models.Downvote).
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.CommentID] = models.VoteCounts{Upvotes: row.Upvotes, Downvotes: row.Downvotes}
	}
	return out, nil
}

// UserVotes returns the user's vote type per comment for the given comments.
func (r *VoteRepository) UserVotes(ctx context.Context, userID int, commentIDs []int) (map[int]models.VoteType, error) {
	out := make(map[int]models.VoteType, len(commentIDs))
	if len(commentIDs) == 0 {
		return out, nil
	}

	var votes []models.CommentVote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}

	for _, v := range votes {
		out[v.CommentID] = v.VoteType
	}
	return out, nil
}

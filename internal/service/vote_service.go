package service

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/elden-builds/backend/internal/database"
	"github.com/emilythestrangee/elden-builds/backend/internal/logging"
	"github.com/emilythestrangee/elden-builds/backend/internal/models"
	"github.com/emilythestrangee/elden-builds/backend/internal/repository"
	"github.com/emilythestrangee/elden-builds/backend/internal/statemachine"
)

// VoteNotifier is called after a vote that added or changed a user's vote.
type VoteNotifier interface {
	CreateCommentVoteNotification(ctx context.Context, comment *models.Comment, voter *models.User, voteType models.VoteType) (bool, error)
}

type VoteService struct {
	votes    *repository.VoteRepository
	comments *repository.CommentRepository
	users    *repository.UserRepository
	notifier VoteNotifier
}

func NewVoteService(
	votes *repository.VoteRepository,
	comments *repository.CommentRepository,
	users *repository.UserRepository,
	notifier VoteNotifier,
) *VoteService {
	return &VoteService{votes: votes, comments: comments, users: users, notifier: notifier}
}

// maxVoteAttempts bounds how often a lost insert race is retried.
const maxVoteAttempts = 5

type transitionFunc func(statemachine.VoteState, models.VoteType) (statemachine.VoteState, models.VoteAction, error)

// ApplyVote toggles, changes or adds the voter's vote on a comment and
// returns the fresh tallies.
func (s *VoteService) ApplyVote(ctx context.Context, commentID, voterID int, raw string) (*models.VoteResult, error) {
	voteType, ok := models.ParseVoteType(raw)
	if !ok {
		return nil, ErrInvalidVoteType
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("fetching comment: %w", err)
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	voter, err := s.users.GetByID(ctx, voterID)
	if err != nil {
		return nil, fmt.Errorf("fetching voter: %w", err)
	}
	if voter == nil {
		return nil, ErrNotFound
	}

	logger := logging.FromContext(ctx).With("comment_id", commentID, "user_id", voterID)

	state, action, err := s.apply(ctx, commentID, voterID, voteType, statemachine.Transition)
	for attempt := 1; database.IsUniqueViolation(err) && attempt < maxVoteAttempts; attempt++ {
		// A concurrent request inserted the row first; redo against it.
		logger.InfoContext(ctx, "concurrent vote insert, converging", "attempt", attempt)
		state, action, err = s.apply(ctx, commentID, voterID, voteType, statemachine.Converge)
	}
	if err != nil {
		return nil, fmt.Errorf("applying vote: %w", err)
	}

	logger.DebugContext(ctx, "vote applied", "action", action, "state", state)

	if action != models.VoteRemoved {
		if _, err := s.notifier.CreateCommentVoteNotification(ctx, comment, voter, voteType); err != nil {
			return nil, err
		}
	}

	counts, err := s.votes.Counts(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("counting votes: %w", err)
	}

	return &models.VoteResult{
		Success:   true,
		Action:    action,
		Upvotes:   counts.Upvotes,
		Downvotes: counts.Downvotes,
		Score:     counts.Score(),
		UserVote:  state.VoteType(),
	}, nil
}

// apply reads the current vote under a row lock and persists the next state.
func (s *VoteService) apply(ctx context.Context, commentID, userID int, voteType models.VoteType, step transitionFunc) (statemachine.VoteState, models.VoteAction, error) {
	var (
		next   statemachine.VoteState
		action models.VoteAction
	)

	err := s.votes.Transaction(ctx, func(tx *repository.VoteRepository) error {
		existing, err := tx.FindForUpdate(ctx, commentID, userID)
		if err != nil {
			return err
		}

		next, action, err = step(statemachine.StateOf(existing), voteType)
		if err != nil {
			return err
		}

		switch {
		case existing == nil && next != statemachine.NoVote:
			return tx.Create(ctx, &models.CommentVote{
				CommentID: commentID,
				UserID:    userID,
				VoteType:  *next.VoteType(),
			})
		case existing != nil && next == statemachine.NoVote:
			return tx.Delete(ctx, existing)
		case existing != nil && existing.VoteType != *next.VoteType():
			return tx.UpdateType(ctx, existing, *next.VoteType())
		}
		return nil
	})
	return next, action, err
}

// Score is upvotes minus downvotes, counted live.
func (s *VoteService) Score(ctx context.Context, commentID int) (int64, error) {
	counts, err := s.votes.Counts(ctx, commentID)
	if err != nil {
		return 0, fmt.Errorf("counting votes: %w", err)
	}
	return counts.Score(), nil
}

// CurrentVote returns the user's vote on the comment. userID 0 is an
// anonymous caller and always gets NoVote.
func (s *VoteService) CurrentVote(ctx context.Context, commentID, userID int) (statemachine.VoteState, error) {
	if userID == 0 {
		return statemachine.NoVote, nil
	}
	v, err := s.votes.Find(ctx, commentID, userID)
	if err != nil {
		return statemachine.NoVote, fmt.Errorf("fetching vote: %w", err)
	}
	return statemachine.StateOf(v), nil
}

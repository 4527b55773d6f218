package service

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/elden-builds/backend/internal/models"
	"github.com/emilythestrangee/elden-builds/backend/internal/repository"
)

type CommentNotifier interface {
	CreateBuildCommentNotification(ctx context.Context, build *models.Build, commenter *models.User, comment *models.Comment) (bool, error)
}

type CommentService struct {
	comments *repository.CommentRepository
	builds   *repository.BuildRepository
	votes    *repository.VoteRepository
	users    *repository.UserRepository
	notifier CommentNotifier
}

func NewCommentService(
	comments *repository.CommentRepository,
	builds *repository.BuildRepository,
	votes *repository.VoteRepository,
	users *repository.UserRepository,
	notifier CommentNotifier,
) *CommentService {
	return &CommentService{comments: comments, builds: builds, votes: votes, users: users, notifier: notifier}
}

// Create adds a comment to a build and notifies the build owner.
func (s *CommentService) Create(ctx context.Context, buildID, userID int, req models.CommentRequest) (*models.Comment, error) {
	build, err := s.builds.GetByID(ctx, buildID)
	if err != nil {
		return nil, fmt.Errorf("fetching build: %w", err)
	}
	if build == nil {
		return nil, ErrNotFound
	}
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching author: %w", err)
	}
	if author == nil {
		return nil, ErrNotFound
	}

	c := &models.Comment{Content: req.Content, UserID: userID, BuildID: buildID}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	c.User = author

	if _, err := s.notifier.CreateBuildCommentNotification(ctx, build, author, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListForBuild returns the build's comments with tallies and viewerID's vote
// on each.
func (s *CommentService) ListForBuild(ctx context.Context, buildID, viewerID int) ([]models.CommentView, error) {
	list, err := s.comments.ListByBuild(ctx, buildID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	ids := make([]int, len(list))
	for i, c := range list {
		ids[i] = c.ID
	}

	counts, err := s.votes.CountsFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("counting votes: %w", err)
	}
	mine := map[int]models.VoteType{}
	if viewerID != 0 {
		if mine, err = s.votes.UserVotes(ctx, viewerID, ids); err != nil {
			return nil, fmt.Errorf("fetching user votes: %w", err)
		}
	}

	views := make([]models.CommentView, len(list))
	for i, c := range list {
		cnt := counts[c.ID]
		views[i] = models.CommentView{
			Comment:   c,
			Upvotes:   cnt.Upvotes,
			Downvotes: cnt.Downvotes,
			Score:     cnt.Score(),
		}
		if t, ok := mine[c.ID]; ok {
			views[i].UserVote = &t
		}
	}
	return views, nil
}

func (s *CommentService) Update(ctx context.Context, id, userID int, req models.CommentRequest) (*models.Comment, error) {
	c, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.comments.UpdateContent(ctx, c, req.Content); err != nil {
		return nil, fmt.Errorf("updating comment: %w", err)
	}
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, id, userID int) error {
	c, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, c); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}

func (s *CommentService) owned(ctx context.Context, id, userID int) (*models.Comment, error) {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching comment: %w", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if c.UserID != userID {
		return nil, ErrForbidden
	}
	return c, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/elden-builds/backend/internal/logging"
	"github.com/emilythestrangee/elden-builds/backend/internal/models"
	"github.com/emilythestrangee/elden-builds/backend/internal/repository"
)

type LikeNotifier interface {
	CreateBuildLikeNotification(ctx context.Context, build *models.Build, liker *models.User) (bool, error)
}

type BuildService struct {
	builds   *repository.BuildRepository
	users    *repository.UserRepository
	notifier LikeNotifier
}

func NewBuildService(builds *repository.BuildRepository, users *repository.UserRepository, notifier LikeNotifier) *BuildService {
	return &BuildService{builds: builds, users: users, notifier: notifier}
}

func (s *BuildService) Create(ctx context.Context, ownerID int, req models.BuildRequest) (*models.Build, error) {
	b := &models.Build{UserID: ownerID}
	applyBuildRequest(b, req)

	if err := s.builds.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("creating build: %w", err)
	}

	logging.FromContext(ctx).InfoContext(ctx, "build created", "build_id", b.ID, "user_id", ownerID)
	return s.load(ctx, b.ID)
}

// Get returns the build with like state for viewerID (0 for anonymous).
func (s *BuildService) Get(ctx context.Context, id, viewerID int) (*models.BuildView, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []models.Build{*b}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns builds newest first.
func (s *BuildService) List(ctx context.Context, viewerID, limit, offset int) ([]models.BuildView, error) {
	list, err := s.builds.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing builds: %w", err)
	}
	return s.views(ctx, list, viewerID)
}

func (s *BuildService) Update(ctx context.Context, id, userID int, req models.BuildRequest) (*models.Build, error) {
	b, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	applyBuildRequest(b, req)
	if err := s.builds.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("updating build: %w", err)
	}
	return b, nil
}

func (s *BuildService) Delete(ctx context.Context, id, userID int) error {
	b, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.builds.Delete(ctx, b); err != nil {
		return fmt.Errorf("deleting build: %w", err)
	}

	logging.FromContext(ctx).InfoContext(ctx, "build deleted", "build_id", id, "user_id", userID)
	return nil
}

// ToggleLike flips the user's membership in the build's liked-by set. The
// owner is notified only when a like is added.
func (s *BuildService) ToggleLike(ctx context.Context, buildID, userID int) (*models.LikeResult, error) {
	b, err := s.load(ctx, buildID)
	if err != nil {
		return nil, err
	}

	removed, err := s.builds.RemoveLike(ctx, buildID, userID)
	if err != nil {
		return nil, fmt.Errorf("removing like: %w", err)
	}

	action := models.BuildUnliked
	if !removed {
		action = models.BuildLiked
		added, err := s.builds.AddLike(ctx, buildID, userID)
		if err != nil {
			return nil, fmt.Errorf("adding like: %w", err)
		}
		if added {
			liker, err := s.users.GetByID(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("fetching liker: %w", err)
			}
			if liker == nil {
				return nil, ErrNotFound
			}
			if _, err := s.notifier.CreateBuildLikeNotification(ctx, b, liker); err != nil {
				return nil, err
			}
		}
	}

	totals, err := s.builds.LikeCounts(ctx, []int{buildID})
	if err != nil {
		return nil, fmt.Errorf("counting likes: %w", err)
	}

	return &models.LikeResult{
		Success:    true,
		Action:     action,
		TotalLikes: totals[buildID],
		IsLiked:    action == models.BuildLiked,
	}, nil
}

func (s *BuildService) load(ctx context.Context, id int) (*models.Build, error) {
	b, err := s.builds.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching build: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *BuildService) owned(ctx context.Context, id, userID int) (*models.Build, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *BuildService) views(ctx context.Context, list []models.Build, viewerID int) ([]models.BuildView, error) {
	ids := make([]int, len(list))
	for i, b := range list {
		ids[i] = b.ID
	}

	totals, err := s.builds.LikeCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("counting likes: %w", err)
	}
	liked := map[int]bool{}
	if viewerID != 0 {
		if liked, err = s.builds.LikedByUser(ctx, viewerID, ids); err != nil {
			return nil, fmt.Errorf("fetching liked builds: %w", err)
		}
	}

	views := make([]models.BuildView, len(list))
	for i, b := range list {
		views[i] = models.BuildView{Build: b, TotalLikes: totals[b.ID], IsLiked: liked[b.ID]}
	}
	return views, nil
}

func applyBuildRequest(b *models.Build, req models.BuildRequest) {
	b.Title = req.Title
	b.Description = req.Description
	b.Weapons = req.Weapons
	b.Armor = req.Armor
	b.Talismans = req.Talismans
	b.Spells = req.Spells
}

package service

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/elden-builds/backend/internal/logging"
	"github.com/emilythestrangee/elden-builds/backend/internal/models"
	"github.com/emilythestrangee/elden-builds/backend/internal/repository"
)

// NotificationService decides whether an event produces a notification and
// owns the read/unread lifecycle.
type NotificationService struct {
	repo  *repository.NotificationRepository
	users *repository.UserRepository
}

func NewNotificationService(repo *repository.NotificationRepository, users *repository.UserRepository) *NotificationService {
	return &NotificationService{repo: repo, users: users}
}

// CreateBuildLikeNotification notifies the build owner once per liker, no
// matter how often the build is unliked and liked again.
func (s *NotificationService) CreateBuildLikeNotification(ctx context.Context, build *models.Build, liker *models.User) (bool, error) {
	key := dedupKey(models.NotificationBuildLike, build.UserID, liker.ID, "build", build.ID)
	return s.create(ctx, &models.Notification{
		RecipientID: build.UserID,
		SenderID:    liker.ID,
		Type:        models.NotificationBuildLike,
		BuildID:     &build.ID,
		Message:     fmt.Sprintf("%s liked your build '%s'", liker.DisplayName(), build.Title),
		DedupKey:    &key,
	})
}

// CreateBuildCommentNotification notifies the build owner of every comment.
func (s *NotificationService) CreateBuildCommentNotification(ctx context.Context, build *models.Build, commenter *models.User, comment *models.Comment) (bool, error) {
	return s.create(ctx, &models.Notification{
		RecipientID: build.UserID,
		SenderID:    commenter.ID,
		Type:        models.NotificationBuildComment,
		BuildID:     &build.ID,
		CommentID:   &comment.ID,
		Message:     fmt.Sprintf("%s commented on your build '%s'", commenter.DisplayName(), build.Title),
	})
}

// CreateCommentVoteNotification notifies the comment author of upvotes only,
// at most once per voter and comment.
func (s *NotificationService) CreateCommentVoteNotification(ctx context.Context, comment *models.Comment, voter *models.User, voteType models.VoteType) (bool, error) {
	if voteType != models.Upvote {
		return false, nil
	}

	buildTitle := ""
	if comment.Build != nil {
		buildTitle = comment.Build.Title
	}

	key := dedupKey(models.NotificationCommentVote, comment.UserID, voter.ID, "comment", comment.ID)
	return s.create(ctx, &models.Notification{
		RecipientID: comment.UserID,
		SenderID:    voter.ID,
		Type:        models.NotificationCommentVote,
		BuildID:     &comment.BuildID,
		CommentID:   &comment.ID,
		Message:     fmt.Sprintf("%s upvoted your comment on '%s'", voter.DisplayName(), buildTitle),
		DedupKey:    &key,
	})
}

// create applies self-action suppression and preference gating, then inserts.
// Duplicate suppression happens in the insert via the dedup key.
func (s *NotificationService) create(ctx context.Context, n *models.Notification) (bool, error) {
	logger := logging.FromContext(ctx).With(
		"notification_type", n.Type,
		"recipient_id", n.RecipientID,
		"sender_id", n.SenderID,
	)

	if n.RecipientID == n.SenderID {
		return false, nil
	}

	prefs, err := s.preferences(ctx, n.RecipientID)
	if err != nil {
		return false, fmt.Errorf("loading notification preferences: %w", err)
	}
	if !prefs.Enabled(n.Type) {
		logger.DebugContext(ctx, "notification disabled by recipient")
		return false, nil
	}

	created, err := s.repo.Insert(ctx, n)
	if err != nil {
		return false, fmt.Errorf("creating notification: %w", err)
	}
	if !created {
		logger.DebugContext(ctx, "duplicate notification suppressed")
		return false, nil
	}

	logger.DebugContext(ctx, "notification created", "notification_id", n.ID)
	return true, nil
}

func (s *NotificationService) preferences(ctx context.Context, userID int) (models.NotificationPreferences, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return models.NotificationPreferences{}, err
	}
	if profile == nil {
		return models.DefaultNotificationPreferences(), nil
	}
	return profile.Preferences, nil
}

// MarkRead marks the user's notifications as read. With ids == nil every
// unread notification is marked; otherwise only the caller's own ids are
// touched and foreign ids are dropped silently.
func (s *NotificationService) MarkRead(ctx context.Context, userID int, ids []int) (int64, error) {
	if ids != nil {
		owned, err := s.repo.OwnedIDs(ctx, userID, ids)
		if err != nil {
			return 0, fmt.Errorf("filtering notification ids: %w", err)
		}
		if len(owned) == 0 {
			return 0, nil
		}
		ids = owned
	}

	n, err := s.repo.MarkRead(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("marking notifications read: %w", err)
	}
	return n, nil
}

// MarkOneRead reports false when the notification does not exist or belongs
// to someone else.
func (s *NotificationService) MarkOneRead(ctx context.Context, userID, id int) (bool, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("fetching notification: %w", err)
	}
	if n == nil || n.RecipientID != userID {
		return false, nil
	}
	if _, err := s.repo.MarkRead(ctx, userID, []int{id}); err != nil {
		return false, fmt.Errorf("marking notification read: %w", err)
	}
	return true, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int) (int64, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, userID, limit, offset int) ([]models.Notification, error) {
	list, err := s.repo.ListByRecipient(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return list, nil
}

// DeleteNotification deletes only the caller's own notification and reports
// false for missing or foreign ids.
func (s *NotificationService) DeleteNotification(ctx context.Context, id, userID int) (bool, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("fetching notification: %w", err)
	}
	if n == nil || n.RecipientID != userID {
		return false, nil
	}
	if err := s.repo.Delete(ctx, n); err != nil {
		return false, fmt.Errorf("deleting notification: %w", err)
	}
	return true, nil
}

func dedupKey(t models.NotificationType, recipientID, senderID int, target string, targetID int) string {
	return fmt.Sprintf("%s:%d:%d:%s:%d", t, recipientID, senderID, target, targetID)
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/elden-builds/backend/internal/logging"
	"github.com/emilythestrangee/elden-builds/backend/internal/middleware"
	"github.com/emilythestrangee/elden-builds/backend/internal/models"
	"github.com/emilythestrangee/elden-builds/backend/internal/service"
)

type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, userID int) (*models.User, error)
	GetProfile(ctx context.Context, username string) (*models.ProfileView, error)
	UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.UserProfile, error)
	GetPreferences(ctx context.Context, userID int) (models.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userID int, req models.UpdatePreferencesRequest) (models.NotificationPreferences, error)
}

type BuildService interface {
	Create(ctx context.Context, ownerID int, req models.BuildRequest) (*models.Build, error)
	Get(ctx context.Context, id, viewerID int) (*models.BuildView, error)
	List(ctx context.Context, viewerID, limit, offset int) ([]models.BuildView, error)
	Update(ctx context.Context, id, userID int, req models.BuildRequest) (*models.Build, error)
	Delete(ctx context.Context, id, userID int) error
	ToggleLike(ctx context.Context, buildID, userID int) (*models.LikeResult, error)
}

type CommentService interface {
	Create(ctx context.Context, buildID, userID int, req models.CommentRequest) (*models.Comment, error)
	ListForBuild(ctx context.Context, buildID, viewerID int) ([]models.CommentView, error)
	Update(ctx context.Context, id, userID int, req models.CommentRequest) (*models.Comment, error)
	Delete(ctx context.Context, id, userID int) error
}

type VoteService interface {
	ApplyVote(ctx context.Context, commentID, voterID int, voteType string) (*models.VoteResult, error)
}

type NotificationService interface {
	List(ctx context.Context, userID, limit, offset int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID int) (int64, error)
	MarkRead(ctx context.Context, userID int, ids []int) (int64, error)
	MarkOneRead(ctx context.Context, userID, id int) (bool, error)
	DeleteNotification(ctx context.Context, id, userID int) (bool, error)
}

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Build        *BuildHandler
	Comment      *CommentHandler
	User         *UserHandler
	Notification *NotificationHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(
	users UserService,
	builds BuildService,
	comments CommentService,
	votes VoteService,
	notifications NotificationService,
) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(users),
		Build:        NewBuildHandler(builds),
		Comment:      NewCommentHandler(comments, votes),
		User:         NewUserHandler(users),
		Notification: NewNotificationHandler(notifications),
	}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// paramID parses a positive integer path parameter, writing a 400 when it
// is malformed.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err = strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// respondError maps service errors to status codes. Anything unrecognised is
// logged and reported as a 500 with the given message.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrInvalidVoteType):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid vote type"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only modify your own content"})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	default:
		_ = c.Error(err)
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), message, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}

// requireUser returns the authenticated user id or writes a 401.
func requireUser(c *gin.Context) (int, bool) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	return userID, true
}

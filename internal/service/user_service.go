package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/emilythestrangee/elden-builds/backend/internal/auth"
	"github.com/emilythestrangee/elden-builds/backend/internal/config"
	"github.com/emilythestrangee/elden-builds/backend/internal/database"
	"github.com/emilythestrangee/elden-builds/backend/internal/logging"
	"github.com/emilythestrangee/elden-builds/backend/internal/models"
	"github.com/emilythestrangee/elden-builds/backend/internal/repository"
)

type UserService struct {
	users *repository.UserRepository
	jwt   config.JWTConfig
}

func NewUserService(users *repository.UserRepository, jwt config.JWTConfig) *UserService {
	return &UserService{users: users, jwt: jwt}
}

// Register creates the user together with a profile carrying the default
// notification preferences.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.users.UsernameOrEmailTaken(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}
	if taken {
		return nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &models.User{Username: req.Username, Email: req.Email, Password: string(hashed)}
	p := &models.UserProfile{
		DisplayName: strings.TrimSpace(req.DisplayName),
		Preferences: models.DefaultNotificationPreferences(),
	}
	if err := s.users.Create(ctx, u, p); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	logging.FromContext(ctx).InfoContext(ctx, "user registered", "user_id", u.ID)
	return s.authResponse(u, "User registered successfully")
}

func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("comparing password: %w", err)
	}
	return s.authResponse(u, "Login successful")
}

func (s *UserService) authResponse(u *models.User, message string) (*models.AuthResponse, error) {
	token, err := auth.GenerateAccessToken(s.jwt, u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: *u, Message: message}, nil
}

func (s *UserService) Me(ctx context.Context, userID int) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// GetProfile returns the public profile with activity totals.
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.ProfileView, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}

	totals, err := s.users.Totals(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("counting user totals: %w", err)
	}

	return &models.ProfileView{
		Username:         u.Username,
		DisplayName:      u.DisplayName(),
		Profile:          u.Profile,
		TotalBuilds:      totals.Builds,
		TotalLikedBuilds: totals.LikedBuilds,
		TotalComments:    totals.Comments,
	}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.UserProfile, error) {
	p, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Bio != nil {
		p.Bio = *req.Bio
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.FavoriteWeapon != nil {
		p.FavoriteWeapon = *req.FavoriteWeapon
	}

	if err := s.users.SaveProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}
	return p, nil
}

func (s *UserService) GetPreferences(ctx context.Context, userID int) (models.NotificationPreferences, error) {
	p, err := s.profile(ctx, userID)
	if err != nil {
		return models.NotificationPreferences{}, err
	}
	return p.Preferences, nil
}

func (s *UserService) UpdatePreferences(ctx context.Context, userID int, req models.UpdatePreferencesRequest) (models.NotificationPreferences, error) {
	p, err := s.profile(ctx, userID)
	if err != nil {
		return models.NotificationPreferences{}, err
	}

	p.Preferences = p.Preferences.Apply(req)
	if err := s.users.SaveProfile(ctx, p); err != nil {
		return models.NotificationPreferences{}, fmt.Errorf("saving preferences: %w", err)
	}
	return p.Preferences, nil
}

// profile loads the user's profile, starting from defaults when the user has
// none yet.
func (s *UserService) profile(ctx context.Context, userID int) (*models.UserProfile, error) {
	p, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	if p == nil {
		p = &models.UserProfile{UserID: userID, Preferences: models.DefaultNotificationPreferences()}
	}
	return p, nil
}

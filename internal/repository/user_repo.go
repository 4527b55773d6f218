package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/elden-builds/backend/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and its profile atomically.
func (r *UserRepository) Create(ctx context.Context, u *models.User, p *models.UserProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			return err
		}
		p.UserID = u.ID
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		u.Profile = p
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.take(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.take(ctx, "email = ?", email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.take(ctx, "username = ?", username)
}

func (r *UserRepository) take(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Preload("Profile").Where(query, arg).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&n).Error
	return n > 0, err
}

// GetProfile returns the user's profile, or nil for users created before
// profiles existed.
func (r *UserRepository) GetProfile(ctx context.Context, userID int) (*models.UserProfile, error) {
	var p models.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProfile upserts on user_id so a missing profile is created on first edit.
func (r *UserRepository) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name", "bio", "location", "favorite_weapon",
			"notify_on_build_like", "notify_on_build_comment",
			"notify_on_comment_reply", "notify_on_comment_vote",
			"updated_at",
		}),
	}).Create(p).Error
}

type UserTotals struct {
	Builds      int64
	LikedBuilds int64
	Comments    int64
}

func (r *UserRepository) Totals(ctx context.Context, userID int) (UserTotals, error) {
	var t UserTotals
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Build{}).Where("user_id = ?", userID).Count(&t.Builds).Error; err != nil {
		return t, err
	}
	if err := db.Model(&models.BuildLike{}).Where("user_id = ?", userID).Count(&t.LikedBuilds).Error; err != nil {
		return t, err
	}
	if err := db.Model(&models.Comment{}).Where("user_id = ?", userID).Count(&t.Comments).Error; err != nil {
		return t, err
	}
	return t, nil
}

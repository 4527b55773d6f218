package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/elden-builds/backend/internal/models"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

// GetByID loads a comment with its author and build, or nil.
func (r *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	var c models.Comment
	err := r.db.WithContext(ctx).
		Preload("User.Profile").
		Preload("Build").
		Take(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepository) ListByBuild(ctx context.Context, buildID int) ([]models.Comment, error) {
	var list []models.Comment
	err := r.db.WithContext(ctx).
		Where("build_id = ?", buildID).
		Preload("User.Profile").
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *CommentRepository) UpdateContent(ctx context.Context, c *models.Comment, content string) error {
	if err := r.db.WithContext(ctx).Model(c).Update("content", content).Error; err != nil {
		return err
	}
	c.Content = content
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, c *models.Comment) error {
	return r.db.WithContext(ctx).Delete(c).Error
}

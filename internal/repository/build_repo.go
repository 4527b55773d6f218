package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/elden-builds/backend/internal/models"
)

type BuildRepository struct {
	db *gorm.DB
}

func NewBuildRepository(db *gorm.DB) *BuildRepository {
	return &BuildRepository{db: db}
}

func (r *BuildRepository) Create(ctx context.Context, b *models.Build) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

// GetByID loads a build with its owner and the owner's profile, or nil.
func (r *BuildRepository) GetByID(ctx context.Context, id int) (*models.Build, error) {
	var b models.Build
	err := r.db.WithContext(ctx).Preload("User.Profile").Take(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BuildRepository) List(ctx context.Context, limit, offset int) ([]models.Build, error) {
	var list []models.Build
	err := r.db.WithContext(ctx).
		Preload("User.Profile").
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *BuildRepository) Update(ctx context.Context, b *models.Build) error {
	return r.db.WithContext(ctx).Model(b).Select(
		"Title", "Description", "Weapons", "Armor", "Talismans", "Spells",
	).Updates(b).Error
}

func (r *BuildRepository) Delete(ctx context.Context, b *models.Build) error {
	return r.db.WithContext(ctx).Delete(b).Error
}

// AddLike puts the user into the build's liked_by set. It reports false when
// the user was already there.
func (r *BuildRepository) AddLike(ctx context.Context, buildID, userID int) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&models.BuildLike{BuildID: buildID, UserID: userID})
	return res.RowsAffected == 1, res.Error
}

// RemoveLike takes the user out of the set, reporting whether it was there.
func (r *BuildRepository) RemoveLike(ctx context.Context, buildID, userID int) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("build_id = ? AND user_id = ?", buildID, userID).
		Delete(&models.BuildLike{})
	return res.RowsAffected > 0, res.Error
}

// LikeCounts returns the like total per build; builds without likes are absent.
func (r *BuildRepository) LikeCounts(ctx context.Context, buildIDs []int) (map[int]int64, error) {
	out := make(map[int]int64, len(buildIDs))
	if len(buildIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		BuildID int
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&models.BuildLike{}).
		Select("build_id, COUNT(*) AS total").
		Where("build_id IN ?", buildIDs).
		Group("build_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.BuildID] = row.Total
	}
	return out, nil
}

// LikedByUser returns the subset of buildIDs the user likes.
func (r *BuildRepository) LikedByUser(ctx context.Context, userID int, buildIDs []int) (map[int]bool, error) {
	out := make(map[int]bool, len(buildIDs))
	if len(buildIDs) == 0 {
		return out, nil
	}

	var liked []int
	err := r.db.WithContext(ctx).Model(&models.BuildLike{}).
		Where("user_id = ? AND build_id IN ?", userID, buildIDs).
		Pluck("build_id", &liked).Error
	if err != nil {
		return nil, err
	}
	for _, id := range liked {
		out[id] = true
	}
	return out, nil
}

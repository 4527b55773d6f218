package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/elden-builds/backend/internal/models"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Insert stores n and reports whether a row was written. Rows carrying a
// DedupKey that already exists are skipped instead of failing.
func (r *NotificationRepository) Insert(ctx context.Context, n *models.Notification) (bool, error) {
	db := r.db.WithContext(ctx).Omit(clause.Associations)
	if n.DedupKey != nil {
		db = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_key"}},
			DoNothing: true,
		})
	}

	res := db.Create(n)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).Take(&n, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID, limit, offset int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Preload("Sender.Profile").
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// OwnedIDs filters ids down to those whose recipient is recipientID.
func (r *NotificationRepository) OwnedIDs(ctx context.Context, recipientID int, ids []int) ([]int, error) {
	owned := []int{}
	if len(ids) == 0 {
		return owned, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND id IN ?", recipientID, ids).
		Pluck("id", &owned).Error
	return owned, err
}

// MarkRead flags the recipient's unread notifications as read. A nil ids
// slice means all of them.
func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID int, ids []int) (int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false)
	if ids != nil {
		if len(ids) == 0 {
			return 0, nil
		}
		db = db.Where("id IN ?", ids)
	}

	res := db.Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) Delete(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).
		Where("recipient_id = ?", n.RecipientID).
		Delete(&models.Notification{}, n.ID).Error
}

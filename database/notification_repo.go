package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/models"
	"gorm.io/gorm"
)

const NotificationPageSize = 20

// NotificationRepo is scoped by user rather than account.
type NotificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db}
}

func (r *NotificationRepo) AddMany(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *NotificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// FindByUser returns one page of a user's notifications, newest first, with the total.
func (r *NotificationRepo) FindByUser(ctx context.Context, userID uuid.UUID, page int) ([]models.Notification, int64, error) {
	query := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := query().Scopes(Page(page, NotificationPageSize)).Order("created_at DESC").Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", at).Error
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at)
	return result.RowsAffected, result.Error
}

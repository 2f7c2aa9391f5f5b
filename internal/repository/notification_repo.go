package repository

import (
	"context"

	"github.com/quocanhngo/hifcm/internal/model"
	"gorm.io/gorm"
)

const notificationListLimit = 100

// NotificationRepository handles database operations for sent notifications
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create records a notification
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ForUser returns the latest notifications of a user, newest first
func (r *NotificationRepository) ForUser(ctx context.Context, userID uint) ([]model.Notification, error) {
	notifications := []model.Notification{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(notificationListLimit).
		Find(&notifications).Error
	return notifications, err
}

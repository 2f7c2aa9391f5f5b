package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/quocanhngo/hifcm/internal/model"
	"github.com/quocanhngo/hifcm/internal/repository"
	"gorm.io/gorm"
)

// TokenStore persists devices and their push tokens
type TokenStore interface {
	TokenExists(ctx context.Context, token string) (bool, error)
	DeviceByToken(ctx context.Context, token string) (*model.Device, error)
	DevicesByUser(ctx context.Context, userID uint) ([]model.Device, error)
	CreateDevice(ctx context.Context, device *model.Device) error
	RemoveDevice(ctx context.Context, deviceID uint) error
}

// UserFinder resolves users by id
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// NotificationSender delivers one payload to a set of devices
type NotificationSender interface {
	Devices(ctx context.Context, devices []model.Device, msg model.PushMessage) error
}

// NotificationRepository lists the notifications stored for a user
type NotificationRepository interface {
	ForUser(ctx context.Context, userID uint) ([]model.Notification, error)
}

// SubscriptionService implements the push subscription operations
type SubscriptionService struct {
	tokens        TokenStore
	users         UserFinder
	sender        NotificationSender
	notifications NotificationRepository
}

func NewSubscriptionService(
	tokens TokenStore,
	users UserFinder,
	sender NotificationSender,
	notifications NotificationRepository,
) *SubscriptionService {
	return &SubscriptionService{
		tokens:        tokens,
		users:         users,
		sender:        sender,
		notifications: notifications,
	}
}

// Subscribe registers a new device token for a user
func (s *SubscriptionService) Subscribe(ctx context.Context, req model.SubscribeRequest) (*model.Device, error) {
	exists, err := s.tokens.TokenExists(ctx, req.DeviceToken)
	if err != nil {
		return nil, fmt.Errorf("check device token: %w", err)
	}
	if exists {
		return nil, ErrDeviceTokenExists
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotExists
		}
		return nil, fmt.Errorf("find user %d: %w", req.UserID, err)
	}

	device := &model.Device{
		UserID:   user.ID,
		Title:    user.Email,
		Taxonomy: req.Taxonomy,
		Token: &model.DeviceToken{
			UserID:     user.ID,
			Token:      req.DeviceToken,
			DeviceName: req.DeviceName,
			OSVersion:  req.OSVersion,
		},
	}
	if err := s.tokens.CreateDevice(ctx, device); err != nil {
		// Lost the race against a concurrent subscribe with the same token
		if errors.Is(err, repository.ErrDuplicateToken) {
			return nil, ErrDeviceTokenExists
		}
		return nil, fmt.Errorf("create device: %w", err)
	}

	return device, nil
}

// Unsubscribe removes devices and returns how many were deleted.
// With a zero UserID the device owning DeviceToken is removed, otherwise
// every device of the user is removed and DeviceToken only gates the call.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, req model.UnsubscribeRequest) (int, error) {
	if req.DeviceToken != "" {
		exists, err := s.tokens.TokenExists(ctx, req.DeviceToken)
		if err != nil {
			return 0, fmt.Errorf("check device token: %w", err)
		}
		if !exists {
			return 0, ErrDeviceTokenNotExists
		}
	}

	var devices []model.Device
	if req.UserID == 0 {
		device, err := s.tokens.DeviceByToken(ctx, req.DeviceToken)
		if err != nil {
			return 0, fmt.Errorf("find device by token: %w", err)
		}
		if device != nil {
			devices = append(devices, *device)
		}
	} else {
		var err error
		devices, err = s.tokens.DevicesByUser(ctx, req.UserID)
		if err != nil {
			return 0, fmt.Errorf("find devices of user %d: %w", req.UserID, err)
		}
	}

	for i, d := range devices {
		if err := s.tokens.RemoveDevice(ctx, d.ID); err != nil {
			return i, fmt.Errorf("remove device %d: %w", d.ID, err)
		}
	}
	return len(devices), nil
}

// SendToUser pushes msg to every device of a user in a single delivery call
func (s *SubscriptionService) SendToUser(ctx context.Context, req model.SendUserRequest) error {
	devices, err := s.tokens.DevicesByUser(ctx, req.UserID)
	if err != nil {
		return fmt.Errorf("find devices of user %d: %w", req.UserID, err)
	}
	if len(devices) == 0 {
		return ErrUserTokenNotExists
	}

	if err := s.sender.Devices(ctx, devices, req.Message); err != nil {
		log.Printf("⚠️ Push to user %d failed: %v", req.UserID, err)
	}
	return nil
}

// Notifications returns the stored notifications of a user
func (s *SubscriptionService) Notifications(ctx context.Context, userID uint) ([]model.Notification, error) {
	return s.notifications.ForUser(ctx, userID)
}

package repository

import (
	"context"
	"errors"

	"github.com/quocanhngo/hifcm/internal/model"
	"gorm.io/gorm"
)

// ErrDuplicateToken is returned by CreateDevice when the token is already stored
var ErrDuplicateToken = errors.New("device token already exists")

// DeviceRepository handles database operations for devices and their tokens
type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// TokenExists reports whether a device token is stored
func (r *DeviceRepository) TokenExists(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DeviceToken{}).
		Where("device_token = ?", token).
		Count(&count).Error
	return count > 0, err
}

// DeviceByToken finds the device owning a token. Returns nil when none.
func (r *DeviceRepository) DeviceByToken(ctx context.Context, token string) (*model.Device, error) {
	var device model.Device
	err := r.db.WithContext(ctx).
		Joins("Token").
		Where(`"Token"."device_token" = ?`, token).
		First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// DevicesByUser gets all devices of a user with their tokens
func (r *DeviceRepository) DevicesByUser(ctx context.Context, userID uint) ([]model.Device, error) {
	var devices []model.Device
	err := r.db.WithContext(ctx).
		Preload("Token").
		Where("user_id = ?", userID).
		Order("id").
		Find(&devices).Error
	return devices, err
}

// CreateDevice inserts the device and its token row in one transaction.
// device.Token must be set.
func (r *DeviceRepository) CreateDevice(ctx context.Context, device *model.Device) error {
	if device.Token == nil {
		return errors.New("device token is required")
	}
	token := *device.Token
	device.Token = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(device).Error; err != nil {
			return err
		}
		token.DeviceID = device.ID
		token.UserID = device.UserID
		return tx.Create(&token).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateToken
	}
	if err != nil {
		return err
	}

	device.Token = &token
	return nil
}

// RemoveDevice deletes a device and its device data together
func (r *DeviceRepository) RemoveDevice(ctx context.Context, deviceID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("device_id = ?", deviceID).Delete(&model.DeviceToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Device{}, deviceID).Error
	})
}

// DeleteToken removes a token and the device it belongs to
func (r *DeviceRepository) DeleteToken(ctx context.Context, token string) error {
	device, err := r.DeviceByToken(ctx, token)
	if err != nil || device == nil {
		return err
	}
	return r.RemoveDevice(ctx, device.ID)
}

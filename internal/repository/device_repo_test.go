package repository

import (
	"context"
	"testing"

	"github.com/quocanhngo/hifcm/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDevice(userID uint, token, taxonomy string) *model.Device {
	return &model.Device{
		UserID:   userID,
		Title:    "user@example.com",
		Taxonomy: taxonomy,
		Token:    &model.DeviceToken{Token: token, DeviceName: "Pixel", OSVersion: "15"},
	}
}

func countRows(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestDeviceRepository_CreateDevice(t *testing.T) {
	db := setupDB(t)
	repo := NewDeviceRepository(db)
	ctx := context.Background()

	device := newDevice(42, "tok-1", "news")
	require.NoError(t, repo.CreateDevice(ctx, device))

	assert.NotZero(t, device.ID)
	require.NotNil(t, device.Token)
	assert.Equal(t, device.ID, device.Token.DeviceID)
	assert.Equal(t, uint(42), device.Token.UserID)

	exists, err := repo.TokenExists(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.TokenExists(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeviceRepository_CreateDuplicateToken(t *testing.T) {
	db := setupDB(t)
	repo := NewDeviceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateDevice(ctx, newDevice(42, "tok-1", "news")))

	err := repo.CreateDevice(ctx, newDevice(7, "tok-1", "offers"))

	assert.ErrorIs(t, err, ErrDuplicateToken)
	// the device row of the failed insert is rolled back with its token
	assert.Equal(t, int64(1), countRows(t, db, &model.Device{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.DeviceToken{}))
}

func TestDeviceRepository_CreateWithoutToken(t *testing.T) {
	repo := NewDeviceRepository(setupDB(t))

	err := repo.CreateDevice(context.Background(), &model.Device{UserID: 42, Taxonomy: "news"})

	assert.Error(t, err)
}

func TestDeviceRepository_DeviceByToken(t *testing.T) {
	repo := NewDeviceRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateDevice(ctx, newDevice(42, "tok-1", "news")))
	second := newDevice(7, "tok-2", "offers")
	require.NoError(t, repo.CreateDevice(ctx, second))

	got, err := repo.DeviceByToken(ctx, "tok-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "offers", got.Taxonomy)
	assert.Equal(t, "tok-2", got.PushToken())

	missing, err := repo.DeviceByToken(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeviceRepository_DevicesByUser(t *testing.T) {
	repo := NewDeviceRepository(setupDB(t))
	ctx := context.Background()

	first := newDevice(42, "tok-1", "news")
	require.NoError(t, repo.CreateDevice(ctx, first))
	require.NoError(t, repo.CreateDevice(ctx, newDevice(7, "tok-2", "news")))
	third := newDevice(42, "tok-3", "offers")
	require.NoError(t, repo.CreateDevice(ctx, third))

	devices, err := repo.DevicesByUser(ctx, 42)

	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, first.ID, devices[0].ID)
	assert.Equal(t, third.ID, devices[1].ID)
	assert.Equal(t, "tok-1", devices[0].PushToken())
	assert.Equal(t, "tok-3", devices[1].PushToken())

	none, err := repo.DevicesByUser(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeviceRepository_RemoveDevice(t *testing.T) {
	db := setupDB(t)
	repo := NewDeviceRepository(db)
	ctx := context.Background()

	device := newDevice(42, "tok-1", "news")
	require.NoError(t, repo.CreateDevice(ctx, device))
	require.NoError(t, repo.CreateDevice(ctx, newDevice(42, "tok-2", "news")))

	require.NoError(t, repo.RemoveDevice(ctx, device.ID))

	assert.Equal(t, int64(1), countRows(t, db, &model.Device{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.DeviceToken{}))
	exists, err := repo.TokenExists(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, exists)

	// the token can be registered again once removed
	assert.NoError(t, repo.CreateDevice(ctx, newDevice(7, "tok-1", "news")))
}

func TestDeviceRepository_DeleteToken(t *testing.T) {
	db := setupDB(t)
	repo := NewDeviceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateDevice(ctx, newDevice(42, "tok-1", "news")))
	require.NoError(t, repo.CreateDevice(ctx, newDevice(42, "tok-2", "news")))

	require.NoError(t, repo.DeleteToken(ctx, "tok-1"))
	require.NoError(t, repo.DeleteToken(ctx, "unknown"))

	devices, err := repo.DevicesByUser(ctx, 42)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "tok-2", devices[0].PushToken())
	assert.Equal(t, int64(1), countRows(t, db, &model.DeviceToken{}))
}

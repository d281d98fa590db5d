package service

import (
	"context"
	"testing"
	"time"

	"github.com/littlesteps/booking/internal/cache"
	"github.com/littlesteps/booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenanceStatusIsCached(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, cache.NewMemoryCache(16, time.Minute))
	ctx := context.Background()

	m, err := svc.MaintenanceStatus(ctx)
	require.NoError(t, err)
	assert.False(t, m.Enabled)
	assert.Equal(t, "Back soon.", m.Message)
	reads := repo.reads

	for range 5 {
		_, err = svc.MaintenanceStatus(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, reads, repo.reads)
}

func TestSetMaintenanceInvalidatesCache(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, cache.NewMemoryCache(16, time.Minute))
	ctx := context.Background()

	_, err := svc.MaintenanceStatus(ctx)
	require.NoError(t, err)

	m, err := svc.SetMaintenance(ctx, true, "  Upgrading the booking system. ")
	require.NoError(t, err)
	assert.True(t, m.Enabled)
	assert.Equal(t, "Upgrading the booking system.", m.Message)

	m, err = svc.MaintenanceStatus(ctx)
	require.NoError(t, err)
	assert.True(t, m.Enabled)

	m, err = svc.SetMaintenance(ctx, false, "")
	require.NoError(t, err)
	assert.False(t, m.Enabled)
	assert.Empty(t, m.Message)
}

func TestSetMaintenanceClearsStaleMessage(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, cache.NewMemoryCache(16, time.Minute))
	ctx := context.Background()

	_, err := svc.SetMaintenance(ctx, true, "Closed for the holidays.")
	require.NoError(t, err)

	m, err := svc.SetMaintenance(ctx, true, "   ")
	require.NoError(t, err)
	assert.True(t, m.Enabled)
	assert.Empty(t, m.Message)

	m, err = svc.MaintenanceStatus(ctx)
	require.NoError(t, err)
	assert.Empty(t, m.Message)
	assert.Equal(t, "", repo.values[model.SettingMaintenanceMessage])
}

func TestMaintenanceStatusDefaultsWhenUnset(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]string{}}
	svc := NewSettingsService(repo, cache.NewMemoryCache(16, time.Minute))

	m, err := svc.MaintenanceStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, m.Enabled)
	assert.Empty(t, m.Message)
}

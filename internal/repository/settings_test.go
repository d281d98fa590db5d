package repository

import (
	"testing"

	"github.com/littlesteps/booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsGetSet(t *testing.T) {
	repo := NewSettingsRepository(newTestDB(t))

	s, err := repo.Get(model.SettingMaintenanceMode)
	require.NoError(t, err)
	assert.Equal(t, "false", s.Value)

	require.NoError(t, repo.Set(model.SettingMaintenanceMode, "true"))
	s, err = repo.Get(model.SettingMaintenanceMode)
	require.NoError(t, err)
	assert.Equal(t, "true", s.Value)

	_, err = repo.Get("unknown")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

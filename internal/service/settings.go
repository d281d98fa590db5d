package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/littlesteps/booking/internal/cache"
	"github.com/littlesteps/booking/internal/model"
	"github.com/littlesteps/booking/internal/repository"
)

const (
	maintenanceCacheKey = "settings:maintenance"
	maintenanceCacheTTL = 30 * time.Second
)

type SettingsService struct {
	settingsRepo repository.SettingsRepository
	cache        cache.Cache
}

func NewSettingsService(settingsRepo repository.SettingsRepository, c cache.Cache) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, cache: c}
}

// MaintenanceStatus is read on every public request, so it goes through the cache.
func (s *SettingsService) MaintenanceStatus(ctx context.Context) (*model.Maintenance, error) {
	cached, err := s.cache.Get(ctx, maintenanceCacheKey)
	if err == nil {
		var m model.Maintenance
		if json.Unmarshal(cached, &m) == nil {
			return &m, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		slog.Warn("settings cache read failed", "error", err)
	}

	m, err := s.loadMaintenance()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(m)
	if err == nil {
		err = s.cache.Set(ctx, maintenanceCacheKey, data, maintenanceCacheTTL)
	}
	if err != nil {
		slog.Warn("settings cache write failed", "error", err)
	}
	return m, nil
}

func (s *SettingsService) SetMaintenance(ctx context.Context, enabled bool, message string) (*model.Maintenance, error) {
	err := s.settingsRepo.Set(model.SettingMaintenanceMode, strconv.FormatBool(enabled))
	if err != nil {
		return nil, fmt.Errorf("failed to save maintenance mode: %w", err)
	}

	// An empty message clears the stored one; pages then show the default text.
	err = s.settingsRepo.Set(model.SettingMaintenanceMessage, strings.TrimSpace(message))
	if err != nil {
		return nil, fmt.Errorf("failed to save maintenance message: %w", err)
	}

	err = s.cache.Delete(ctx, maintenanceCacheKey)
	if err != nil {
		slog.Warn("settings cache invalidation failed", "error", err)
	}

	slog.Info("maintenance mode updated", "enabled", enabled)
	return s.loadMaintenance()
}

func (s *SettingsService) loadMaintenance() (*model.Maintenance, error) {
	m := &model.Maintenance{}

	mode, err := s.settingsRepo.Get(model.SettingMaintenanceMode)
	switch {
	case err == nil:
		m.Enabled, _ = strconv.ParseBool(mode.Value)
	case !errors.Is(err, repository.ErrSettingNotFound):
		return nil, fmt.Errorf("failed to get maintenance mode: %w", err)
	}

	msg, err := s.settingsRepo.Get(model.SettingMaintenanceMessage)
	switch {
	case err == nil:
		m.Message = msg.Value
	case !errors.Is(err, repository.ErrSettingNotFound):
		return nil, fmt.Errorf("failed to get maintenance message: %w", err)
	}

	return m, nil
}

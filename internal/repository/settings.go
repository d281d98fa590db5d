package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/littlesteps/booking/internal/model"
)

var (
	ErrSettingNotFound = errors.New("setting not found")
)

type SettingsRepository interface {
	Get(key string) (*model.SiteSetting, error)
	Set(key, value string) error
}

type settingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(key string) (*model.SiteSetting, error) {
	s := &model.SiteSetting{}
	err := r.db.Get(s, `SELECT * FROM site_settings WHERE key = $1`, key)
	if err == sql.ErrNoRows {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *settingsRepository) Set(key, value string) error {
	query := `
		INSERT INTO site_settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err := r.db.Exec(query, key, value, time.Now().UTC())
	return err
}

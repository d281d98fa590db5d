package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/littlesteps/booking/internal/model"
)

var (
	ErrRateNotFound = errors.New("pricing rate not found")
)

type PricingRepository interface {
	ByServiceType(serviceType string) (*model.PricingRate, error)
	All() ([]*model.PricingRate, error)
	Active() ([]*model.PricingRate, error)
	Upsert(rate *model.PricingRate) error
	Delete(serviceType string) error
}

type pricingRepository struct {
	db *sqlx.DB
}

func NewPricingRepository(db *sqlx.DB) PricingRepository {
	return &pricingRepository{db: db}
}

func (r *pricingRepository) ByServiceType(serviceType string) (*model.PricingRate, error) {
	rate := &model.PricingRate{}
	err := r.db.Get(rate, `SELECT * FROM pricing_rates WHERE service_type = $1`, serviceType)
	if err == sql.ErrNoRows {
		return nil, ErrRateNotFound
	}
	if err != nil {
		return nil, err
	}
	return rate, nil
}

func (r *pricingRepository) All() ([]*model.PricingRate, error) {
	var rates []*model.PricingRate
	err := r.db.Select(&rates, `SELECT * FROM pricing_rates ORDER BY service_type`)
	return rates, err
}

func (r *pricingRepository) Active() ([]*model.PricingRate, error) {
	var rates []*model.PricingRate
	err := r.db.Select(&rates, `SELECT * FROM pricing_rates WHERE active = TRUE ORDER BY hourly_rate, service_type`)
	return rates, err
}

func (r *pricingRepository) Upsert(rate *model.PricingRate) error {
	rate.UpdatedAt = time.Now().UTC()
	query := `
		INSERT INTO pricing_rates (service_type, label, hourly_rate, night_rate, has_night_rate, additional_child_rate, active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (service_type) DO UPDATE SET
			label = excluded.label,
			hourly_rate = excluded.hourly_rate,
			night_rate = excluded.night_rate,
			has_night_rate = excluded.has_night_rate,
			additional_child_rate = excluded.additional_child_rate,
			active = excluded.active,
			updated_at = excluded.updated_at
	`
	_, err := r.db.Exec(query,
		rate.ServiceType,
		rate.Label,
		rate.HourlyRate,
		rate.NightRate,
		rate.HasNightRate,
		rate.AdditionalChildRate,
		rate.Active,
		rate.UpdatedAt,
	)
	return err
}

func (r *pricingRepository) Delete(serviceType string) error {
	result, err := r.db.Exec(`DELETE FROM pricing_rates WHERE service_type = $1`, serviceType)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRateNotFound
	}
	return nil
}

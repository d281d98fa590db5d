package model

import "time"

// NightRateStartHour is the first hour (24h clock) billed at the night rate.
const NightRateStartHour = 22

// IncludedChildren is how many children the base rate covers.
const IncludedChildren = 2

// Upper bounds for a single booking or quote.
const (
	MaxDurationHours = 24
	MaxChildren      = 10
)

type PricingRate struct {
	ServiceType         string    `db:"service_type" json:"service_type"`
	Label               string    `db:"label" json:"label"`
	HourlyRate          float64   `db:"hourly_rate" json:"hourly_rate"`
	NightRate           float64   `db:"night_rate" json:"night_rate"`
	HasNightRate        bool      `db:"has_night_rate" json:"has_night_rate"`
	AdditionalChildRate float64   `db:"additional_child_rate" json:"additional_child_rate"`
	Active              bool      `db:"active" json:"active"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultPricingRate is used when a service type has no active rate row.
var DefaultPricingRate = PricingRate{
	ServiceType:         "default",
	Label:               "Standard care",
	HourlyRate:          15,
	AdditionalChildRate: 5,
	Active:              true,
}

type QuoteLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type Quote struct {
	ServiceType              string      `json:"service_type"`
	HourlyRate               float64     `json:"hourly_rate"`
	NightRateApplied         bool        `json:"night_rate_applied"`
	DefaultRateApplied       bool        `json:"default_rate_applied"`
	BaseAmount               float64     `json:"base_amount"`
	AdditionalChildrenAmount float64     `json:"additional_children_amount"`
	TotalAmount              float64     `json:"total_amount"`
	Breakdown                []QuoteLine `json:"breakdown"`
}

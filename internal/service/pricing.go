package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/littlesteps/booking/internal/model"
	"github.com/littlesteps/booking/internal/repository"
)

type QuoteRequest struct {
	ServiceType   string  `json:"service_type"`
	DurationHours float64 `json:"duration_hours"`
	ChildrenCount int     `json:"children_count"`
	// StartHour is on a 24h clock.
	StartHour int `json:"start_hour"`
}

type PricingService struct {
	pricingRepo repository.PricingRepository
}

func NewPricingService(pricingRepo repository.PricingRepository) *PricingService {
	return &PricingService{pricingRepo: pricingRepo}
}

// CalculatePrice quotes a booking. Unknown or inactive service types are
// priced at model.DefaultPricingRate instead of failing.
func (s *PricingService) CalculatePrice(ctx context.Context, req QuoteRequest) (*model.Quote, error) {
	if req.DurationHours <= 0 || req.DurationHours > model.MaxDurationHours ||
		req.ChildrenCount < 1 || req.ChildrenCount > model.MaxChildren ||
		req.StartHour < 0 || req.StartHour > 23 {
		return nil, ErrInvalidQuote
	}

	rate, isDefault, err := s.rateFor(req.ServiceType)
	if err != nil {
		return nil, err
	}

	return Quote(rate, req, isDefault), nil
}

func (s *PricingService) rateFor(serviceType string) (*model.PricingRate, bool, error) {
	rate, err := s.pricingRepo.ByServiceType(serviceType)
	if err != nil {
		if errors.Is(err, repository.ErrRateNotFound) {
			def := model.DefaultPricingRate
			return &def, true, nil
		}
		return nil, false, fmt.Errorf("failed to get pricing rate: %w", err)
	}
	if !rate.Active {
		def := model.DefaultPricingRate
		return &def, true, nil
	}
	return rate, false, nil
}

// Quote applies a rate to a request. It does no validation.
func Quote(rate *model.PricingRate, req QuoteRequest, isDefault bool) *model.Quote {
	hourly := rate.HourlyRate
	night := rate.HasNightRate && req.StartHour >= model.NightRateStartHour
	if night {
		hourly = rate.NightRate
	}

	base := roundCents(hourly * req.DurationHours)

	extra := req.ChildrenCount - model.IncludedChildren
	if extra < 0 {
		extra = 0
	}
	additional := roundCents(float64(extra) * rate.AdditionalChildRate * req.DurationHours)

	label := rate.Label
	if night {
		label += " (night rate)"
	}
	breakdown := []model.QuoteLine{
		{Label: fmt.Sprintf("%s: %g h x %.2f", label, req.DurationHours, hourly), Amount: base},
	}
	if extra > 0 {
		breakdown = append(breakdown, model.QuoteLine{
			Label:  fmt.Sprintf("Additional children: %d x %.2f x %g h", extra, rate.AdditionalChildRate, req.DurationHours),
			Amount: additional,
		})
	}

	serviceType := req.ServiceType
	if serviceType == "" {
		serviceType = rate.ServiceType
	}

	return &model.Quote{
		ServiceType:              serviceType,
		HourlyRate:               hourly,
		NightRateApplied:         night,
		DefaultRateApplied:       isDefault,
		BaseAmount:               base,
		AdditionalChildrenAmount: additional,
		TotalAmount:              roundCents(base + additional),
		Breakdown:                breakdown,
	}
}

func (s *PricingService) Rates(ctx context.Context) ([]*model.PricingRate, error) {
	return s.pricingRepo.All()
}

func (s *PricingService) ActiveRates(ctx context.Context) ([]*model.PricingRate, error) {
	return s.pricingRepo.Active()
}

func (s *PricingService) SaveRate(ctx context.Context, rate *model.PricingRate) error {
	rate.ServiceType = strings.TrimSpace(strings.ToLower(rate.ServiceType))
	rate.Label = strings.TrimSpace(rate.Label)
	if rate.ServiceType == "" || rate.Label == "" {
		return fmt.Errorf("%w: service type and label are required", ErrInvalidRate)
	}
	if rate.HourlyRate < 0 || rate.NightRate < 0 || rate.AdditionalChildRate < 0 {
		return fmt.Errorf("%w: amounts must not be negative", ErrInvalidRate)
	}
	if rate.HasNightRate && rate.NightRate <= 0 {
		return fmt.Errorf("%w: night rate is required when enabled", ErrInvalidRate)
	}
	return s.pricingRepo.Upsert(rate)
}

func (s *PricingService) DeleteRate(ctx context.Context, serviceType string) error {
	err := s.pricingRepo.Delete(serviceType)
	if errors.Is(err, repository.ErrRateNotFound) {
		return ErrRateNotFound
	}
	return err
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

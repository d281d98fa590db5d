package service

import (
	"context"
	"errors"
	"testing"

	"github.com/littlesteps/booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePriceNoSurchargeUpToTwoChildren(t *testing.T) {
	svc := NewPricingService(newFakePricingRepo())

	for _, serviceType := range []string{"babysitting", "nanny", "unknown"} {
		for _, hours := range []float64{0.5, 1, 3, 8.25} {
			for children := 1; children <= 2; children++ {
				q, err := svc.CalculatePrice(context.Background(), QuoteRequest{
					ServiceType:   serviceType,
					DurationHours: hours,
					ChildrenCount: children,
					StartHour:     9,
				})
				require.NoError(t, err)
				assert.Zero(t, q.AdditionalChildrenAmount)
				assert.Len(t, q.Breakdown, 1)
				assert.Equal(t, q.BaseAmount, q.TotalAmount)
			}
		}
	}
}

func TestCalculatePriceAdditionalChildren(t *testing.T) {
	svc := NewPricingService(newFakePricingRepo())

	tests := []struct {
		hours         float64
		wantBase      float64
		wantAdditonal float64
	}{
		{1, 15, 15},
		{3, 45, 45},
		{2.5, 37.5, 37.5},
	}
	for _, tt := range tests {
		q, err := svc.CalculatePrice(context.Background(), QuoteRequest{
			ServiceType:   "babysitting",
			DurationHours: tt.hours,
			ChildrenCount: 5,
			StartHour:     14,
		})
		require.NoError(t, err)
		assert.Equal(t, tt.wantBase, q.BaseAmount)
		assert.Equal(t, tt.wantAdditonal, q.AdditionalChildrenAmount)
		assert.Equal(t, tt.wantBase+tt.wantAdditonal, q.TotalAmount)
		require.Len(t, q.Breakdown, 2)
		assert.Contains(t, q.Breakdown[1].Label, "Additional children: 3")
	}
}

func TestCalculatePriceNightRate(t *testing.T) {
	svc := NewPricingService(newFakePricingRepo())

	q, err := svc.CalculatePrice(context.Background(), QuoteRequest{ServiceType: "babysitting", DurationHours: 2, ChildrenCount: 1, StartHour: 22})
	require.NoError(t, err)
	assert.True(t, q.NightRateApplied)
	assert.Equal(t, 20.0, q.HourlyRate)
	assert.Equal(t, 40.0, q.TotalAmount)

	q, err = svc.CalculatePrice(context.Background(), QuoteRequest{ServiceType: "babysitting", DurationHours: 2, ChildrenCount: 1, StartHour: 21})
	require.NoError(t, err)
	assert.False(t, q.NightRateApplied)
	assert.Equal(t, 30.0, q.TotalAmount)

	// nanny has no night rate
	q, err = svc.CalculatePrice(context.Background(), QuoteRequest{ServiceType: "nanny", DurationHours: 2, ChildrenCount: 1, StartHour: 23})
	require.NoError(t, err)
	assert.False(t, q.NightRateApplied)
	assert.Equal(t, 36.0, q.TotalAmount)
}

func TestCalculatePriceFallsBackToDefaultRate(t *testing.T) {
	svc := NewPricingService(newFakePricingRepo())

	for _, serviceType := range []string{"unknown", "retired"} {
		q, err := svc.CalculatePrice(context.Background(), QuoteRequest{ServiceType: serviceType, DurationHours: 2, ChildrenCount: 3, StartHour: 10})
		require.NoError(t, err)
		assert.True(t, q.DefaultRateApplied)
		assert.Equal(t, serviceType, q.ServiceType)
		assert.Equal(t, model.DefaultPricingRate.HourlyRate, q.HourlyRate)
		assert.Equal(t, 30.0, q.BaseAmount)
		assert.Equal(t, 10.0, q.AdditionalChildrenAmount)
	}
}

func TestCalculatePriceRoundsToCents(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rates["odd"] = &model.PricingRate{ServiceType: "odd", Label: "Odd", HourlyRate: 10.333, AdditionalChildRate: 1.111, Active: true}
	svc := NewPricingService(repo)

	q, err := svc.CalculatePrice(context.Background(), QuoteRequest{ServiceType: "odd", DurationHours: 1, ChildrenCount: 3, StartHour: 10})
	require.NoError(t, err)
	assert.Equal(t, 10.33, q.BaseAmount)
	assert.Equal(t, 1.11, q.AdditionalChildrenAmount)
	assert.Equal(t, 11.44, q.TotalAmount)
}

func TestCalculatePriceInvalidInput(t *testing.T) {
	svc := NewPricingService(newFakePricingRepo())

	for _, req := range []QuoteRequest{
		{ServiceType: "babysitting", DurationHours: 0, ChildrenCount: 1},
		{ServiceType: "babysitting", DurationHours: -1, ChildrenCount: 1},
		{ServiceType: "babysitting", DurationHours: 1, ChildrenCount: 0},
		{ServiceType: "babysitting", DurationHours: 1, ChildrenCount: 1, StartHour: 24},
		{ServiceType: "babysitting", DurationHours: 1, ChildrenCount: 1, StartHour: -1},
		{ServiceType: "babysitting", DurationHours: 24.5, ChildrenCount: 1},
		{ServiceType: "babysitting", DurationHours: 1e307, ChildrenCount: 3},
		{ServiceType: "babysitting", DurationHours: 1, ChildrenCount: 11},
	} {
		_, err := svc.CalculatePrice(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidQuote)
	}
}

func TestCalculatePriceAcceptsUpperBounds(t *testing.T) {
	svc := NewPricingService(newFakePricingRepo())

	q, err := svc.CalculatePrice(context.Background(), QuoteRequest{
		ServiceType:   "babysitting",
		DurationHours: model.MaxDurationHours,
		ChildrenCount: model.MaxChildren,
	})
	require.NoError(t, err)
	assert.Greater(t, q.TotalAmount, 0.0)
}

func TestCalculatePriceRepositoryError(t *testing.T) {
	repo := newFakePricingRepo()
	repo.err = errors.New("database is locked")
	svc := NewPricingService(repo)

	_, err := svc.CalculatePrice(context.Background(), QuoteRequest{ServiceType: "babysitting", DurationHours: 1, ChildrenCount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestSaveRate(t *testing.T) {
	repo := newFakePricingRepo()
	svc := NewPricingService(repo)

	err := svc.SaveRate(context.Background(), &model.PricingRate{ServiceType: "", Label: "x"})
	assert.ErrorIs(t, err, ErrInvalidRate)
	err = svc.SaveRate(context.Background(), &model.PricingRate{ServiceType: "x", Label: "X", HourlyRate: -1})
	assert.ErrorIs(t, err, ErrInvalidRate)
	err = svc.SaveRate(context.Background(), &model.PricingRate{ServiceType: "x", Label: "X", HourlyRate: 10, HasNightRate: true})
	assert.ErrorIs(t, err, ErrInvalidRate)

	require.NoError(t, svc.SaveRate(context.Background(), &model.PricingRate{
		ServiceType: " Overnight ", Label: "Overnight", HourlyRate: 12, AdditionalChildRate: 4, Active: true,
	}))
	rate, ok := repo.rates["overnight"]
	require.True(t, ok)
	assert.Equal(t, 12.0, rate.HourlyRate)

	require.NoError(t, svc.DeleteRate(context.Background(), "overnight"))
	assert.ErrorIs(t, svc.DeleteRate(context.Background(), "overnight"), ErrRateNotFound)
}

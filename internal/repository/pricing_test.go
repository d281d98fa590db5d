package repository

import (
	"testing"

	"github.com/littlesteps/booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingSeededRates(t *testing.T) {
	repo := NewPricingRepository(newTestDB(t))

	rate, err := repo.ByServiceType("babysitting")
	require.NoError(t, err)
	assert.InDelta(t, 15.0, rate.HourlyRate, 0.001)
	assert.InDelta(t, 20.0, rate.NightRate, 0.001)
	assert.True(t, rate.HasNightRate)
	assert.InDelta(t, 5.0, rate.AdditionalChildRate, 0.001)

	_, err = repo.ByServiceType("tutoring")
	assert.ErrorIs(t, err, ErrRateNotFound)
}

func TestPricingUpsertAndDelete(t *testing.T) {
	repo := NewPricingRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(&model.PricingRate{
		ServiceType: "nanny", Label: "Nanny", HourlyRate: 19, AdditionalChildRate: 6, Active: false,
	}))
	rate, err := repo.ByServiceType("nanny")
	require.NoError(t, err)
	assert.InDelta(t, 19.0, rate.HourlyRate, 0.001)
	assert.False(t, rate.Active)

	active, err := repo.Active()
	require.NoError(t, err)
	assert.Len(t, active, 2)

	require.NoError(t, repo.Delete("nanny"))
	assert.ErrorIs(t, repo.Delete("nanny"), ErrRateNotFound)

	all, err := repo.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

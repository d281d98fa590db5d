package repository

import (
	"testing"
	"time"

	"github.com/littlesteps/booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeletionRequestComplete(t *testing.T) {
	repo := NewDeletionRequestRepository(newTestDB(t))
	require.NoError(t, repo.Create(&model.DeletionRequest{
		Email:     "parent@example.com",
		Token:     "del-1",
		Reason:    "moving away",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}))

	req, err := repo.ByToken("del-1")
	require.NoError(t, err)
	assert.Equal(t, model.DeletionStatusPending, req.Status)

	require.NoError(t, repo.Complete("del-1", time.Now()))
	assert.ErrorIs(t, repo.Complete("del-1", time.Now()), ErrDeletionNotPending)
	assert.ErrorIs(t, repo.Complete("missing", time.Now()), ErrDeletionNotFound)

	req, err = repo.ByToken("del-1")
	require.NoError(t, err)
	assert.Equal(t, model.DeletionStatusCompleted, req.Status)
	assert.NotNil(t, req.CompletedAt)
}

func TestDeletionRequestExpirePending(t *testing.T) {
	repo := NewDeletionRequestRepository(newTestDB(t))
	now := time.Now().UTC()
	require.NoError(t, repo.Create(&model.DeletionRequest{Email: "a@example.com", Token: "stale", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Create(&model.DeletionRequest{Email: "b@example.com", Token: "live", ExpiresAt: now.Add(time.Hour)}))

	n, err := repo.ExpirePending(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	expired, err := repo.List(model.DeletionStatusExpired)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "a@example.com", expired[0].Email)

	all, err := repo.List("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

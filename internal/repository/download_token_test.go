package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/littlesteps/booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createToken(t *testing.T, repo DownloadTokenRepository, token, email string, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(&model.DownloadToken{
		Token:      token,
		UserEmail:  email,
		ExportType: model.ExportTypeFull,
		ExpiresAt:  expiresAt,
	}))
}

func TestDownloadTokenCreateAndLookup(t *testing.T) {
	repo := NewDownloadTokenRepository(newTestDB(t))
	expires := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	createToken(t, repo, "abc123", "parent@example.com", expires)

	got, err := repo.ByToken("abc123")
	require.NoError(t, err)
	assert.Equal(t, "parent@example.com", got.UserEmail)
	assert.Equal(t, model.ExportTypeFull, got.ExportType)
	assert.True(t, expires.Equal(got.ExpiresAt))
	assert.False(t, got.Used)
	assert.Nil(t, got.UsedAt)

	_, err = repo.ByToken("missing")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestDownloadTokenMarkUsedIsMonotonic(t *testing.T) {
	repo := NewDownloadTokenRepository(newTestDB(t))
	createToken(t, repo, "tok", "parent@example.com", time.Now().Add(24*time.Hour))

	require.NoError(t, repo.MarkUsed("tok", time.Now()))
	assert.ErrorIs(t, repo.MarkUsed("tok", time.Now()), ErrTokenUsed)
	assert.ErrorIs(t, repo.MarkUsed("nope", time.Now()), ErrTokenNotFound)

	got, err := repo.ByToken("tok")
	require.NoError(t, err)
	assert.True(t, got.Used)
	require.NotNil(t, got.UsedAt)
}

func TestDownloadTokenConcurrentMarkUsed(t *testing.T) {
	repo := NewDownloadTokenRepository(newTestDB(t))
	createToken(t, repo, "race", "parent@example.com", time.Now().Add(24*time.Hour))

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.MarkUsed("race", time.Now())
		}(i)
	}
	wg.Wait()

	var won, used int
	for _, err := range errs {
		switch err {
		case nil:
			won++
		case ErrTokenUsed:
			used++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, workers-1, used)
}

func TestDownloadTokenCleanupExpired(t *testing.T) {
	repo := NewDownloadTokenRepository(newTestDB(t))
	now := time.Now().UTC()

	createToken(t, repo, "old", "a@example.com", now.Add(-48*time.Hour))
	createToken(t, repo, "fresh", "a@example.com", now.Add(24*time.Hour))
	createToken(t, repo, "used-long-ago", "b@example.com", now.Add(24*time.Hour))
	require.NoError(t, repo.MarkUsed("used-long-ago", now.Add(-72*time.Hour)))

	removed, err := repo.CleanupExpired(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = repo.ByToken("fresh")
	assert.NoError(t, err)
	_, err = repo.ByToken("old")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestDownloadTokenDeleteByEmail(t *testing.T) {
	repo := NewDownloadTokenRepository(newTestDB(t))
	createToken(t, repo, "t1", "a@example.com", time.Now().Add(time.Hour))
	createToken(t, repo, "t2", "a@example.com", time.Now().Add(time.Hour))
	createToken(t, repo, "t3", "b@example.com", time.Now().Add(time.Hour))

	n, err := repo.DeleteByEmail("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.ByToken("t3")
	assert.NoError(t, err)
}

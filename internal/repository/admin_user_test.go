package repository

import (
	"testing"

	"github.com/littlesteps/booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminUserRepository(t *testing.T) {
	repo := NewAdminUserRepository(newTestDB(t))
	admin := &model.AdminUser{Email: "owner@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(admin))

	byEmail, err := repo.ByEmail("owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, byEmail.ID)

	require.NoError(t, repo.UpdatePassword(admin.ID, "new-hash"))
	byID, err := repo.ByID(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", byID.PasswordHash)

	assert.Error(t, repo.Create(&model.AdminUser{Email: "owner@example.com", PasswordHash: "x"}))
	_, err = repo.ByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

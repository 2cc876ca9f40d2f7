package adminuser

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/db/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")
	require.NoError(t, db.AutoMigrate(&models.AdminUser{}), "failed to migrate test database")

	s, err := New(db)
	require.NoError(t, err)

	return s
}

func TestCreateAndFind(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user, err := s.Create(ctx, "  Alice@Example.com ", "hash")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.Active)

	found, err := s.FindByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	byID, err := s.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	_, err = s.Create(ctx, "alice@example.com", "other")
	require.ErrorIs(t, err, ErrUserExists)

	_, err = s.FindByEmail(ctx, "bob@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpdates(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user, err := s.Create(ctx, "a@b.c", "hash")
	require.NoError(t, err)

	require.NoError(t, s.UpdatePasswordHash(ctx, user.ID, "new-hash"))
	require.NoError(t, s.SetTOTPSecret(ctx, user.ID, "SECRET"))
	require.NoError(t, s.SetActive(ctx, user.ID, false))

	got, err := s.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Equal(t, "SECRET", got.TOTPSecret)
	assert.False(t, got.Active)

	require.ErrorIs(t, s.UpdatePasswordHash(ctx, 999, "x"), ErrUserNotFound)

	users, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

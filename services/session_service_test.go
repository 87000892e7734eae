package services

import (
	"context"
	"testing"
	"time"

	"academic-management-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	u := models.User{Username: name, Email: name + "@example.edu", PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestSessionService_UseAndExpiry(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(newTestDB(t))
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	user := createUser(t, svc.db, "alice", models.RoleUser)

	_, err := svc.Store(ctx, user.ID, "tok-1", now.Add(time.Hour), "agent", "127.0.0.1")
	require.NoError(t, err)

	rt, err := svc.Use(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, rt.LastUsedAt)
	assert.True(t, rt.LastUsedAt.Equal(now))

	_, err = svc.Use(ctx, "unknown")
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)

	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = svc.Use(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestSessionService_RevokeAllDeactivatesTokens(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(newTestDB(t))
	user := createUser(t, svc.db, "alice", models.RoleUser)
	exp := time.Now().Add(time.Hour)
	_, err := svc.Store(ctx, user.ID, "a", exp, "", "")
	require.NoError(t, err)
	_, err = svc.Store(ctx, user.ID, "b", exp, "", "")
	require.NoError(t, err)

	active, err := svc.Active(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	n, err := svc.RevokeAll(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = svc.Use(ctx, "a")
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestSessionService_RevokeOwnerOrAdmin(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(newTestDB(t))
	alice := createUser(t, svc.db, "alice", models.RoleUser)
	bob := createUser(t, svc.db, "bob", models.RoleUser)
	admin := createUser(t, svc.db, "root", models.RoleAdmin)
	exp := time.Now().Add(time.Hour)

	first, err := svc.Store(ctx, alice.ID, "a1", exp, "", "")
	require.NoError(t, err)
	second, err := svc.Store(ctx, alice.ID, "a2", exp, "", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Revoke(ctx, first.ID, &bob), ErrForbidden)
	require.NoError(t, svc.Revoke(ctx, first.ID, &alice))
	assert.ErrorIs(t, svc.Revoke(ctx, first.ID, &alice), ErrNotFound)
	require.NoError(t, svc.Revoke(ctx, second.ID, &admin))
}

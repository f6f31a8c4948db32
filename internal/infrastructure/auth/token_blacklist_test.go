package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbook/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_AddToBlacklist(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	err := blacklist.AddToBlacklist(ctx, "test-jti-1", 1*time.Hour)
	require.NoError(t, err)

	isBlacklisted, err := blacklist.IsBlacklisted(ctx, "test-jti-1")
	require.NoError(t, err)
	assert.True(t, isBlacklisted)

	isBlacklisted, err = blacklist.IsBlacklisted(ctx, "test-jti-2")
	require.NoError(t, err)
	assert.False(t, isBlacklisted)
}

func TestInMemoryTokenBlacklist_ExpirationCleanup(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	err := blacklist.AddToBlacklist(ctx, "test-jti-expire", 1*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	isBlacklisted, err := blacklist.IsBlacklisted(ctx, "test-jti-expire")
	require.NoError(t, err)
	assert.False(t, isBlacklisted)
}

func TestInMemoryTokenBlacklist_UserTokenInvalidation(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	// Token issued before invalidation
	tokenIssuedAt := time.Now().Add(-1 * time.Hour)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, "user-1", tokenIssuedAt)
	require.NoError(t, err)
	assert.False(t, invalidated)

	err = blacklist.AddUserTokensToBlacklist(ctx, "user-1", 1*time.Hour)
	require.NoError(t, err)

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-1", tokenIssuedAt)
	require.NoError(t, err)
	assert.True(t, invalidated)

	// Token issued after invalidation should be valid
	futureToken := time.Now().Add(1 * time.Second)
	time.Sleep(2 * time.Millisecond)
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-1", futureToken)
	require.NoError(t, err)
	assert.False(t, invalidated)

	// Different user should not be affected
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-2", tokenIssuedAt)
	require.NoError(t, err)
	assert.False(t, invalidated)
}

func TestInMemoryTokenBlacklist_MultipleTokens(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		jti := "test-jti-" + string(rune('a'+i))
		err := blacklist.AddToBlacklist(ctx, jti, 1*time.Hour)
		require.NoError(t, err)
	}

	for i := 0; i < 10; i++ {
		jti := "test-jti-" + string(rune('a'+i))
		isBlacklisted, err := blacklist.IsBlacklisted(ctx, jti)
		require.NoError(t, err)
		assert.True(t, isBlacklisted, "token %s should be blacklisted", jti)
	}

	isBlacklisted, err := blacklist.IsBlacklisted(ctx, "not-blacklisted")
	require.NoError(t, err)
	assert.False(t, isBlacklisted)
}

func TestTokenBlacklist_Interfaces(t *testing.T) {
	var _ auth.TokenBlacklist = (*auth.InMemoryTokenBlacklist)(nil)
	var _ auth.TokenBlacklist = (*auth.RedisTokenBlacklist)(nil)
	var _ auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
}

package session_adapter

import (
	"context"
	"errors"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-signing-key"

type failingRevocations struct{}

func (failingRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return errors.New("store down")
}

func (failingRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return false, errors.New("store down")
}

func newProvider(t *testing.T) *JWTSessionProvider {
	t.Helper()
	p, err := NewJWTSessionProvider(testKey, NewInMemoryRevocationStore())
	require.NoError(t, err)
	return p
}

func TestNewJWTSessionProvider_Validation(t *testing.T) {
	_, err := NewJWTSessionProvider("", NewInMemoryRevocationStore())
	assert.Error(t, err)
	_, err = NewJWTSessionProvider(testKey, nil)
	assert.Error(t, err)
}

func TestResolve_ValidToken(t *testing.T) {
	p := newProvider(t)
	token, err := p.IssueToken(domain.SessionUser{ID: "u1", Email: "u1@example.com", Role: "user"}, time.Hour)
	require.NoError(t, err)

	session, err := p.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, session.Authenticated)
	require.NotNil(t, session.User)
	assert.Equal(t, "u1", session.User.ID)
	assert.Equal(t, "u1@example.com", session.User.Email)
	assert.NotEmpty(t, session.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)
}

func TestResolve_InvalidTokens(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()

	_, err := p.Resolve(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	other, err := NewJWTSessionProvider("another-key", NewInMemoryRevocationStore())
	require.NoError(t, err)
	foreign, err := other.IssueToken(domain.SessionUser{ID: "u1"}, time.Hour)
	require.NoError(t, err)
	_, err = p.Resolve(ctx, foreign)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	expired, err := p.IssueToken(domain.SessionUser{ID: "u1"}, -time.Minute)
	require.NoError(t, err)
	session, err := p.Resolve(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	assert.False(t, session.Authenticated)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "u1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = p.Resolve(ctx, unsigned)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLogout_RevokesToken(t *testing.T) {
	p := newProvider(t)
	token, err := p.IssueToken(domain.SessionUser{ID: "u1"}, time.Hour)
	require.NoError(t, err)

	session, err := p.Resolve(context.Background(), token)
	require.NoError(t, err)

	ctx := contextkeys.ContextWithSession(context.Background(), session)
	assert.Equal(t, session, p.Current(ctx))
	require.NoError(t, p.Logout(ctx))

	_, err = p.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLogout_Anonymous(t *testing.T) {
	p := newProvider(t)
	err := p.Logout(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestResolve_RevocationStoreFailure(t *testing.T) {
	issuer := newProvider(t)
	token, err := issuer.IssueToken(domain.SessionUser{ID: "u1"}, time.Hour)
	require.NoError(t, err)

	p, err := NewJWTSessionProvider(testKey, failingRevocations{})
	require.NoError(t, err)
	_, err = p.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestInMemoryRevocationStore_Expiry(t *testing.T) {
	store := NewInMemoryRevocationStore()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = store.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, revoked)
}

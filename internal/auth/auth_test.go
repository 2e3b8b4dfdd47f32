package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService("test-secret", 30*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, err := svc.IssueAccessToken(userID, "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, TokenAccess, claims.Kind)
	assert.Equal(t, "qpath-api", claims.Issuer)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	svc := newTestService()

	refresh, err := svc.IssueRefreshToken(uuid.New(), "user")
	require.NoError(t, err)

	_, err = svc.Verify(refresh, TokenAccess)
	assert.ErrorIs(t, err, ErrWrongKind)

	reset, err := svc.IssueResetToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.Verify(reset, TokenRefresh)
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-secret", -time.Minute, -time.Minute)

	token, err := svc.IssueAccessToken(uuid.New(), "user")
	require.NoError(t, err)

	_, err = svc.Verify(token, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	issuer := newTestService()
	verifier := NewService("other-secret", 30*time.Minute, 7*24*time.Hour)

	token, err := issuer.IssueAccessToken(uuid.New(), "user")
	require.NoError(t, err)

	_, err = verifier.Verify(token, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := newTestService()

	_, err := svc.Verify("not.a.token", TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("not-a-hash", "anything"))
}

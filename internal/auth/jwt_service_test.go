package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "incubator/internal/errors"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestService(clock *fakeClock) *JWTService {
	return NewJWTService("test-secret", 7*24*time.Hour, 2*time.Hour, WithClock(clock.Now))
}

func TestJWTService_RoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(clock)

	token, err := svc.IssueSession("a@example.com")
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, PurposeSession, claims.Purpose)
	assert.Equal(t, clock.now.Add(2*time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(clock)

	token, err := svc.IssueSession("a@example.com")
	require.NoError(t, err)

	clock.now = clock.now.Add(2*time.Hour - time.Minute)
	_, err = svc.Verify(token)
	assert.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Minute)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrExpiredToken)
}

func TestJWTService_ActivationOutlivesSession(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(clock)

	token, err := svc.IssueActivation("a@example.com")
	require.NoError(t, err)

	clock.now = clock.now.Add(6 * 24 * time.Hour)
	claims, err := svc.VerifyPurpose(token, PurposeActivation)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestJWTService_InvalidTokens(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	svc := newTestService(clock)

	token, err := svc.IssueSession("a@example.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	other := NewJWTService("other-secret", time.Hour, time.Hour, WithClock(clock.Now))
	foreign, err := other.IssueSession("a@example.com")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Email:            "a@example.com",
		Purpose:          PurposeSession,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour))},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"tampered signature", tampered},
		{"foreign secret", foreign},
		{"garbage", "not-a-jwt"},
		{"empty", ""},
		{"none algorithm", unsigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
		})
	}
}

func TestJWTService_VerifyPurpose_Mismatch(t *testing.T) {
	svc := newTestService(&fakeClock{now: time.Now()})

	activation, err := svc.IssueActivation("a@example.com")
	require.NoError(t, err)
	session, err := svc.IssueSession("a@example.com")
	require.NoError(t, err)

	_, err = svc.VerifyPurpose(activation, PurposeSession)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = svc.VerifyPurpose(session, PurposeActivation)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

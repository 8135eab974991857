package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-member-auth/internal/models"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "unit-access-secret"
	testRefreshSecret = "unit-refresh-secret"
)

func testPrincipal() *models.Principal {
	return &models.Principal{
		MemberID: uuid.New(),
		Email:    "user@example.com",
		Role:     models.RoleUser,
	}
}

func TestIssueParse_RoundTrip(t *testing.T) {
	t.Parallel()

	p := testPrincipal()
	now := time.Now().UTC()
	ttl := 30 * time.Minute

	signed, expiresAt, err := issueToken(p, testAccessSecret, ttl, now)
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	require.Equal(t, now.Add(ttl), expiresAt)

	claims, err := parseToken(signed, testAccessSecret)
	require.NoError(t, err)
	require.Equal(t, p.Email, claims.Subject)
	require.Equal(t, p.MemberID.String(), claims.MemberID)
	require.WithinDuration(t, now, claims.IssuedAt.Time, time.Second)
	require.WithinDuration(t, now.Add(ttl), claims.ExpiresAt.Time, time.Second)
}

func TestParseToken_CrossSecretRejected(t *testing.T) {
	t.Parallel()

	p := testPrincipal()
	now := time.Now().UTC()

	accessSigned, _, err := issueToken(p, testAccessSecret, time.Hour, now)
	require.NoError(t, err)

	refreshSigned, _, err := issueToken(p, testRefreshSecret, time.Hour, now)
	require.NoError(t, err)

	// Токен access-класса не проходит проверку refresh-секретом — и наоборот.
	_, err = parseToken(accessSigned, testRefreshSecret)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = parseToken(refreshSigned, testAccessSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_ExpiryBoundaryInclusive(t *testing.T) {
	t.Parallel()

	p := testPrincipal()

	// exp == now: просрочен (граница включительно).
	signed, _, err := issueToken(p, testAccessSecret, 0, time.Now().UTC())
	require.NoError(t, err)

	_, err = parseToken(signed, testAccessSecret)
	require.ErrorIs(t, err, ErrTokenExpired)

	// За секунду до истечения — валиден.
	signed, _, err = issueToken(p, testAccessSecret, 5*time.Second, time.Now().UTC())
	require.NoError(t, err)

	_, err = parseToken(signed, testAccessSecret)
	require.NoError(t, err)
}

func TestParseToken_ExpiredBySignatureStillExpired(t *testing.T) {
	t.Parallel()

	p := testPrincipal()

	// Просроченный токен отклоняется даже с верной подписью.
	signed, _, err := issueToken(p, testAccessSecret, -time.Minute, time.Now().UTC())
	require.NoError(t, err)

	_, err = parseToken(signed, testAccessSecret)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	for _, tokenStr := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := parseToken(tokenStr, testAccessSecret)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestParseToken_WrongAlgRejected(t *testing.T) {
	t.Parallel()

	// alg=none отклоняется независимо от содержимого.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, tokenClaims{
		MemberID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = parseToken(signed, testAccessSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_MissingClaimsRejected(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	// Без subject.
	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		MemberID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	signed, err := noSub.SignedString([]byte(testAccessSecret))
	require.NoError(t, err)

	_, err = parseToken(signed, testAccessSecret)
	require.ErrorIs(t, err, ErrInvalidToken)

	// memberId — не UUID.
	badID := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		MemberID: "42",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user@example.com",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	signed, err = badID.SignedString([]byte(testAccessSecret))
	require.NoError(t, err)

	_, err = parseToken(signed, testAccessSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

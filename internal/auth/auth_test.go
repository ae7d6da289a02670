package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techzeon/internal/models"
)

func testManager(now time.Time) *TokenManager {
	m := NewTokenManager(Config{Secret: "test-secret", TokenTTL: time.Hour, Issuer: "techzeon-test"})
	m.now = func() time.Time { return now }
	return m
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)

	assert.NotEqual(t, "admin123", hash)
	assert.True(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword(hash, "admin124"))
	assert.False(t, CheckPassword("not-a-bcrypt-hash", "admin123"))

	ok, err := IsHashOf(hash, "wrong")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = IsHashOf("not-a-bcrypt-hash", "admin123")
	assert.Error(t, err)
}

func TestIssueAndParse(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := testManager(now)
	user := &models.User{ID: 7, Email: "ada@example.com", Role: models.RoleAdmin}

	token, issued, err := m.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)
	assert.Equal(t, now.Add(time.Hour), issued.ExpiresAt.Time)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, time.Hour, m.Remaining(claims))
}

func TestTokenIDsAreUnique(t *testing.T) {
	m := testManager(time.Now())
	user := &models.User{ID: 1, Role: models.RoleUser}

	_, a, err := m.Issue(user)
	require.NoError(t, err)
	_, b, err := m.Issue(user)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestParseRejectsExpired(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token, _, err := testManager(issuedAt).Issue(&models.User{ID: 1, Role: models.RoleUser})
	require.NoError(t, err)

	_, err = testManager(issuedAt.Add(2 * time.Hour)).Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, _, err := testManager(time.Now()).Issue(&models.User{ID: 1, Role: models.RoleUser})
	require.NoError(t, err)

	other := NewTokenManager(Config{Secret: "other", TokenTTL: time.Hour, Issuer: "techzeon-test"})
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		UserID: 1,
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "techzeon-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = testManager(time.Now()).Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

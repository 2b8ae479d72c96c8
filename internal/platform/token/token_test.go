package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "clockgeo/pkg/domain"
	dErrors "clockgeo/pkg/domain-errors"
)

var (
	service = NewService("test-signing-key", "test-issuer", "test-audience")
	userID  = id.UserID(uuid.New())
)

func TestIssueAndValidate(t *testing.T) {
	token, err := service.Issue(userID, time.Hour)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.NotEmpty(t, claims.TokenID)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := service.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := service.Issue(userID, -time.Hour)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, "token has expired", err.(*dErrors.Error).Message)
}

func TestValidateToken_WrongAudience(t *testing.T) {
	other := NewService("test-signing-key", "test-issuer", "someone-else")
	token, err := other.Issue(userID, time.Hour)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateToken_WrongKey(t *testing.T) {
	other := NewService("another-key", "test-issuer", "test-audience")
	token, err := other.Issue(userID, time.Hour)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateToken_NonUUIDSubject(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "student-42",
		Issuer:    "test-issuer",
		Audience:  jwt.ClaimStrings{"test-audience"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := raw.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

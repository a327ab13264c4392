package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, claims *models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func testClaims(userID string, role models.Role) *models.JWTClaims {
	now := time.Now().UTC()
	return &models.JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "reporting-portal",
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestValidateToken(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: testSecret, Issuer: "reporting-portal"})

	claims, err := svc.ValidateToken(signTestToken(t, testSecret, testClaims("7", models.RoleLecturer)))
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, models.RoleLecturer, claims.Role)
}

func TestValidateTokenNormalisesRoleAlias(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: testSecret})

	claims, err := svc.ValidateToken(signTestToken(t, testSecret, testClaims("9", models.Role("PRL"))))
	require.NoError(t, err)
	assert.Equal(t, models.RolePrincipalLecturer, claims.Role)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: testSecret, Issuer: "reporting-portal"})

	expired := testClaims("1", models.RoleStudent)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := testClaims("1", models.RoleStudent)
	wrongIssuer.Issuer = "elsewhere"

	noSubject := testClaims("", models.RoleStudent)

	cases := map[string]string{
		"wrong secret":  signTestToken(t, "other", testClaims("1", models.RoleStudent)),
		"expired":       signTestToken(t, testSecret, expired),
		"wrong issuer":  signTestToken(t, testSecret, wrongIssuer),
		"unknown role":  signTestToken(t, testSecret, testClaims("1", models.Role("admin"))),
		"no subject":    signTestToken(t, testSecret, noSubject),
		"garbage token": "not-a-jwt",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
		})
	}
}

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = strings.Repeat("k", MinSecretLength)

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateToken(testSecret, "flight-director", RoleOperator, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "flight-director", claims.Subject)
	assert.Equal(t, RoleOperator, claims.Role)
	assert.True(t, claims.CanOperate())
}

func TestValidateRejects(t *testing.T) {
	valid, err := GenerateToken(testSecret, "flight-director", RoleOperator, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(testSecret, "flight-director", RoleOperator, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", strings.Repeat("x", MinSecretLength), valid},
		{"expired", testSecret, expired},
		{"garbage", testSecret, "not.a.token"},
		{"short secret", "short", valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.secret, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerateRequiresSecretAndSubject(t *testing.T) {
	_, err := GenerateToken("", "flight-director", RoleOperator, time.Hour)
	assert.Error(t, err)

	_, err = GenerateToken(testSecret, "", RoleOperator, time.Hour)
	assert.Error(t, err)
}

func TestCanOperate(t *testing.T) {
	assert.True(t, (&Claims{Role: RoleAdmin}).CanOperate())
	assert.False(t, (&Claims{Role: "viewer"}).CanOperate())
}

package crypto

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/fedicore/pkg/errors"
)

const testOperatorSecret = "0123456789abcdef0123456789abcdef"

func TestNewOperatorTokenManager_RejectsShortSecret(t *testing.T) {
	_, err := NewOperatorTokenManager("short", "fedicore")
	assert.Error(t, err)
}

func TestOperatorTokenManager_IssueAndVerify(t *testing.T) {
	m, err := NewOperatorTokenManager(testOperatorSecret, "fedicore")
	require.NoError(t, err)

	token, err := m.Issue("alice", time.Hour)
	require.NoError(t, err)

	subject, err := m.VerifyOperatorToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestOperatorTokenManager_Rejects(t *testing.T) {
	m, err := NewOperatorTokenManager(testOperatorSecret, "fedicore")
	require.NoError(t, err)
	valid, err := m.Issue("alice", time.Hour)
	require.NoError(t, err)

	other, err := NewOperatorTokenManager(strings.Repeat("x", 32), "fedicore")
	require.NoError(t, err)
	foreign, err := other.Issue("alice", time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewOperatorTokenManager(testOperatorSecret, "someone-else")
	require.NoError(t, err)
	wrongIssuer, err := otherIssuer.Issue("alice", time.Hour)
	require.NoError(t, err)

	expiredManager, err := NewOperatorTokenManager(testOperatorSecret, "fedicore")
	require.NoError(t, err)
	expiredManager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredManager.Issue("alice", time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    "fedicore",
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"other secret", foreign},
		{"other issuer", wrongIssuer},
		{"expired", expired},
		{"alg none", unsigned},
		{"tampered", valid[:strings.LastIndex(valid, ".")+1] + "AAAA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.VerifyOperatorToken(tt.token)
			require.Error(t, err)
			assert.Equal(t, errors.KindUnauthorized, errors.KindOf(err))
		})
	}
}

func TestOperatorTokenManager_IssueRequiresTTL(t *testing.T) {
	m, err := NewOperatorTokenManager(testOperatorSecret, "")
	require.NoError(t, err)
	_, err = m.Issue("alice", 0)
	assert.Error(t, err)
}

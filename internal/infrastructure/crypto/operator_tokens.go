package crypto

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/errors"
)

// OperatorTokenManager issues and verifies the HS256 bearer tokens that authorize the
// submit-note API. A token's subject is the single local account it may act as.
type OperatorTokenManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewOperatorTokenManager creates a manager keyed by secret.
//
// Parameters:
//   - secret: HMAC key; at least constants.MinOperatorSecretBytes long
//   - issuer: iss claim written and required
//
// Returns:
//   - *OperatorTokenManager: Initialized manager
//   - error: When the secret is too short
func NewOperatorTokenManager(secret, issuer string) (*OperatorTokenManager, error) {
	if len(secret) < constants.MinOperatorSecretBytes {
		return nil, fmt.Errorf("operator token secret must be at least %d bytes", constants.MinOperatorSecretBytes)
	}
	if issuer == "" {
		issuer = constants.ServiceName
	}
	return &OperatorTokenManager{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Issue mints a token allowing its bearer to submit notes as username for ttl.
func (m *OperatorTokenManager) Issue(username string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	now := m.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    m.issuer,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign operator token: %w", err)
	}
	return signed, nil
}

// VerifyOperatorToken checks signature, issuer and lifetime and returns the subject.
// Every failure is KindUnauthorized.
func (m *OperatorTokenManager) VerifyOperatorToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return "", errors.ErrUnauthorized("operator token expired", err)
		}
		return "", errors.ErrUnauthorized("operator token rejected", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.ErrUnauthorized("operator token has no subject", nil)
	}
	return claims.Subject, nil
}

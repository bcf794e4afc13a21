package crypto_test

import (
	"github.com/turtacn/fedicore/internal/domain/service"
	"github.com/turtacn/fedicore/internal/infrastructure/crypto"
)

var _ service.OperatorAuthenticator = (*crypto.OperatorTokenManager)(nil)

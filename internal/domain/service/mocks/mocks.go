package mocks

import (
	"context"
	"net/http"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockKeyGenerator is a mock implementation of service.KeyGenerator
type MockKeyGenerator struct {
	mock.Mock
}

func (m *MockKeyGenerator) GenerateKeyPair() ([]byte, []byte, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).([]byte), args.Error(2)
}

// MockRequestSigner is a mock implementation of service.RequestSigner
type MockRequestSigner struct {
	mock.Mock
}

func (m *MockRequestSigner) SignRequest(req *http.Request, body []byte, keyID string, privateKeyDER []byte) error {
	args := m.Called(req, body, keyID, privateKeyDER)
	return args.Error(0)
}

// MockDeliverer is a mock implementation of service.Deliverer
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(ctx context.Context, req *http.Request) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

// MockMetrics is a mock implementation of service.Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordKeyLookup(hit bool) {
	m.Called(hit)
}

func (m *MockMetrics) RecordKeyGeneration(success bool, duration time.Duration) {
	m.Called(success, duration)
}

func (m *MockMetrics) RecordDocumentServed(kind string) {
	m.Called(kind)
}

func (m *MockMetrics) RecordSignature(success bool) {
	m.Called(success)
}

func (m *MockMetrics) RecordDelivery(statusCode int, duration time.Duration) {
	m.Called(statusCode, duration)
}

// MockOperatorAuthenticator is a mock implementation of service.OperatorAuthenticator
type MockOperatorAuthenticator struct {
	mock.Mock
}

func (m *MockOperatorAuthenticator) VerifyOperatorToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

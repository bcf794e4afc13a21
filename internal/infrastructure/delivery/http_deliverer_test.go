package delivery

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/turtacn/fedicore/internal/config"
	fcrypto "github.com/turtacn/fedicore/internal/infrastructure/crypto"
	"github.com/turtacn/fedicore/internal/infrastructure/monitoring"
	"github.com/turtacn/fedicore/pkg/errors"
	"github.com/turtacn/fedicore/pkg/logger"
)

// localTargets lets the httptest inbox on 127.0.0.1 be reached.
func localTargets(cfg config.DeliveryConfig) config.DeliveryConfig {
	cfg.AllowPrivateTargets = true
	return cfg
}

func newTestDeliverer(cfg config.DeliveryConfig) *HTTPDeliverer {
	tracer := monitoring.NewTracingManagerWithProvider(noop.NewTracerProvider(), logger.NewNoopLogger())
	return NewHTTPDeliverer(cfg, tracer, logger.NewNoopLogger())
}

var signatureParams = regexp.MustCompile(`headers="([^"]+)",signature="([^"]+)"$`)

// verifyingInbox answers 202 when the request carries a valid signature over its body and
// 401 otherwise.
func verifyingInbox(t *testing.T, pub *rsa.PublicKey) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		if r.Header.Get("Digest") != fcrypto.Digest(body) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		m := signatureParams.FindStringSubmatch(r.Header.Get("Signature"))
		if m == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		headers := r.Header.Clone()
		headers.Set("Host", r.Host)
		signingString, err := fcrypto.SigningString(fcrypto.TargetOf(r), headers, strings.Fields(m[1]))
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		sig, _ := base64.StdEncoding.DecodeString(m[2])
		hashed := sha256.Sum256([]byte(signingString))
		if rsa.VerifyPKCS1v15(pub, crypto.SHA256, hashed[:], sig) != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "fedicore-test", r.Header.Get("User-Agent"))
		assert.Equal(t, int64(len(body)), r.ContentLength)
		w.WriteHeader(http.StatusAccepted)
	}
}

func TestHTTPDeliverer_DeliversSignedRequest(t *testing.T) {
	gen, err := fcrypto.NewRSAKeyGenerator(2048)
	require.NoError(t, err)
	publicDER, privateDER, err := gen.GenerateKeyPair()
	require.NoError(t, err)
	pub, err := fcrypto.ParsePublicKey(publicDER)
	require.NoError(t, err)

	server := httptest.NewServer(verifyingInbox(t, pub))
	defer server.Close()

	deliverer := newTestDeliverer(localTargets(config.DeliveryConfig{Timeout: 5 * time.Second, UserAgent: "fedicore-test"}))
	body := []byte(`{"type":"Create"}`)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/users/bob/inbox", nil)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	require.NoError(t, fcrypto.NewHTTPSigner().SignRequest(req, body, "https://example.com/users/alice#main-key", privateDER))

	status, err := deliverer.Deliver(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)
}

func TestHTTPDeliverer_PassesThroughRemoteStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("nope"))
	}))
	defer server.Close()

	deliverer := newTestDeliverer(localTargets(config.DeliveryConfig{}))
	req, err := http.NewRequest(http.MethodPost, server.URL, strings.NewReader("{}"))
	require.NoError(t, err)

	status, err := deliverer.Deliver(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestHTTPDeliverer_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	deliverer := newTestDeliverer(localTargets(config.DeliveryConfig{Timeout: time.Second}))
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader("{}"))
	require.NoError(t, err)

	status, err := deliverer.Deliver(context.Background(), req)
	assert.Equal(t, 0, status)
	require.Error(t, err)
	assert.Equal(t, errors.KindDeliveryFailed, errors.KindOf(err))
	assert.Equal(t, http.StatusBadGateway, errors.HTTPStatusOf(err))
}

func TestHTTPDeliverer_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	deliverer := newTestDeliverer(localTargets(config.DeliveryConfig{Timeout: 50 * time.Millisecond}))
	req, err := http.NewRequest(http.MethodPost, server.URL, strings.NewReader("{}"))
	require.NoError(t, err)

	_, err = deliverer.Deliver(context.Background(), req)
	assert.True(t, errors.IsKind(err, errors.KindDeliveryFailed))
}

func TestHTTPDeliverer_RejectsPrivateTargetsByDefault(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	deliverer := newTestDeliverer(config.DeliveryConfig{Timeout: time.Second})
	req, err := http.NewRequest(http.MethodPost, server.URL+"/inbox", strings.NewReader("{}"))
	require.NoError(t, err)

	status, err := deliverer.Deliver(context.Background(), req)
	assert.Equal(t, 0, status)
	require.Error(t, err)
	assert.Equal(t, errors.KindDeliveryFailed, errors.KindOf(err))
	assert.True(t, stderrors.Is(err, ErrPrivateTarget))
	assert.Zero(t, hits)
}

func TestIsNonPublicIP(t *testing.T) {
	tests := []struct {
		ip        string
		nonPublic bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"169.254.169.254", true},
		{"fe80::1", true},
		{"0.0.0.0", true},
		{"fd00::1", true},
		{"93.184.216.34", false},
		{"2606:2800:220:1:248:1893:25c8:1946", false},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.nonPublic, isNonPublicIP(net.ParseIP(tt.ip)))
		})
	}
}

func TestHTTPDeliverer_PropagatesTraceContext(t *testing.T) {
	var traceparent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	tracer := monitoring.NewTracingManagerWithProvider(sdktrace.NewTracerProvider(), logger.NewNoopLogger())
	deliverer := NewHTTPDeliverer(localTargets(config.DeliveryConfig{}), tracer, logger.NewNoopLogger())

	ctx, span := tracer.StartSpan(context.Background(), "submit")
	defer span.End()
	req, err := http.NewRequest(http.MethodPost, server.URL, strings.NewReader("{}"))
	require.NoError(t, err)

	_, err = deliverer.Deliver(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, traceparent)
	assert.Contains(t, traceparent, trace.SpanContextFromContext(ctx).TraceID().String())
}

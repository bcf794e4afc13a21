// Package delivery is the outbound transport for signed federation requests.
package delivery

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/propagation"

	"github.com/turtacn/fedicore/internal/config"
	"github.com/turtacn/fedicore/internal/domain/service"
	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/errors"
	"github.com/turtacn/fedicore/pkg/logger"
	"github.com/turtacn/fedicore/pkg/utils"
)

// maxDrainBytes bounds how much of a response body is read before closing it.
const maxDrainBytes = 64 << 10

// ErrPrivateTarget is the cause of a DeliveryFailed error when an inbox resolves to a
// loopback, private or link-local address and such targets are not allowed.
var ErrPrivateTarget = stderrors.New("inbox resolves to a non-public address")

var _ service.Deliverer = (*HTTPDeliverer)(nil)

// HTTPDeliverer POSTs signed requests to remote inboxes. It never retries.
type HTTPDeliverer struct {
	client    *http.Client
	userAgent string
	tracer    service.Tracer
	log       logger.Logger
}

// NewHTTPDeliverer creates a deliverer with the timeout, user agent and target policy of cfg.
func NewHTTPDeliverer(cfg config.DeliveryConfig, tracer service.Tracer, log logger.Logger) *HTTPDeliverer {
	return &HTTPDeliverer{
		client: &http.Client{
			Timeout:   utils.DefaultDuration(cfg.Timeout, constants.DefaultDeliveryTimeout),
			Transport: newTransport(cfg.AllowPrivateTargets),
		},
		userAgent: utils.DefaultString(cfg.UserAgent, constants.DefaultUserAgent),
		tracer:    tracer,
		log:       log.WithComponent("delivery"),
	}
}

func newTransport(allowPrivate bool) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if allowPrivate {
		return transport
	}
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   rejectPrivateAddress,
	}
	transport.DialContext = dialer.DialContext
	// The address check must see the inbox itself, not a proxy.
	transport.Proxy = nil
	return transport
}

// rejectPrivateAddress runs after name resolution, so it sees the address actually dialed.
func rejectPrivateAddress(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || isNonPublicIP(ip) {
		return fmt.Errorf("%w: %s", ErrPrivateTarget, host)
	}
	return nil
}

func isNonPublicIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified()
}

// Deliver sends req and returns the remote status code. Any status is passed through;
// only transport failures are errors.
func (d *HTTPDeliverer) Deliver(ctx context.Context, req *http.Request) (int, error) {
	req = req.WithContext(ctx)
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	d.tracer.InjectTraceContext(ctx, propagation.HeaderCarrier(req.Header))

	inbox := req.URL.String()
	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		appErr := errors.ErrDeliveryFailed(inbox, err)
		d.log.Error(ctx, "Delivery failed", appErr, logger.String("inbox", inbox))
		return 0, appErr
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	d.log.Info(ctx, "Delivered activity",
		logger.String("inbox", inbox),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)),
	)
	return resp.StatusCode, nil
}

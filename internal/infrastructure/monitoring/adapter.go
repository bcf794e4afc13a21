// Package monitoring provides the zap logger, Prometheus metrics and OpenTelemetry tracing of
// the node, and adapts them to the domain interfaces.
package monitoring

import (
	"time"

	"github.com/turtacn/fedicore/internal/domain/service"
)

// MetricsAdapter implements the domain's service.Metrics interface, sending metrics to a Prometheus backend.
// MetricsAdapter 实现了域的 service.Metrics 接口，将指标发送到 Prometheus 后端。
type MetricsAdapter struct {
	metrics *Metrics
}

// NewMetricsAdapter creates a new adapter that wraps a concrete Prometheus Metrics object,
// satisfying the domain's Metrics interface.
// NewMetricsAdapter 创建一个包装具体 Prometheus Metrics 对象的新适配器，
// 满足域的 Metrics 接口。
func NewMetricsAdapter(metrics *Metrics) service.Metrics {
	return &MetricsAdapter{metrics: metrics}
}

// RecordKeyLookup delegates the call to the underlying Prometheus Metrics object.
// RecordKeyLookup 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordKeyLookup(hit bool) {
	a.metrics.RecordKeyLookup(hit)
}

// RecordKeyGeneration delegates the call to the underlying Prometheus Metrics object.
// RecordKeyGeneration 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordKeyGeneration(success bool, duration time.Duration) {
	a.metrics.RecordKeyGeneration(success, duration)
}

// RecordDocumentServed delegates the call to the underlying Prometheus Metrics object.
// RecordDocumentServed 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordDocumentServed(kind string) {
	a.metrics.RecordDocumentServed(kind)
}

// RecordSignature delegates the call to the underlying Prometheus Metrics object.
// RecordSignature 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordSignature(success bool) {
	a.metrics.RecordSignature(success)
}

// RecordDelivery delegates the call to the underlying Prometheus Metrics object.
// RecordDelivery 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordDelivery(statusCode int, duration time.Duration) {
	a.metrics.RecordDelivery(statusCode, duration)
}

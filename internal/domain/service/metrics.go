package service

import (
	"time"
)

// Metrics defines the interface for collecting federation metrics.
// This abstraction allows the application layer to remain independent of the specific monitoring implementation (e.g., Prometheus).
// Metrics 定义了收集联邦指标的接口。
// 这种抽象使应用层能够独立于具体的监控实现（例如 Prometheus）。
type Metrics interface {
	// RecordKeyLookup records whether a key vault lookup was served from cache.
	// RecordKeyLookup 记录密钥库查询是否命中缓存。
	RecordKeyLookup(hit bool)

	// RecordKeyGeneration records the outcome and latency of minting a keypair.
	// RecordKeyGeneration 记录密钥对生成的结果与耗时。
	RecordKeyGeneration(success bool, duration time.Duration)

	// RecordDocumentServed records a rendered actor or webfinger document.
	// RecordDocumentServed 记录已渲染的 actor 或 webfinger 文档。
	RecordDocumentServed(kind string)

	// RecordSignature records an outbound signing attempt.
	// RecordSignature 记录一次出站签名尝试。
	RecordSignature(success bool)

	// RecordDelivery records the remote status (0 on transport failure) and latency of a delivery.
	// RecordDelivery 记录投递的远端状态码（传输失败时为 0）及耗时。
	RecordDelivery(statusCode int, duration time.Duration)
}

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) RecordKeyLookup(bool)                    {}
func (NoopMetrics) RecordKeyGeneration(bool, time.Duration) {}
func (NoopMetrics) RecordDocumentServed(string)             {}
func (NoopMetrics) RecordSignature(bool)                    {}
func (NoopMetrics) RecordDelivery(int, time.Duration)       {}

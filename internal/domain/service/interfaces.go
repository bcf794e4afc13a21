// Package service holds the pure document builders of the federation domain and the
// interfaces of the collaborators they are composed with.
package service

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// KeyGenerator mints asymmetric keypairs for new accounts.
// KeyGenerator 为新账户生成非对称密钥对。
//
//go:generate mockery --name KeyGenerator --output mocks --outpkg mocks
type KeyGenerator interface {
	// GenerateKeyPair returns the DER-encoded public (PKIX) and private (PKCS#1) halves.
	// GenerateKeyPair 返回 DER 编码的公钥（PKIX）和私钥（PKCS#1）。
	GenerateKeyPair() (publicDER, privateDER []byte, err error)
}

// RequestSigner attaches HTTP Signature headers to an outbound request.
// RequestSigner 为出站请求附加 HTTP 签名头。
//
//go:generate mockery --name RequestSigner --output mocks --outpkg mocks
type RequestSigner interface {
	// SignRequest sets Date, Digest and Signature on req over the exact body bytes and
	// installs body as the request payload. req is left untouched on failure.
	// SignRequest 基于确切的请求体字节设置 Date、Digest 和 Signature 头。
	SignRequest(req *http.Request, body []byte, keyID string, privateKeyDER []byte) error
}

// Deliverer is the outbound transport. It owns TLS and connection handling.
// Deliverer 是出站传输层，负责 TLS 与连接管理。
//
//go:generate mockery --name Deliverer --output mocks --outpkg mocks
type Deliverer interface {
	// Deliver sends a signed request and returns the remote status code.
	// Deliver 发送已签名的请求并返回远端状态码。
	Deliver(ctx context.Context, req *http.Request) (statusCode int, err error)
}

// Tracer opens spans and carries trace context across process boundaries.
// Tracer 负责创建 Span 并跨进程传递追踪上下文。
type Tracer interface {
	// StartSpan starts a span named spanName as a child of any span in ctx.
	// StartSpan 以 ctx 中的 Span 为父节点开始一个新的 Span。
	StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span)

	// RecordError marks the span in ctx as failed.
	// RecordError 将 ctx 中的 Span 标记为失败。
	RecordError(ctx context.Context, err error, attrs map[string]interface{})

	// InjectTraceContext writes the trace context of ctx into an outbound carrier.
	// InjectTraceContext 将 ctx 的追踪上下文写入出站载体。
	InjectTraceContext(ctx context.Context, carrier propagation.TextMapCarrier)

	// ExtractTraceContext continues a trace propagated by an inbound carrier.
	// ExtractTraceContext 从入站载体中恢复追踪上下文。
	ExtractTraceContext(ctx context.Context, carrier propagation.TextMapCarrier) context.Context
}

// OperatorAuthenticator verifies the bearer tokens of the submit-note API.
// OperatorAuthenticator 校验发帖接口的 Bearer 令牌。
//
//go:generate mockery --name OperatorAuthenticator --output mocks --outpkg mocks
type OperatorAuthenticator interface {
	// VerifyOperatorToken returns the local username the token was issued for.
	// VerifyOperatorToken 返回令牌绑定的本地用户名。
	VerifyOperatorToken(token string) (subject string, err error)
}

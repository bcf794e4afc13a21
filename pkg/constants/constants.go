// Package constants defines system-wide constants for the fedicore node.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// ActivityStreams Vocabulary
// ================================================================================

const (
	// ActivityStreamsContext is the JSON-LD context for the ActivityStreams vocabulary
	ActivityStreamsContext = "https://www.w3.org/ns/activitystreams"

	// SecurityContext is the JSON-LD context that defines publicKey / publicKeyPem
	SecurityContext = "https://w3id.org/security/v1"

	// PublicCollection addresses an object to everyone
	PublicCollection = "https://www.w3.org/ns/activitystreams#Public"

	// TypePerson is the actor type published for local accounts
	TypePerson = "Person"

	// TypeNote is the object type of outbound posts
	TypeNote = "Note"

	// TypeCreate is the activity type wrapping outbound posts
	TypeCreate = "Create"
)

// ================================================================================
// Path Segments and Fragments
// ================================================================================

const (
	// UsersPathSegment prefixes every local actor id
	UsersPathSegment = "users"

	// InboxPathSegment is appended to an actor id to form its inbox
	InboxPathSegment = "inbox"

	// NotesPathSegment is appended to an actor id to form note ids
	NotesPathSegment = "notes"

	// MainKeyFragment is appended to an actor id to form its key id
	MainKeyFragment = "main-key"

	// AcctScheme is the prefix of WebFinger account resources
	AcctScheme = "acct:"

	// WebFingerRelSelf is the link relation pointing at the actor document
	WebFingerRelSelf = "self"
)

// ================================================================================
// Media Types
// ================================================================================

const (
	// ContentTypeActivityJSON is the ActivityPub media type
	ContentTypeActivityJSON = "application/activity+json"

	// ContentTypeJRDJSON is the WebFinger (JSON Resource Descriptor) media type
	ContentTypeJRDJSON = "application/jrd+json"

	// ContentTypeJSON is the content type of outbound deliveries
	ContentTypeJSON = "application/json"
)

// ================================================================================
// HTTP Signatures
// ================================================================================

const (
	// HeaderDate is the Date header name
	HeaderDate = "Date"

	// HeaderDigest is the Digest header name
	HeaderDigest = "Digest"

	// HeaderSignature is the Signature header name
	HeaderSignature = "Signature"

	// HeaderHost is the Host header name
	HeaderHost = "Host"

	// HeaderContentType is the Content-Type header name
	HeaderContentType = "Content-Type"

	// HeaderRequestID is the header carrying the request correlation id
	HeaderRequestID = "X-Request-ID"

	// PseudoHeaderRequestTarget is the signing-string pseudo header for method + path
	PseudoHeaderRequestTarget = "(request-target)"

	// SignatureAlgorithmRSASHA256 is the only algorithm label emitted
	SignatureAlgorithmRSASHA256 = "rsa-sha256"

	// DigestAlgorithmSHA256 is the Digest header algorithm prefix
	DigestAlgorithmSHA256 = "SHA-256"

	// HTTPDateFormat is the fixed UTC form used for the Date header
	HTTPDateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// DefaultSignedHeaders is the ordered header list covered by outbound signatures.
var DefaultSignedHeaders = []string{
	PseudoHeaderRequestTarget,
	"host",
	"date",
	"digest",
}

// ================================================================================
// Key Material
// ================================================================================

const (
	// DefaultRSAKeyBits is the key size minted for new accounts
	DefaultRSAKeyBits = 4096

	// MinRSAKeyBits is the smallest key size the node accepts
	MinRSAKeyBits = 2048

	// PEMTypePublicKey is the PEM block type of SubjectPublicKeyInfo keys
	PEMTypePublicKey = "PUBLIC KEY"
)

// ================================================================================
// Input Limits
// ================================================================================

const (
	// MaxUsernameLength bounds local usernames
	MaxUsernameLength = 64

	// MaxNoteIDLength bounds caller-supplied note ids
	MaxNoteIDLength = 128

	// MaxNoteBodyBytes bounds the submit-note request body
	MaxNoteBodyBytes = 1 << 20
)

// ================================================================================
// Operator Tokens
// ================================================================================

const (
	// MinOperatorSecretBytes is the shortest accepted HMAC key for operator tokens
	MinOperatorSecretBytes = 32

	// DefaultOperatorTokenTTL is the lifetime of tokens minted by the CLI
	DefaultOperatorTokenTTL = time.Hour

	// BearerScheme prefixes the Authorization header value
	BearerScheme = "Bearer"
)

// ================================================================================
// Server Defaults
// ================================================================================

const (
	// DefaultHTTPPort is the default listen port
	DefaultHTTPPort = 8080

	// DefaultReadTimeout is the default HTTP server read timeout
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout is the default HTTP server write timeout
	DefaultWriteTimeout = 30 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultDeliveryTimeout bounds a single outbound delivery
	DefaultDeliveryTimeout = 10 * time.Second

	// DefaultUserAgent identifies outbound deliveries
	DefaultUserAgent = "fedicore/0.1"

	// ServiceName labels traces and metrics
	ServiceName = "fedicore"
)

// ================================================================================
// Logging
// ================================================================================

// LogLevel represents the severity of a log entry
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey is the type for values stored in request contexts
type ContextKey string

const (
	// ContextKeyRequestID holds the request correlation id
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyUsername holds the local account a request acts on
	ContextKeyUsername ContextKey = "username"
)

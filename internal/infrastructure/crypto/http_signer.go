package crypto

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/errors"
)

// RequestTarget is the method and path (with optional query) a signature binds.
type RequestTarget struct {
	Method string
	Path   string
}

// String renders the (request-target) value: lowercase method, space, path[?query].
func (t RequestTarget) String() string {
	return strings.ToLower(t.Method) + " " + t.Path
}

// TargetOf derives the request target of req.
func TargetOf(req *http.Request) RequestTarget {
	return RequestTarget{Method: req.Method, Path: req.URL.RequestURI()}
}

// Digest returns the Digest header value of body: "SHA-256=" + base64(sha256(body)).
func Digest(body []byte) string {
	sum := sha256.Sum256(body)
	return constants.DigestAlgorithmSHA256 + "=" + base64.StdEncoding.EncodeToString(sum[:])
}

// FormatDate renders t in the fixed UTC HTTP date form.
func FormatDate(t time.Time) string {
	return t.UTC().Format(constants.HTTPDateFormat)
}

// SigningString builds the canonical string covered by a signature: one "name: value"
// line per header in names, joined by "\n". Header names are lowercased; headers must
// carry every named header except (request-target).
func SigningString(target RequestTarget, headers http.Header, names []string) (string, error) {
	lines := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(name)
		if name == constants.PseudoHeaderRequestTarget {
			lines = append(lines, name+": "+target.String())
			continue
		}
		values := headers.Values(name)
		if len(values) == 0 {
			return "", fmt.Errorf("header %q is not present", name)
		}
		lines = append(lines, name+": "+strings.Join(values, ", "))
	}
	return strings.Join(lines, "\n"), nil
}

// HTTPSigner produces draft-cavage HTTP Signatures with rsa-sha256.
type HTTPSigner struct {
	headers []string
	now     func() time.Time
}

// SignerOption customizes an HTTPSigner.
type SignerOption func(*HTTPSigner)

// WithSignedHeaders replaces the ordered list of covered headers.
func WithSignedHeaders(names ...string) SignerOption {
	return func(s *HTTPSigner) {
		s.headers = append([]string(nil), names...)
	}
}

// NewHTTPSigner creates a signer covering constants.DefaultSignedHeaders.
func NewHTTPSigner(opts ...SignerOption) *HTTPSigner {
	s := &HTTPSigner{
		headers: append([]string(nil), constants.DefaultSignedHeaders...),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignedHeaders lists the covered header names in signing order.
func (s *HTTPSigner) SignedHeaders() []string {
	return append([]string(nil), s.headers...)
}

// Sign computes the Digest of body into headers, then signs the canonical string over
// the configured header list and returns the Signature header value.
// headers must already carry every covered header other than digest and (request-target).
func (s *HTTPSigner) Sign(target RequestTarget, headers http.Header, body []byte, keyID string, privateKeyDER []byte) (string, error) {
	if headers == nil {
		return "", errors.ErrSigningFailed(keyID, fmt.Errorf("no headers to sign"))
	}

	privateKey, err := ParsePrivateKey(privateKeyDER)
	if err != nil {
		return "", errors.ErrSigningFailed(keyID, err)
	}

	headers.Set(constants.HeaderDigest, Digest(body))

	signingString, err := SigningString(target, headers, s.headers)
	if err != nil {
		return "", errors.ErrSigningFailed(keyID, err)
	}

	hashed := sha256.Sum256([]byte(signingString))
	signature, err := rsa.SignPKCS1v15(rand.Reader, privateKey, crypto.SHA256, hashed[:])
	if err != nil {
		return "", errors.ErrSigningFailed(keyID, err)
	}

	return fmt.Sprintf(`keyId="%s",algorithm="%s",headers="%s",signature="%s"`,
		keyID,
		constants.SignatureAlgorithmRSASHA256,
		strings.ToLower(strings.Join(s.headers, " ")),
		base64.StdEncoding.EncodeToString(signature),
	), nil
}

// SignRequest attaches Host, Date, Digest and Signature headers to req and installs body
// as its exact payload. Nothing is modified when signing fails.
func (s *HTTPSigner) SignRequest(req *http.Request, body []byte, keyID string, privateKeyDER []byte) error {
	headers := req.Header.Clone()
	if headers == nil {
		headers = make(http.Header)
	}

	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	headers.Set(constants.HeaderHost, host)
	if headers.Get(constants.HeaderDate) == "" {
		headers.Set(constants.HeaderDate, FormatDate(s.now()))
	}

	signature, err := s.Sign(TargetOf(req), headers, body, keyID, privateKeyDER)
	if err != nil {
		return err
	}
	headers.Set(constants.HeaderSignature, signature)

	// net/http sends req.Host; a Host entry in the header map is ignored on the wire.
	headers.Del(constants.HeaderHost)
	req.Host = host
	req.Header = headers

	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	return nil
}

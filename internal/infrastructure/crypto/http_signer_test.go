package crypto

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/fedicore/pkg/errors"
)

const testKeyID = "https://example.com/users/alice#main-key"

var signatureHeaderPattern = regexp.MustCompile(`^keyId="([^"]+)",algorithm="rsa-sha256",headers="([^"]+)",signature="([^"]+)"$`)

var fixedNow = time.Date(2018, time.June, 23, 17, 17, 11, 0, time.FixedZone("CEST", 2*60*60))

func testKeyPair(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()
	gen, err := NewRSAKeyGenerator(2048)
	require.NoError(t, err)
	_, privateDER, err := gen.GenerateKeyPair()
	require.NoError(t, err)
	priv, err := ParsePrivateKey(privateDER)
	require.NoError(t, err)
	return priv, privateDER
}

// verify re-derives the signing string from the request as received and checks the
// signature against pub.
func verify(t *testing.T, req *http.Request, body []byte, pub *rsa.PublicKey) error {
	t.Helper()
	m := signatureHeaderPattern.FindStringSubmatch(req.Header.Get("Signature"))
	require.Len(t, m, 4)

	headers := req.Header.Clone()
	headers.Set("Host", req.Host)
	headers.Set("Digest", Digest(body))

	signingString, err := SigningString(TargetOf(req), headers, strings.Fields(m[2]))
	require.NoError(t, err)

	sig, err := base64.StdEncoding.DecodeString(m[3])
	require.NoError(t, err)
	hashed := sha256.Sum256([]byte(signingString))
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, hashed[:], sig)
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "SHA-256=47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=", Digest(nil))
	assert.Equal(t, Digest([]byte(`{"a":1}`)), Digest([]byte(`{"a":1}`)))
	assert.NotEqual(t, Digest([]byte(`{"a":1}`)), Digest([]byte(`{"a":2}`)))
}

func TestFormatDate_AlwaysUTC(t *testing.T) {
	assert.Equal(t, "Sat, 23 Jun 2018 15:17:11 GMT", FormatDate(fixedNow))
}

func TestSigningString(t *testing.T) {
	headers := http.Header{}
	headers.Set("Host", "remote.example")
	headers.Set("Date", "Sat, 23 Jun 2018 15:17:11 GMT")
	headers.Set("Digest", "SHA-256=abc")

	got, err := SigningString(
		RequestTarget{Method: "POST", Path: "/users/bob/inbox?x=1"},
		headers,
		[]string{"(request-target)", "host", "date", "digest"},
	)
	require.NoError(t, err)
	assert.Equal(t,
		"(request-target): post /users/bob/inbox?x=1\n"+
			"host: remote.example\n"+
			"date: Sat, 23 Jun 2018 15:17:11 GMT\n"+
			"digest: SHA-256=abc",
		got)

	_, err = SigningString(RequestTarget{Method: "POST", Path: "/"}, http.Header{}, []string{"date"})
	assert.Error(t, err)
}

func TestHTTPSigner_SignRequest(t *testing.T) {
	priv, privateDER := testKeyPair(t)
	signer := NewHTTPSigner()
	signer.now = func() time.Time { return fixedNow }
	body := []byte(`{"type":"Create"}`)

	req, err := http.NewRequest(http.MethodPost, "https://remote.example/users/bob/inbox", nil)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	require.NoError(t, signer.SignRequest(req, body, testKeyID, privateDER))

	assert.Equal(t, "Sat, 23 Jun 2018 15:17:11 GMT", req.Header.Get("Date"))
	assert.Equal(t, Digest(body), req.Header.Get("Digest"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "remote.example", req.Host)
	assert.Equal(t, int64(len(body)), req.ContentLength)

	m := signatureHeaderPattern.FindStringSubmatch(req.Header.Get("Signature"))
	require.Len(t, m, 4)
	assert.Equal(t, testKeyID, m[1])
	assert.Equal(t, "(request-target) host date digest", m[2])

	sent, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, sent)

	assert.NoError(t, verify(t, req, body, &priv.PublicKey))
}

func TestHTTPSigner_DigestStableAcrossSignatures(t *testing.T) {
	_, privateDER := testKeyPair(t)
	signer := NewHTTPSigner()
	body := []byte(`{"content":"same"}`)

	first, _ := http.NewRequest(http.MethodPost, "https://remote.example/inbox", nil)
	second, _ := http.NewRequest(http.MethodPost, "https://remote.example/inbox", nil)
	require.NoError(t, signer.SignRequest(first, body, testKeyID, privateDER))
	require.NoError(t, signer.SignRequest(second, body, testKeyID, privateDER))

	assert.Equal(t, first.Header.Get("Digest"), second.Header.Get("Digest"))
}

func TestHTTPSigner_MutatedBodyFailsVerification(t *testing.T) {
	priv, privateDER := testKeyPair(t)
	signer := NewHTTPSigner()
	body := []byte(`{"content":"original"}`)

	req, _ := http.NewRequest(http.MethodPost, "https://remote.example/inbox", nil)
	require.NoError(t, signer.SignRequest(req, body, testKeyID, privateDER))
	require.NoError(t, verify(t, req, body, &priv.PublicKey))

	tampered := []byte(`{"content":"tampered"}`)
	assert.Error(t, verify(t, req, tampered, &priv.PublicKey))
}

func TestHTTPSigner_InvalidKey(t *testing.T) {
	signer := NewHTTPSigner()
	req, _ := http.NewRequest(http.MethodPost, "https://remote.example/inbox", nil)

	err := signer.SignRequest(req, []byte("{}"), testKeyID, []byte("garbage"))
	require.Error(t, err)
	assert.Equal(t, errors.KindSigningFailed, errors.KindOf(err))
	assert.Empty(t, req.Header.Get("Signature"))
	assert.Empty(t, req.Header.Get("Digest"))
	assert.Nil(t, req.Body)
}

func TestHTTPSigner_MissingCoveredHeader(t *testing.T) {
	_, privateDER := testKeyPair(t)
	signer := NewHTTPSigner(WithSignedHeaders("(request-target)", "host", "date", "digest", "content-type"))

	req, _ := http.NewRequest(http.MethodPost, "https://remote.example/inbox", nil)
	err := signer.SignRequest(req, []byte("{}"), testKeyID, privateDER)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindSigningFailed))

	req.Header.Set("Content-Type", "application/json")
	require.NoError(t, signer.SignRequest(req, []byte("{}"), testKeyID, privateDER))
	assert.Contains(t, req.Header.Get("Signature"), `headers="(request-target) host date digest content-type"`)
}

func TestHTTPSigner_NilHeaders(t *testing.T) {
	_, privateDER := testKeyPair(t)
	signer := NewHTTPSigner()

	var signature string
	var err error
	require.NotPanics(t, func() {
		signature, err = signer.Sign(RequestTarget{Method: http.MethodPost, Path: "/inbox"}, nil, []byte("{}"), testKeyID, privateDER)
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindSigningFailed, errors.KindOf(err))
	assert.Empty(t, signature)
}

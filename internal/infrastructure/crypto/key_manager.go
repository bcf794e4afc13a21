// Package crypto provides RSA key generation and the DER/PEM conversions used to
// publish actor keys and to sign outbound requests.
package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/turtacn/fedicore/pkg/constants"
)

// RSAKeyGenerator mints RSA keypairs of a fixed modulus size.
type RSAKeyGenerator struct {
	bits int
}

// NewRSAKeyGenerator creates a generator for bits-sized keys.
//
// Parameters:
//   - bits: Modulus size; must be at least constants.MinRSAKeyBits
//
// Returns:
//   - *RSAKeyGenerator: Initialized generator
//   - error: When bits is too small
func NewRSAKeyGenerator(bits int) (*RSAKeyGenerator, error) {
	if bits < constants.MinRSAKeyBits {
		return nil, fmt.Errorf("rsa key size %d below minimum %d", bits, constants.MinRSAKeyBits)
	}
	return &RSAKeyGenerator{bits: bits}, nil
}

// GenerateKeyPair generates an RSA keypair and returns both halves DER-encoded: the public
// key as PKIX SubjectPublicKeyInfo, the private key as PKCS#1.
func (g *RSAKeyGenerator) GenerateKeyPair() (publicDER, privateDER []byte, err error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, g.bits)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}

	publicDER, err = x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	return publicDER, x509.MarshalPKCS1PrivateKey(privateKey), nil
}

// PublicKeyPEM converts a DER SubjectPublicKeyInfo RSA key to PEM text.
func PublicKeyPEM(publicDER []byte) (string, error) {
	pub, err := ParsePublicKey(publicDER)
	if err != nil {
		return "", err
	}

	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}

	return string(pem.EncodeToMemory(&pem.Block{
		Type:  constants.PEMTypePublicKey,
		Bytes: der,
	})), nil
}

// ParsePublicKey parses a DER SubjectPublicKeyInfo key and requires it to be RSA.
func ParsePublicKey(publicDER []byte) (*rsa.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(publicDER)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unsupported public key type %T", pub)
	}
	return rsaPub, nil
}

// ParsePrivateKey parses a DER RSA private key. PKCS#1 is expected; PKCS#8 is accepted.
func ParsePrivateKey(privateDER []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(privateDER); err == nil {
		return key, nil
	}

	key, err := x509.ParsePKCS8PrivateKey(privateDER)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unsupported private key type %T", key)
	}
	return rsaKey, nil
}

package models

// User is a local account and its signing keypair.
// A User is created on first lookup and never changes afterwards; callers must treat the
// key slices as read-only.
type User struct {
	// Username is the unique, immutable account name.
	Username string
	// PublicKey is the DER-encoded SubjectPublicKeyInfo (PKIX) public key.
	PublicKey []byte
	// PrivateKey is the DER-encoded PKCS#1 RSA private key.
	PrivateKey []byte
}

package xray

import "io"

// Encryptor protects artifacts at rest. Encryption needs no user input;
// decryption may need a passphrase to unlock a private key, producing a
// DecryptionContext for the rest of the session.
type Encryptor interface {
	// Setup performs one-time key generation, protected by passphrase.
	Setup(passphrase string) error

	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock returns a DecryptionContext. Returns an error if the
	// passphrase is incorrect.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured reports whether Encrypt and Unlock can be used.
	IsConfigured() bool

	// RequiresPassphrase reports whether Unlock needs a non-empty passphrase.
	RequiresPassphrase() bool
}

// DecryptionContext decrypts artifacts for the duration of a session.
type DecryptionContext interface {
	// Decrypt reads ciphertext from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}

package encryption

import (
	"bytes"
	"fmt"
	"io"

	"dirxray/internal/xray"
)

// testHeader marks artifacts written by TestEncryptor.
var testHeader = []byte("XRAYENC\x00")

// TestEncryptor is a deterministic stand-in for age in tests. Sealed
// artifacts carry an 8-byte header, so code that forgets to decrypt fails
// to decode them, yet no keys or passphrase are involved.
type TestEncryptor struct {
	setupCalled bool
}

var _ xray.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a new TestEncryptor.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(string) error {
	e.setupCalled = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testHeader); err != nil {
		return fmt.Errorf("writing test header: %w", err)
	}
	return copyThrough(r, w)
}

func (e *TestEncryptor) Unlock(string) (xray.DecryptionContext, error) {
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool       { return true }
func (e *TestEncryptor) RequiresPassphrase() bool { return false }

// TestDecryptionContext strips the header added by TestEncryptor.
type TestDecryptionContext struct{}

var _ xray.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading test header: %w", err)
	}
	if !bytes.Equal(header, testHeader) {
		return fmt.Errorf("invalid test encryption header")
	}
	return copyThrough(r, w)
}

package encryption

import (
	"fmt"
	"io"

	"dirxray/internal/xray"
)

// PlainEncryptor stores artifacts unencrypted. It is the default, matching
// the readable artifacts of earlier versions.
type PlainEncryptor struct{}

var _ xray.Encryptor = PlainEncryptor{}

func (PlainEncryptor) Setup(string) error {
	return fmt.Errorf("encryption type is none; set [encryption] type = \"age\" first")
}

func (PlainEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	return copyThrough(r, w)
}

func (PlainEncryptor) Unlock(string) (xray.DecryptionContext, error) {
	return plainContext{}, nil
}

func (PlainEncryptor) IsConfigured() bool       { return true }
func (PlainEncryptor) RequiresPassphrase() bool { return false }

type plainContext struct{}

func (plainContext) Decrypt(r io.Reader, w io.Writer) error {
	return copyThrough(r, w)
}

func copyThrough(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying artifact: %w", err)
	}
	return nil
}

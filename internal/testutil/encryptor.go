package testutil

import (
	"dirxray/internal/encryption"
	"dirxray/internal/xray"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() xray.Encryptor {
	return encryption.NewTestEncryptor()
}

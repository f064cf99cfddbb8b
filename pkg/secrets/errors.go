package secrets

import "errors"

var (
	// Key errors
	ErrInvalidKey         = errors.New("invalid encryption key: must be 32 bytes")
	ErrInvalidKeyEncoding = errors.New("invalid encryption key: must be base64-encoded")

	// Operation errors
	ErrEncryptionFailed  = errors.New("encryption failed")
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
)

// Package secrets protects sensitive values at rest, primarily the TOTP
// seed stored on a user's credential record.
//
// A Codec is constructed once at startup from a 32-byte process key and
// encrypts with AES-256 in GCM mode. The random nonce is prepended to the
// ciphertext so the stored blob is self-contained: decryption needs nothing
// beyond the key. Tampered or foreign ciphertext fails with
// ErrDecryptionFailed rather than yielding corrupted plaintext.
//
// # Usage
//
//	key, _ := secrets.KeyFromBase64(cfg.EncryptionKey)
//	codec, _ := secrets.New(key)
//
//	blob, _ := codec.EncryptString(seed)
//	seed, err := codec.DecryptString(blob)
package secrets

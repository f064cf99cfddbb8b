package secrets_test

import (
	"encoding/base64"
	"testing"

	"github.com/authly/authly/pkg/secrets"

	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T) *secrets.Codec {
	t.Helper()
	key, err := secrets.GenerateKey()
	require.NoError(t, err)
	codec, err := secrets.New(key)
	require.NoError(t, err)
	return codec
}

func TestEncryptDecryptString(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"empty string", ""},
		{"totp seed", "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"},
		{"unicode", "Hello 世界 🌍"},
		{"long text", "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ciphertext, err := codec.EncryptString(tt.plaintext)
			require.NoError(t, err)

			if tt.plaintext != "" {
				require.NotEqual(t, tt.plaintext, ciphertext)
			}

			decrypted, err := codec.DecryptString(ciphertext)
			require.NoError(t, err)
			require.Equal(t, tt.plaintext, decrypted)
		})
	}
}

func TestNonceUniqueness(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	first, err := codec.EncryptString("same plaintext")
	require.NoError(t, err)
	second, err := codec.EncryptString("same plaintext")
	require.NoError(t, err)

	// A fresh nonce per call means identical plaintexts never share ciphertext.
	require.NotEqual(t, first, second)
}

func TestDecryptWrongKey(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)
	other := newCodec(t)

	ciphertext, err := codec.EncryptString("secret value")
	require.NoError(t, err)

	_, err = other.DecryptString(ciphertext)
	require.ErrorIs(t, err, secrets.ErrDecryptionFailed)
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	ciphertext, err := codec.EncryptString("secret value")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = codec.DecryptString(tampered)
	require.ErrorIs(t, err, secrets.ErrDecryptionFailed)
}

func TestDecryptMalformedInput(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	t.Run("not base64", func(t *testing.T) {
		t.Parallel()
		_, err := codec.DecryptString("not-valid-base64!!!")
		require.ErrorIs(t, err, secrets.ErrInvalidCiphertext)
	})

	t.Run("too short for nonce", func(t *testing.T) {
		t.Parallel()
		_, err := codec.DecryptString(base64.StdEncoding.EncodeToString([]byte{1, 2, 3}))
		require.ErrorIs(t, err, secrets.ErrInvalidCiphertext)
	})
}

func TestNewRejectsBadKey(t *testing.T) {
	t.Parallel()
	_, err := secrets.New([]byte("too short"))
	require.ErrorIs(t, err, secrets.ErrInvalidKey)
}

func TestKeyFromBase64(t *testing.T) {
	t.Parallel()

	key, err := secrets.GenerateKey()
	require.NoError(t, err)

	decoded, err := secrets.KeyFromBase64(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	require.Equal(t, key, decoded)

	_, err = secrets.KeyFromBase64("%%%")
	require.ErrorIs(t, err, secrets.ErrInvalidKeyEncoding)

	_, err = secrets.KeyFromBase64(base64.StdEncoding.EncodeToString([]byte("short")))
	require.ErrorIs(t, err, secrets.ErrInvalidKey)
}

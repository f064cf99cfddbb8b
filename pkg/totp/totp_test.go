package totp_test

import (
	"testing"
	"time"

	"github.com/authly/authly/pkg/totp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecretKey(t *testing.T) {
	t.Parallel()
	secret, err := totp.GenerateSecretKey()
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.Regexp(t, totp.ValidateSecretKeyRegex, secret)

	// 160 bits of entropy -> 32 Base32 characters without padding.
	assert.Len(t, secret, 32)
}

func TestProvisioningURI(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		params  totp.Params
		want    string
		wantErr error
	}{
		{
			name: "basic URI",
			params: totp.Params{
				Secret:      "ABCDEFGHIJKLMNOP",
				AccountName: "user@example.com",
				Issuer:      "Authly",
			},
			want: "otpauth://totp/Authly:user@example.com?algorithm=SHA1&digits=6&issuer=Authly&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name: "issuer with spaces",
			params: totp.Params{
				Secret:      "ABCDEFGHIJKLMNOP",
				AccountName: "user+tag@example.com",
				Issuer:      "Authly Cloud",
			},
			want: "otpauth://totp/Authly%20Cloud:user+tag@example.com?algorithm=SHA1&digits=6&issuer=Authly+Cloud&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name:    "missing secret",
			params:  totp.Params{AccountName: "user@example.com", Issuer: "Authly"},
			wantErr: totp.ErrMissingSecret,
		},
		{
			name:    "invalid secret",
			params:  totp.Params{Secret: "not-base32!", AccountName: "user@example.com", Issuer: "Authly"},
			wantErr: totp.ErrInvalidSecret,
		},
		{
			name:    "missing account name",
			params:  totp.Params{Secret: "ABCDEFGHIJKLMNOP", Issuer: "Authly"},
			wantErr: totp.ErrMissingAccountName,
		},
		{
			name:    "missing issuer",
			params:  totp.Params{Secret: "ABCDEFGHIJKLMNOP", AccountName: "user@example.com"},
			wantErr: totp.ErrMissingIssuer,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := totp.ProvisioningURI(tt.params)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateAt(t *testing.T) {
	t.Parallel()

	secret, err := totp.GenerateSecretKey()
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)

	t.Run("current window code is valid", func(t *testing.T) {
		t.Parallel()
		code, err := totp.GenerateCodeAt(secret, now)
		require.NoError(t, err)

		ok, err := totp.ValidateAt(secret, code, now, 1)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("adjacent windows are valid with skew 1", func(t *testing.T) {
		t.Parallel()
		for _, offset := range []time.Duration{-30 * time.Second, 30 * time.Second} {
			code, err := totp.GenerateCodeAt(secret, now.Add(offset))
			require.NoError(t, err)

			ok, err := totp.ValidateAt(secret, code, now, 1)
			require.NoError(t, err)
			assert.True(t, ok, "offset %s", offset)
		}
	})

	t.Run("codes beyond the skew window are rejected", func(t *testing.T) {
		t.Parallel()
		for _, offset := range []time.Duration{-90 * time.Second, 90 * time.Second} {
			code, err := totp.GenerateCodeAt(secret, now.Add(offset))
			require.NoError(t, err)

			ok, err := totp.ValidateAt(secret, code, now, 1)
			require.NoError(t, err)
			assert.False(t, ok, "offset %s", offset)
		}
	})

	t.Run("malformed candidate fails without error", func(t *testing.T) {
		t.Parallel()
		for _, candidate := range []string{"", "abc", "12345", "1234567", "12a456"} {
			ok, err := totp.ValidateAt(secret, candidate, now, 1)
			require.NoError(t, err)
			assert.False(t, ok, "candidate %q", candidate)
		}
	})

	t.Run("invalid secret is an error", func(t *testing.T) {
		t.Parallel()
		_, err := totp.ValidateAt("not-base32!", "123456", now, 1)
		require.ErrorIs(t, err, totp.ErrInvalidSecret)
	})

	t.Run("wrong code is rejected", func(t *testing.T) {
		t.Parallel()
		code, err := totp.GenerateCodeAt(secret, now)
		require.NoError(t, err)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		ok, err := totp.ValidateAt(secret, wrong, now, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestGenerateCodeAtIsDeterministic(t *testing.T) {
	t.Parallel()

	secret, err := totp.GenerateSecretKey()
	require.NoError(t, err)

	at := time.Unix(1700000015, 0)
	first, err := totp.GenerateCodeAt(secret, at)
	require.NoError(t, err)
	second, err := totp.GenerateCodeAt(secret, at.Add(10*time.Second)) // same 30s window
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, totp.DefaultDigits)
}

func TestGenerateHOTPKnownVectors(t *testing.T) {
	t.Parallel()

	// RFC 4226 appendix D test vectors for the ASCII key "12345678901234567890".
	key := []byte("12345678901234567890")
	want := []int{755224, 287082, 359152, 969429, 338314, 254676, 287922, 162583, 399871, 520489}

	for counter, expected := range want {
		assert.Equal(t, expected, totp.GenerateHOTP(key, int64(counter), 6), "counter %d", counter)
	}
}

package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/authly/authly/pkg/email"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  email.SendEmailParams
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid params",
			params: email.SendEmailParams{
				SendTo:   "user@example.com",
				Subject:  "Your sign-in code",
				BodyHTML: "<p>123456</p>",
				Tag:      "email-otp",
			},
			wantErr: false,
		},
		{
			name: "valid params without tag",
			params: email.SendEmailParams{
				SendTo:   "user@example.com",
				Subject:  "Your sign-in code",
				BodyHTML: "<p>123456</p>",
			},
			wantErr: false,
		},
		{
			name: "empty SendTo",
			params: email.SendEmailParams{
				Subject:  "Your sign-in code",
				BodyHTML: "<p>123456</p>",
			},
			wantErr: true,
			errMsg:  "SendTo is required",
		},
		{
			name: "invalid email format",
			params: email.SendEmailParams{
				SendTo:   "invalid-email",
				Subject:  "Your sign-in code",
				BodyHTML: "<p>123456</p>",
			},
			wantErr: true,
			errMsg:  "SendTo must be a valid email address",
		},
		{
			name: "empty subject",
			params: email.SendEmailParams{
				SendTo:   "user@example.com",
				BodyHTML: "<p>123456</p>",
			},
			wantErr: true,
			errMsg:  "Subject is required",
		},
		{
			name: "empty body",
			params: email.SendEmailParams{
				SendTo:  "user@example.com",
				Subject: "Your sign-in code",
			},
			wantErr: true,
			errMsg:  "BodyHTML is required",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.params.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, email.ErrInvalidParams)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewPostmarkClientConfigValidation(t *testing.T) {
	t.Parallel()

	valid := email.Config{
		PostmarkServerToken:  "server",
		PostmarkAccountToken: "account",
		SenderEmail:          "noreply@example.com",
		SupportEmail:         "support@example.com",
	}

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		client, err := email.NewPostmarkClient(valid)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("missing tokens", func(t *testing.T) {
		t.Parallel()
		cfg := valid
		cfg.PostmarkServerToken = ""
		_, err := email.NewPostmarkClient(cfg)
		require.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("invalid sender email", func(t *testing.T) {
		t.Parallel()
		cfg := valid
		cfg.SenderEmail = "not-an-email"
		_, err := email.NewPostmarkClient(cfg)
		require.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}

func TestDevSenderWritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(dir)

	err := sender.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Your sign-in code",
		BodyHTML: "<p>654321</p>",
		Tag:      "email-otp",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var htmlFile, jsonFile string
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".html":
			htmlFile = filepath.Join(dir, e.Name())
		case ".json":
			jsonFile = filepath.Join(dir, e.Name())
		}
	}
	require.NotEmpty(t, htmlFile)
	require.NotEmpty(t, jsonFile)

	body, err := os.ReadFile(htmlFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "654321"))

	meta, err := os.ReadFile(jsonFile)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(meta, &parsed))
	assert.Equal(t, "user@example.com", parsed["send_to"])
	assert.Equal(t, "email-otp", parsed["tag"])
}

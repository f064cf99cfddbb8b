package credential

import (
	"time"

	"github.com/google/uuid"
)

// Method identifies the active multi-factor authentication method.
type Method string

const (
	MethodNone  Method = "none"
	MethodTOTP  Method = "totp"
	MethodEmail Method = "email"
)

// Valid reports whether the method is one a user can enable.
func (m Method) Valid() bool {
	return m == MethodTOTP || m == MethodEmail
}

// User is the credential record the state machine operates on.
// MFAEnabled=true implies MFAMethod is totp or email, and for totp both
// TOTPSecretEnc and TOTPConfirmedAt are set.
type User struct {
	ID                uuid.UUID
	Email             string
	Username          string
	PasswordHash      []byte
	PasswordChangedAt time.Time
	MFAEnabled        bool
	MFAMethod         Method
	TOTPSecretEnc     string // encrypted seed, empty when absent
	TOTPConfirmedAt   *time.Time
}

// EmailOTP is a live email one-time code record. At most one exists per
// user; issuing a new code replaces it.
type EmailOTP struct {
	UserID    uuid.UUID
	CodeHash  string
	ExpiresAt time.Time
}

// BackupCode is a stored single-use recovery code.
type BackupCode struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	CodeHash string
}

// TOTPSetup is returned by BeginTOTP so the pending secret can be presented
// to the user exactly once alongside its QR code.
type TOTPSetup struct {
	Secret string
	URI    string
	QRCode string // data-URI PNG for direct embedding
}

// Overview is the read model for the security settings page.
type Overview struct {
	Enabled     bool
	Method      Method
	PendingTOTP *TOTPSetup // set while a TOTP secret awaits confirmation
}

package credential

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence boundary of the credential core. The Service is
// the only writer of MFA state; the store just executes its statements.
type Store interface {
	// GetUser returns the credential record without locking, for read models.
	GetUser(ctx context.Context, userID uuid.UUID) (*User, error)

	// InUserTx runs fn inside a single database transaction with the user's
	// credential row locked for its duration. Returning an error rolls the
	// whole transaction back. Concurrent transitions for the same user
	// serialize on the row lock.
	InUserTx(ctx context.Context, userID uuid.UUID, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the transactional view handed to a transition. All mutations of
// credential and MFA state go through it.
type Tx interface {
	// GetUserForUpdate returns the locked credential row.
	GetUserForUpdate(ctx context.Context, userID uuid.UUID) (*User, error)

	UpdatePassword(ctx context.Context, userID uuid.UUID, hash []byte, changedAt time.Time) error

	// UpdateMFA overwrites the mfa_* fields of the credential row.
	UpdateMFA(ctx context.Context, userID uuid.UUID, params UpdateMFAParams) error

	// ReplaceEmailOTP atomically swaps any live code for the user with the new one.
	ReplaceEmailOTP(ctx context.Context, userID uuid.UUID, codeHash string, expiresAt time.Time) error
	// GetEmailOTP returns nil without error when no record exists.
	GetEmailOTP(ctx context.Context, userID uuid.UUID) (*EmailOTP, error)
	DeleteEmailOTP(ctx context.Context, userID uuid.UUID) error

	// ReplaceBackupCodes deletes all stored codes for the user and inserts the new hashes.
	ReplaceBackupCodes(ctx context.Context, userID uuid.UUID, codeHashes []string) error
	ListBackupCodes(ctx context.Context, userID uuid.UUID) ([]BackupCode, error)
	DeleteBackupCode(ctx context.Context, id uuid.UUID) error
	DeleteBackupCodes(ctx context.Context, userID uuid.UUID) error

	DeleteTrustedDevices(ctx context.Context, userID uuid.UUID) error
}

// UpdateMFAParams carries the full target state of the mfa_* columns.
// Transitions always write the complete set so the row never holds a mix of
// old and new state.
type UpdateMFAParams struct {
	Enabled         bool
	Method          Method
	TOTPSecretEnc   string
	TOTPConfirmedAt *time.Time
}

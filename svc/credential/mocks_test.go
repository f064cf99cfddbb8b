package credential

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/authly/authly/pkg/email"
)

// memStore is an in-memory Store used to exercise full transitions. Each
// InUserTx call runs the callback against the shared state; mutations made
// by a callback that returns an error are rolled back by restoring a
// snapshot, mirroring real transaction semantics.
type memStore struct {
	user           *User
	emailOTP       *EmailOTP
	backupCodes    []BackupCode
	trustedDevices int

	txErr error // injected failure for InUserTx itself
}

type memSnapshot struct {
	user           User
	emailOTP       *EmailOTP
	backupCodes    []BackupCode
	trustedDevices int
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		user:           *s.user,
		backupCodes:    append([]BackupCode(nil), s.backupCodes...),
		trustedDevices: s.trustedDevices,
	}
	if s.emailOTP != nil {
		otp := *s.emailOTP
		snap.emailOTP = &otp
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	u := snap.user
	s.user = &u
	s.emailOTP = snap.emailOTP
	s.backupCodes = snap.backupCodes
	s.trustedDevices = snap.trustedDevices
}

func (s *memStore) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	if s.user == nil || s.user.ID != userID {
		return nil, ErrUserNotFound
	}
	u := *s.user
	return &u, nil
}

func (s *memStore) InUserTx(ctx context.Context, userID uuid.UUID, fn func(ctx context.Context, tx Tx) error) error {
	if s.txErr != nil {
		return s.txErr
	}
	snap := s.snapshot()
	if err := fn(ctx, &memTx{store: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memTx struct {
	store *memStore
}

func (t *memTx) GetUserForUpdate(ctx context.Context, userID uuid.UUID) (*User, error) {
	return t.store.GetUser(ctx, userID)
}

func (t *memTx) UpdatePassword(ctx context.Context, userID uuid.UUID, hash []byte, changedAt time.Time) error {
	t.store.user.PasswordHash = hash
	t.store.user.PasswordChangedAt = changedAt
	return nil
}

func (t *memTx) UpdateMFA(ctx context.Context, userID uuid.UUID, params UpdateMFAParams) error {
	t.store.user.MFAEnabled = params.Enabled
	t.store.user.MFAMethod = params.Method
	t.store.user.TOTPSecretEnc = params.TOTPSecretEnc
	t.store.user.TOTPConfirmedAt = params.TOTPConfirmedAt
	return nil
}

func (t *memTx) ReplaceEmailOTP(ctx context.Context, userID uuid.UUID, codeHash string, expiresAt time.Time) error {
	t.store.emailOTP = &EmailOTP{UserID: userID, CodeHash: codeHash, ExpiresAt: expiresAt}
	return nil
}

func (t *memTx) GetEmailOTP(ctx context.Context, userID uuid.UUID) (*EmailOTP, error) {
	if t.store.emailOTP == nil {
		return nil, nil
	}
	otp := *t.store.emailOTP
	return &otp, nil
}

func (t *memTx) DeleteEmailOTP(ctx context.Context, userID uuid.UUID) error {
	t.store.emailOTP = nil
	return nil
}

func (t *memTx) ReplaceBackupCodes(ctx context.Context, userID uuid.UUID, codeHashes []string) error {
	t.store.backupCodes = nil
	for _, hash := range codeHashes {
		t.store.backupCodes = append(t.store.backupCodes, BackupCode{
			ID:       uuid.New(),
			UserID:   userID,
			CodeHash: hash,
		})
	}
	return nil
}

func (t *memTx) ListBackupCodes(ctx context.Context, userID uuid.UUID) ([]BackupCode, error) {
	return append([]BackupCode(nil), t.store.backupCodes...), nil
}

func (t *memTx) DeleteBackupCode(ctx context.Context, id uuid.UUID) error {
	for i, code := range t.store.backupCodes {
		if code.ID == id {
			t.store.backupCodes = append(t.store.backupCodes[:i], t.store.backupCodes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (t *memTx) DeleteBackupCodes(ctx context.Context, userID uuid.UUID) error {
	t.store.backupCodes = nil
	return nil
}

func (t *memTx) DeleteTrustedDevices(ctx context.Context, userID uuid.UUID) error {
	t.store.trustedDevices = 0
	return nil
}

// MockEmailSender is a mock implementation of email.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// Package pgstore implements credential.Store on PostgreSQL using pgx.
// Every state transition runs inside a single transaction holding a row
// lock on the user, which serializes concurrent transitions per user.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/authly/authly/svc/credential"
)

type Store struct {
	pool *pgxpool.Pool
}

// New creates a credential store backed by the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const userColumns = `id, email, username, password_hash, password_changed_at,
	mfa_enabled, mfa_method, totp_secret_enc, totp_confirmed_at`

func scanUser(row pgx.Row) (*credential.User, error) {
	var u credential.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.PasswordChangedAt,
		&u.MFAEnabled,
		&u.MFAMethod,
		&u.TOTPSecretEnc,
		&u.TOTPConfirmedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, credential.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, userID uuid.UUID) (*credential.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// InUserTx runs fn inside a transaction. The callback is expected to take
// the user row lock via GetUserForUpdate before mutating anything.
func (s *Store) InUserTx(ctx context.Context, userID uuid.UUID, fn func(ctx context.Context, tx credential.Tx) error) error {
	pgtx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer pgtx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := fn(ctx, &storeTx{tx: pgtx}); err != nil {
		return err
	}

	if err := pgtx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type storeTx struct {
	tx pgx.Tx
}

func (t *storeTx) GetUserForUpdate(ctx context.Context, userID uuid.UUID) (*credential.User, error) {
	row := t.tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID)
	return scanUser(row)
}

func (t *storeTx) UpdatePassword(ctx context.Context, userID uuid.UUID, hash []byte, changedAt time.Time) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE users SET password_hash = $2, password_changed_at = $3, updated_at = now() WHERE id = $1`,
		userID, hash, changedAt)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return credential.ErrUserNotFound
	}
	return nil
}

func (t *storeTx) UpdateMFA(ctx context.Context, userID uuid.UUID, params credential.UpdateMFAParams) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE users
		 SET mfa_enabled = $2, mfa_method = $3, totp_secret_enc = $4, totp_confirmed_at = $5, updated_at = now()
		 WHERE id = $1`,
		userID, params.Enabled, string(params.Method), params.TOTPSecretEnc, params.TOTPConfirmedAt)
	if err != nil {
		return fmt.Errorf("update mfa: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return credential.ErrUserNotFound
	}
	return nil
}

func (t *storeTx) ReplaceEmailOTP(ctx context.Context, userID uuid.UUID, codeHash string, expiresAt time.Time) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO email_otp_codes (user_id, code_hash, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET code_hash = $2, expires_at = $3, created_at = now()`,
		userID, codeHash, expiresAt)
	if err != nil {
		return fmt.Errorf("replace email otp: %w", err)
	}
	return nil
}

func (t *storeTx) GetEmailOTP(ctx context.Context, userID uuid.UUID) (*credential.EmailOTP, error) {
	var otp credential.EmailOTP
	err := t.tx.QueryRow(ctx,
		`SELECT user_id, code_hash, expires_at FROM email_otp_codes WHERE user_id = $1`,
		userID).Scan(&otp.UserID, &otp.CodeHash, &otp.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get email otp: %w", err)
	}
	return &otp, nil
}

func (t *storeTx) DeleteEmailOTP(ctx context.Context, userID uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM email_otp_codes WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete email otp: %w", err)
	}
	return nil
}

func (t *storeTx) ReplaceBackupCodes(ctx context.Context, userID uuid.UUID, codeHashes []string) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM backup_codes WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear backup codes: %w", err)
	}

	for _, hash := range codeHashes {
		_, err := t.tx.Exec(ctx,
			`INSERT INTO backup_codes (id, user_id, code_hash) VALUES ($1, $2, $3)`,
			uuid.New(), userID, hash)
		if err != nil {
			return fmt.Errorf("insert backup code: %w", err)
		}
	}
	return nil
}

func (t *storeTx) ListBackupCodes(ctx context.Context, userID uuid.UUID) ([]credential.BackupCode, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT id, user_id, code_hash FROM backup_codes WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list backup codes: %w", err)
	}
	defer rows.Close()

	var codes []credential.BackupCode
	for rows.Next() {
		var code credential.BackupCode
		if err := rows.Scan(&code.ID, &code.UserID, &code.CodeHash); err != nil {
			return nil, fmt.Errorf("scan backup code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list backup codes: %w", err)
	}
	return codes, nil
}

func (t *storeTx) DeleteBackupCode(ctx context.Context, id uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM backup_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete backup code: %w", err)
	}
	return nil
}

func (t *storeTx) DeleteBackupCodes(ctx context.Context, userID uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM backup_codes WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete backup codes: %w", err)
	}
	return nil
}

func (t *storeTx) DeleteTrustedDevices(ctx context.Context, userID uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM trusted_devices WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete trusted devices: %w", err)
	}
	return nil
}

// Interface conformance checks.
var (
	_ credential.Store = (*Store)(nil)
	_ credential.Tx    = (*storeTx)(nil)
)

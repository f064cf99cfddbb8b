package credential

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// BackupCodeCount is the size of every issued batch. Confirming an MFA
// method always replaces the whole batch; codes are never appended.
const BackupCodeCount = 10

// backupCodeAlphabet omits ambiguous characters (0/O, 1/I/L) since users
// type these codes by hand.
const backupCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const backupCodeGroupLen = 5

var ErrInvalidBackupCodeCount = errors.New("invalid backup code count, must be greater than 0")

// GenerateBackupCodes creates cryptographically secure single-use recovery
// codes in the form XXXXX-XXXXX. The plaintext is returned exactly once and
// cannot be re-derived from storage.
func GenerateBackupCodes(count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidBackupCodeCount
	}

	alphabetLen := big.NewInt(int64(len(backupCodeAlphabet)))
	codes := make([]string, count)
	for i := 0; i < count; i++ {
		var sb strings.Builder
		for j := 0; j < backupCodeGroupLen*2; j++ {
			if j == backupCodeGroupLen {
				sb.WriteByte('-')
			}
			n, err := rand.Int(rand.Reader, alphabetLen)
			if err != nil {
				return nil, err
			}
			sb.WriteByte(backupCodeAlphabet[n.Int64()])
		}
		codes[i] = sb.String()
	}
	return codes, nil
}

// HashBackupCode creates a peppered SHA-256 hash for storage. The pepper is
// a process-wide secret, so a leaked table alone is not enough to test
// candidate codes offline.
func HashBackupCode(code, pepper string) string {
	hash := sha256.Sum256([]byte(normalizeBackupCode(code) + pepper))
	return hex.EncodeToString(hash[:])
}

func normalizeBackupCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// regenerateBackupCodes wipes any stored codes for the user and persists a
// fresh batch, returning the plaintext for one-time display.
func (s *Service) regenerateBackupCodes(ctx context.Context, tx Tx, userID uuid.UUID) ([]string, error) {
	codes, err := GenerateBackupCodes(BackupCodeCount)
	if err != nil {
		return nil, err
	}

	hashes := make([]string, len(codes))
	for i, code := range codes {
		hashes[i] = HashBackupCode(code, s.cfg.BackupPepper)
	}

	if err := tx.ReplaceBackupCodes(ctx, userID, hashes); err != nil {
		return nil, err
	}
	return codes, nil
}

// ConsumeBackupCode burns a single recovery code. On a match the record is
// deleted and true is returned; otherwise nothing changes. Comparison is
// constant-time per stored hash.
func (s *Service) ConsumeBackupCode(ctx context.Context, userID uuid.UUID, candidate string) (bool, error) {
	candidateHash := HashBackupCode(candidate, s.cfg.BackupPepper)

	var consumed bool
	err := s.store.InUserTx(ctx, userID, func(ctx context.Context, tx Tx) error {
		stored, err := tx.ListBackupCodes(ctx, userID)
		if err != nil {
			return err
		}

		// Compare against every record so timing does not reveal which
		// position, if any, matched.
		var match *BackupCode
		for i := range stored {
			if subtle.ConstantTimeCompare([]byte(candidateHash), []byte(stored[i].CodeHash)) == 1 {
				match = &stored[i]
			}
		}
		if match == nil {
			return nil
		}

		if err := tx.DeleteBackupCode(ctx, match.ID); err != nil {
			return err
		}
		consumed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return consumed, nil
}

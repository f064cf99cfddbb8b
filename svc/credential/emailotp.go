package credential

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/authly/authly/pkg/email"
	"github.com/authly/authly/pkg/logger"
)

// EmailCodeDigits is the length of emailed one-time codes.
const EmailCodeDigits = 6

// GenerateEmailCode creates a zero-padded numeric one-time code.
func GenerateEmailCode() (string, error) {
	bound := big.NewInt(1)
	for i := 0; i < EmailCodeDigits; i++ {
		bound.Mul(bound, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", EmailCodeDigits, n), nil
}

// HashEmailCode creates a peppered SHA-256 hash for storage.
func HashEmailCode(code, pepper string) string {
	hash := sha256.Sum256([]byte(code + pepper))
	return hex.EncodeToString(hash[:])
}

// issueEmailOTP stores a fresh hashed code for the user, replacing any live
// one so a resend always invalidates the previous code. The plaintext is
// returned for delivery; it is never persisted.
func (s *Service) issueEmailOTP(ctx context.Context, tx Tx, user *User) (string, error) {
	code, err := GenerateEmailCode()
	if err != nil {
		return "", err
	}

	expiresAt := s.now().Add(s.cfg.EmailCodeTTL)
	if err := tx.ReplaceEmailOTP(ctx, user.ID, HashEmailCode(code, s.cfg.EmailCodePepper), expiresAt); err != nil {
		return "", err
	}

	return code, nil
}

// verifyEmailOTP checks the candidate against the user's live code. An
// absent, expired or mismatched record all fail the same way. On success
// the record is deleted so the code is single-use.
func (s *Service) verifyEmailOTP(ctx context.Context, tx Tx, user *User, candidate string) (bool, error) {
	record, err := tx.GetEmailOTP(ctx, user.ID)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}
	// Expired but not yet cleaned up counts as absent.
	if s.now().After(record.ExpiresAt) {
		return false, nil
	}

	candidateHash := HashEmailCode(candidate, s.cfg.EmailCodePepper)
	if subtle.ConstantTimeCompare([]byte(candidateHash), []byte(record.CodeHash)) != 1 {
		return false, nil
	}

	if err := tx.DeleteEmailOTP(ctx, user.ID); err != nil {
		return false, err
	}
	return true, nil
}

// sendEmailOTP delivers the code. Delivery is best-effort: the code row is
// already committed by the caller, so a mailer failure is logged and the
// transition still succeeds. The user can always request a resend.
func (s *Service) sendEmailOTP(ctx context.Context, user *User, code string) {
	name := user.Username
	if name == "" {
		name = user.Email
	}

	body := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your %s verification code is:</p><p style="font-size:24px;letter-spacing:4px;"><strong>%s</strong></p><p>The code expires in %d minutes. If you did not request it, you can ignore this email.</p>`,
		name, s.cfg.Issuer, code, int(s.cfg.EmailCodeTTL.Minutes()),
	)

	err := s.mailer.SendEmail(ctx, email.SendEmailParams{
		SendTo:   user.Email,
		Subject:  fmt.Sprintf("%s verification code", s.cfg.Issuer),
		BodyHTML: body,
		Tag:      "mfa-email-code",
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send verification code",
			logger.UserID(user.ID.String()),
			logger.Error(err),
			logger.Component("credential"),
		)
	}
}

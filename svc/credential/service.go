package credential

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/authly/authly/pkg/email"
	"github.com/authly/authly/pkg/logger"
	"github.com/authly/authly/pkg/qrcode"
	"github.com/authly/authly/pkg/secrets"
	"github.com/authly/authly/pkg/totp"
	"github.com/authly/authly/pkg/validator"
)

// Service orchestrates all credential and MFA transitions for a user.
type Service struct {
	store  Store
	mailer email.EmailSender
	codec  *secrets.Codec
	cfg    Config

	logger           *slog.Logger
	bcryptCost       int
	passwordStrength validator.PasswordStrengthConfig
	now              func() time.Time
}

type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		s.logger = log
	}
}

// WithBcryptCost sets the bcrypt cost for password hashing.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

// WithPasswordStrength sets custom password strength requirements.
func WithPasswordStrength(config validator.PasswordStrengthConfig) Option {
	return func(s *Service) {
		s.passwordStrength = config
	}
}

// WithClock overrides the time source, used by tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates the credential service. The codec and peppers arrive through
// explicit configuration rather than ambient globals.
func New(store Store, mailer email.EmailSender, codec *secrets.Codec, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:      store,
		mailer:     mailer,
		codec:      codec,
		cfg:        cfg,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		bcryptCost: bcrypt.DefaultCost,
		passwordStrength: validator.PasswordStrengthConfig{
			MinLength:      8,
			MaxLength:      128,
			MinCharClasses: 2, // Pragmatic default: two character classes balance security and UX
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ChangePassword rotates the account password after verifying the current
// one. The new password must meet the strength policy and match its
// confirmation.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword, confirm string) error {
	if err := validator.Apply(
		validator.RequiredString("current_password", current),
		validator.StrongPassword("new_password", newPassword, s.passwordStrength),
		validator.NotCommonPassword("new_password", newPassword),
		validator.EqualStrings("confirm_password", newPassword, confirm),
	); err != nil {
		return err
	}

	return s.store.InUserTx(ctx, userID, func(ctx context.Context, tx Tx) error {
		user, err := tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(current)) != nil {
			return ErrAuthFailed
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
		if err != nil {
			return err
		}

		return tx.UpdatePassword(ctx, userID, hash, s.now())
	})
}

// SetMethod selects the MFA method to set up next. MFA must currently be
// disabled; switching away from totp purges any pending secret.
func (s *Service) SetMethod(ctx context.Context, userID uuid.UUID, method Method) error {
	if !method.Valid() {
		return ErrUnsupportedMethod
	}

	return s.store.InUserTx(ctx, userID, func(ctx context.Context, tx Tx) error {
		user, err := tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user.MFAEnabled {
			return ErrMFAStillEnabled
		}

		params := UpdateMFAParams{Enabled: false, Method: method}
		if method == MethodTOTP {
			// An unconfirmed secret from an earlier setup attempt stays usable.
			params.TOTPSecretEnc = user.TOTPSecretEnc
		}
		return tx.UpdateMFA(ctx, userID, params)
	})
}

// BeginTOTP starts authenticator enrollment: a fresh secret is generated,
// encrypted and stored unconfirmed, overwriting any prior pending secret.
// The returned setup carries the provisioning URI and QR code for one-time
// display.
func (s *Service) BeginTOTP(ctx context.Context, userID uuid.UUID) (*TOTPSetup, error) {
	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return nil, err
	}

	secretEnc, err := s.codec.EncryptString(secret)
	if err != nil {
		return nil, err
	}

	var accountName string
	err = s.store.InUserTx(ctx, userID, func(ctx context.Context, tx Tx) error {
		user, err := tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		accountName = user.Email

		return tx.UpdateMFA(ctx, userID, UpdateMFAParams{
			Enabled:       false,
			Method:        MethodTOTP,
			TOTPSecretEnc: secretEnc,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.totpSetup(secret, accountName)
}

// ConfirmTOTP verifies a code from the authenticator app against the
// pending secret. Success enables MFA, stamps the confirmation time and
// regenerates the full batch of backup codes, returned for one-time display.
func (s *Service) ConfirmTOTP(ctx context.Context, userID uuid.UUID, code string) ([]string, error) {
	if err := validator.Apply(
		validator.ValidNumericString("code", code),
		validator.MinLenString("code", code, totp.DefaultDigits),
		validator.MaxLenString("code", code, totp.DefaultDigits),
	); err != nil {
		return nil, err
	}

	var backupCodes []string
	err := s.store.InUserTx(ctx, userID, func(ctx context.Context, tx Tx) error {
		user, err := tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user.TOTPSecretEnc == "" {
			return ErrNoPendingSecret
		}

		secret, err := s.codec.DecryptString(user.TOTPSecretEnc)
		if err != nil {
			// Unreadable secret means tampering or a key rotation; the user
			// has to restart enrollment either way.
			s.logger.ErrorContext(ctx, "stored TOTP secret failed to decrypt",
				logger.UserID(userID.String()),
				logger.Error(err),
				logger.Component("credential"),
			)
			return ErrSecretUnreadable
		}

		ok, err := totp.ValidateAt(secret, code, s.now(), totp.DefaultSkewSteps)
		if err != nil || !ok {
			return ErrAuthFailed
		}

		confirmedAt := s.now()
		if err := tx.UpdateMFA(ctx, userID, UpdateMFAParams{
			Enabled:         true,
			Method:          MethodTOTP,
			TOTPSecretEnc:   user.TOTPSecretEnc,
			TOTPConfirmedAt: &confirmedAt,
		}); err != nil {
			return err
		}

		backupCodes, err = s.regenerateBackupCodes(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return backupCodes, nil
}

// BeginEmail starts email-code enrollment: the method switches to email
// (purging any totp secret) and a fresh code is issued. Delivery happens
// after the transaction commits and is best-effort.
func (s *Service) BeginEmail(ctx context.Context, userID uuid.UUID) error {
	var (
		user *User
		code string
	)
	err := s.store.InUserTx(ctx, userID, func(ctx context.Context, tx Tx) error {
		var err error
		user, err = tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if err := tx.UpdateMFA(ctx, userID, UpdateMFAParams{
			Enabled: false,
			Method:  MethodEmail,
		}); err != nil {
			return err
		}

		code, err = s.issueEmailOTP(ctx, tx, user)
		return err
	})
	if err != nil {
		return err
	}

	s.sendEmailOTP(ctx, user, code)
	return nil
}

// ConfirmEmail verifies the emailed code. Success enables email MFA and
// regenerates the full batch of backup codes, returned for one-time display.
func (s *Service) ConfirmEmail(ctx context.Context, userID uuid.UUID, code string) ([]string, error) {
	if err := validator.Apply(
		validator.ValidNumericString("code", code),
		validator.MinLenString("code", code, EmailCodeDigits),
		validator.MaxLenString("code", code, EmailCodeDigits),
	); err != nil {
		return nil, err
	}

	var backupCodes []string
	err := s.store.InUserTx(ctx, userID, func(ctx context.Context, tx Tx) error {
		user, err := tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user.MFAMethod != MethodEmail {
			return ErrNoPendingEmailOTP
		}

		ok, err := s.verifyEmailOTP(ctx, tx, user, code)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAuthFailed
		}

		if err := tx.UpdateMFA(ctx, userID, UpdateMFAParams{
			Enabled: true,
			Method:  MethodEmail,
		}); err != nil {
			return err
		}

		backupCodes, err = s.regenerateBackupCodes(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return backupCodes, nil
}

// ResendEmail issues a fresh email code, invalidating the previous one.
func (s *Service) ResendEmail(ctx context.Context, userID uuid.UUID) error {
	var (
		user *User
		code string
	)
	err := s.store.InUserTx(ctx, userID, func(ctx context.Context, tx Tx) error {
		var err error
		user, err = tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		code, err = s.issueEmailOTP(ctx, tx, user)
		return err
	})
	if err != nil {
		return err
	}

	s.sendEmailOTP(ctx, user, code)
	return nil
}

// Disable turns MFA off entirely after verifying the account password.
// The TOTP secret, all backup codes, trusted devices and any live email
// code are purged in the same transaction.
func (s *Service) Disable(ctx context.Context, userID uuid.UUID, password string) error {
	if err := validator.Apply(
		validator.RequiredString("password", password),
	); err != nil {
		return err
	}

	return s.store.InUserTx(ctx, userID, func(ctx context.Context, tx Tx) error {
		user, err := tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
			return ErrAuthFailed
		}

		if err := tx.UpdateMFA(ctx, userID, UpdateMFAParams{
			Enabled: false,
			Method:  MethodNone,
		}); err != nil {
			return err
		}
		if err := tx.DeleteBackupCodes(ctx, userID); err != nil {
			return err
		}
		if err := tx.DeleteTrustedDevices(ctx, userID); err != nil {
			return err
		}
		return tx.DeleteEmailOTP(ctx, userID)
	})
}

// Overview builds the read model for the security settings page. While a
// TOTP secret awaits confirmation the provisioning URI and QR code are
// included so the page can re-render the enrollment step.
func (s *Service) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		Enabled: user.MFAEnabled,
		Method:  user.MFAMethod,
	}

	if user.MFAMethod == MethodTOTP && !user.MFAEnabled && user.TOTPSecretEnc != "" {
		secret, err := s.codec.DecryptString(user.TOTPSecretEnc)
		if err != nil {
			// Same policy as ConfirmTOTP: log and present no pending setup.
			s.logger.ErrorContext(ctx, "stored TOTP secret failed to decrypt",
				logger.UserID(userID.String()),
				logger.Error(err),
				logger.Component("credential"),
			)
			return overview, nil
		}

		setup, err := s.totpSetup(secret, user.Email)
		if err != nil {
			return nil, err
		}
		overview.PendingTOTP = setup
	}

	return overview, nil
}

func (s *Service) totpSetup(secret, accountName string) (*TOTPSetup, error) {
	uri, err := totp.ProvisioningURI(totp.Params{
		Secret:      secret,
		AccountName: accountName,
		Issuer:      s.cfg.Issuer,
	})
	if err != nil {
		return nil, err
	}

	qr, err := qrcode.GenerateBase64Image(uri, 256)
	if err != nil {
		return nil, err
	}

	return &TOTPSetup{Secret: secret, URI: uri, QRCode: qr}, nil
}

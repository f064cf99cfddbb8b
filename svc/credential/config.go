package credential

import "time"

// Config holds the secrets and policy knobs of the credential core.
// Peppers are process-wide secrets distinct from per-record salts; they are
// passed into the Service at construction so the core stays testable
// without ambient global state.
type Config struct {
	Issuer          string        `env:"MFA_ISSUER" envDefault:"Authly"`      // Issuer is the service name shown in authenticator apps.
	EncryptionKey   string        `env:"MFA_ENCRYPTION_KEY,required"`         // EncryptionKey is the base64-encoded 32-byte key protecting TOTP seeds at rest.
	EmailCodePepper string        `env:"MFA_EMAIL_CODE_PEPPER,required"`      // EmailCodePepper is mixed into email one-time code hashes.
	BackupPepper    string        `env:"MFA_BACKUP_PEPPER,required"`          // BackupPepper is mixed into backup code hashes.
	EmailCodeTTL    time.Duration `env:"MFA_EMAIL_CODE_TTL" envDefault:"10m"` // EmailCodeTTL is how long an emailed code stays valid.
}

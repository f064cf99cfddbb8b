package credential

import "errors"

// General errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// AuthFailure: wrong password or wrong code. Deliberately generic so the
// response does not reveal which check failed.
var (
	ErrAuthFailed = errors.New("authentication failed")
)

// Precondition errors, rejected before any mutation.
var (
	ErrMFAStillEnabled   = errors.New("disable MFA before changing the method")
	ErrUnsupportedMethod = errors.New("unsupported MFA method")
	ErrNoPendingSecret   = errors.New("no authenticator setup in progress")
	ErrNoPendingEmailOTP = errors.New("no email verification in progress")
)

// Integrity errors: stored data that cannot be trusted. Logged internally,
// presented to users as a restart-setup condition rather than a crash.
var (
	ErrSecretUnreadable = errors.New("stored authenticator secret is unreadable")
)

// Package credential implements the account credential and MFA lifecycle:
// password rotation, authenticator-app (TOTP) enrollment, email one-time
// codes, single-use backup codes and the transitions between MFA states.
//
// The Service is the single writer of all MFA state. Each transition runs
// inside one database transaction with the user's credential row locked, so
// concurrent requests for the same user serialize at the database and no
// reader ever observes a half-applied transition. Any failure aborts the
// whole transition; there are no partial writes.
//
// MFA for a user is in one of three states: disabled, pending setup for a
// method, or enabled for a method. Confirming a method (BeginTOTP +
// ConfirmTOTP, or BeginEmail + ConfirmEmail) enables it and regenerates the
// full batch of backup codes — deliberately also on re-confirmation, so
// every confirmation event invalidates previously issued recovery codes.
// Disabling requires the account password and purges the TOTP secret, all
// backup codes, live email codes and trusted devices in one transaction.
//
// Wrong passwords and wrong codes surface as ErrAuthFailed without further
// detail; an unreadable (tampered or re-keyed) stored TOTP secret is logged
// and treated as if no secret were present, forcing a fresh enrollment
// instead of crashing.
package credential

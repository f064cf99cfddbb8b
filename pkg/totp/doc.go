// Package totp implements Time-based One-Time Passwords (RFC 6238) for the
// authenticator-app MFA method.
//
// The package covers secret key creation (GenerateSecretKey), code
// calculation for arbitrary moments (GenerateCode/GenerateCodeAt), skew-aware
// validation (Validate) and otpauth:// URI construction (ProvisioningURI)
// for onboarding to Google Authenticator, 1Password and compatible apps.
//
// Validation compares candidates in constant time and tolerates a
// configurable number of 30-second steps of clock drift on either side of
// the current window. Malformed candidates simply fail validation; only
// malformed secrets are reported as errors.
//
// Secrets produced here are plaintext Base32 strings. Persisting them
// encrypted is the job of the secrets package.
package totp

// Package qrcode generates QR code images either as raw PNG bytes or as a
// data-URI string, used to render the TOTP provisioning URI for scanning by
// authenticator apps.
//
// The package is a thin wrapper around github.com/skip2/go-qrcode that adds
// sensible defaults and input validation. Errors are declared as
// package-level variables so they can be compared with errors.Is.
package qrcode

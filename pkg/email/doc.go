// Package email provides a provider-agnostic interface for sending
// transactional emails, used by the credential core to deliver one-time
// sign-in codes.
//
// The package is built around the EmailSender interface so providers can be
// swapped without changing application code:
//   - PostmarkClient for production delivery with tracking
//   - DevSender for local development (saves emails to disk)
//
// All implementations validate email parameters before sending and report
// failures through sentinel errors comparable with errors.Is.
package email

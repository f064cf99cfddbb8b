// Package validator provides rule-based input validation for the action
// dispatch surface: required fields, length bounds, email format and the
// password policy applied on password change.
//
// Rules are plain values combining a check closure with the error reported
// when it fails. Apply runs a set of rules and returns a ValidationErrors
// collection, which callers surface verbatim to the user.
package validator

package validator

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	uppercaseRegex   = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex       = regexp.MustCompile(`[0-9]`)
	specialCharRegex = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?~` + "`" + `]`)

	// Frequently compromised passwords rejected regardless of policy.
	commonPasswords = map[string]bool{
		"password":    true,
		"123456":      true,
		"12345678":    true,
		"123456789":   true,
		"1234567890":  true,
		"password1":   true,
		"password123": true,
		"qwerty":      true,
		"qwerty123":   true,
		"qwertyuiop":  true,
		"asdfghjkl":   true,
		"zxcvbnm":     true,
		"abc123":      true,
		"abcd1234":    true,
		"letmein":     true,
		"welcome":     true,
		"iloveyou":    true,
		"admin":       true,
		"admin123":    true,
		"root":        true,
		"guest":       true,
		"login":       true,
		"master":      true,
		"secret":      true,
		"trustno1":    true,
		"111111":      true,
		"000000":      true,
		"123123":      true,
		"1q2w3e4r":    true,
		"1qaz2wsx":    true,
	}
)

type PasswordStrengthConfig struct {
	MinLength        int
	MaxLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigits    bool
	RequireSpecial   bool
	MinCharClasses   int // Minimum number of different character classes required
}

// DefaultPasswordStrength returns NIST-recommended password policy: 8-128 chars, 3+ character classes.
func DefaultPasswordStrength() PasswordStrengthConfig {
	return PasswordStrengthConfig{
		MinLength:        8,
		MaxLength:        128,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigits:    true,
		RequireSpecial:   true,
		MinCharClasses:   3,
	}
}

func StrongPassword(field, value string, config PasswordStrengthConfig) Rule {
	return Rule{
		Check: func() bool {
			if len(value) < config.MinLength || len(value) > config.MaxLength {
				return false
			}

			charClasses := 0
			hasUpper := uppercaseRegex.MatchString(value)
			hasLower := lowercaseRegex.MatchString(value)
			hasDigit := digitRegex.MatchString(value)
			hasSpecial := specialCharRegex.MatchString(value)

			if hasUpper {
				charClasses++
			}
			if hasLower {
				charClasses++
			}
			if hasDigit {
				charClasses++
			}
			if hasSpecial {
				charClasses++
			}

			if config.RequireUppercase && !hasUpper {
				return false
			}
			if config.RequireLowercase && !hasLower {
				return false
			}
			if config.RequireDigits && !hasDigit {
				return false
			}
			if config.RequireSpecial && !hasSpecial {
				return false
			}

			return charClasses >= config.MinCharClasses
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("password must be %d-%d characters with required character types", config.MinLength, config.MaxLength),
		},
	}
}

// NotCommonPassword rejects passwords from the list of frequently compromised ones.
func NotCommonPassword(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return !commonPasswords[strings.ToLower(value)]
		},
		Error: ValidationError{
			Field:   field,
			Message: "password is too common",
		},
	}
}

package validator

import "regexp"

var numericRegex = regexp.MustCompile(`^\d+$`)

// ValidNumericString validates the value consists of digits only.
func ValidNumericString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return numericRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must contain only digits",
		},
	}
}

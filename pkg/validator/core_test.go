package validator_test

import (
	"testing"

	"github.com/authly/authly/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RequiredString("name", "value"),
			validator.MinLenString("name", "value", 3),
		)
		require.NoError(t, err)
	})

	t.Run("collects all failures", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RequiredString("name", "  "),
			validator.MinLenString("code", "12", 6),
		)
		require.Error(t, err)

		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 2)
		assert.True(t, ve.Has("name"))
		assert.True(t, ve.Has("code"))
		assert.Contains(t, ve.Get("code")[0], "at least 6")
	})

	t.Run("IsValidationError", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(validator.RequiredString("name", ""))
		assert.True(t, validator.IsValidationError(err))
		assert.False(t, validator.IsValidationError(assert.AnError))
		assert.False(t, validator.IsValidationError(nil))
	})
}

func TestStringRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule validator.Rule
		ok   bool
	}{
		{"required present", validator.RequiredString("f", "x"), true},
		{"required empty", validator.RequiredString("f", " "), false},
		{"min len ok", validator.MinLenString("f", "abcdef", 6), true},
		{"min len short", validator.MinLenString("f", "abc", 6), false},
		{"max len ok", validator.MaxLenString("f", "abc", 6), true},
		{"max len long", validator.MaxLenString("f", "abcdefg", 6), false},
		{"equal match", validator.EqualStrings("f", "a", "a"), true},
		{"equal mismatch", validator.EqualStrings("f", "a", "b"), false},
		{"numeric ok", validator.ValidNumericString("f", "123456"), true},
		{"numeric rejected", validator.ValidNumericString("f", "12a456"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.ok, tt.rule.Check())
		})
	}
}

func TestPasswordRules(t *testing.T) {
	t.Parallel()

	policy := validator.PasswordStrengthConfig{
		MinLength:      8,
		MaxLength:      128,
		MinCharClasses: 2,
	}

	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"strong enough", "Str0ngEnough", true},
		{"too short", "Ab1", false},
		{"single class", "alllowercase", false},
		{"two classes", "lower1234", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.ok, validator.StrongPassword("password", tt.password, policy).Check())
		})
	}

	t.Run("common password rejected", func(t *testing.T) {
		t.Parallel()
		assert.False(t, validator.NotCommonPassword("password", "Password123").Check())
		assert.True(t, validator.NotCommonPassword("password", "xK9#mQ2$vL").Check())
	})
}

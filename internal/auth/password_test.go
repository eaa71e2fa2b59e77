package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"accepted", "Abcdef1!", nil},
		{"no upper and no symbol", "abcdefg1", ErrPasswordNoUpper},
		{"too short", "Ab1!", ErrPasswordTooShort},
		{"no digit", "Abcdefg!", ErrPasswordNoDigit},
		{"no symbol", "Abcdefg1", ErrPasswordNoSymbol},
		{"symbol outside set", "Abcdefg1-", ErrPasswordNoSymbol},
		{"quote counts as symbol", `Abcdefg1"`, nil},
		{"multibyte runes count once", "Ééééé1A!", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckPasswordPolicyReportsEveryRule(t *testing.T) {
	check := CheckPasswordPolicy("abcdefg1")

	assert.True(t, check.MinLength)
	assert.True(t, check.HasDigit)
	assert.False(t, check.HasUpper)
	assert.False(t, check.HasSymbol)
	assert.False(t, check.Valid())
}

func TestPolicyIsConjunctionOfRules(t *testing.T) {
	candidates := []string{
		"", "A", "Abcdef1!", "abcdef1!", "ABCDEF1!", "Abcdefg!", "Abcdefg1",
		"Abc1!", "12345678", "!!!!!!!!", "Zz9{}{}{}", "Pa55word|", "x Y 7 < z",
	}
	for _, p := range candidates {
		c := CheckPasswordPolicy(p)
		want := c.MinLength && c.HasDigit && c.HasUpper && c.HasSymbol
		assert.Equal(t, want, ValidatePassword(p) == nil, p)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Abcdef1!")
	require.NoError(t, err)

	assert.NotEqual(t, "Abcdef1!", hash)
	assert.True(t, CheckPassword("Abcdef1!", hash))
	assert.False(t, CheckPassword("Abcdef1?", hash))
	assert.False(t, CheckPassword("Abcdef1!", "not-a-hash"))
}

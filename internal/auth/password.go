package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordSymbols is the punctuation set a password must draw at least one
// character from.
const PasswordSymbols = `!@#$%^&*(),.?":{}|<>`

const MinPasswordLength = 8

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordNoDigit  = errors.New("password must contain a digit")
	ErrPasswordNoUpper  = errors.New("password must contain an uppercase letter")
	ErrPasswordNoSymbol = errors.New("password must contain one of " + PasswordSymbols)
)

// PasswordCheck reports each rule of the password policy separately so a
// form can show which ones are still missing.
type PasswordCheck struct {
	MinLength bool `json:"min_length"`
	HasDigit  bool `json:"has_digit"`
	HasUpper  bool `json:"has_upper"`
	HasSymbol bool `json:"has_symbol"`
}

// Valid is true only when all rules hold.
func (p PasswordCheck) Valid() bool {
	return p.MinLength && p.HasDigit && p.HasUpper && p.HasSymbol
}

// CheckPasswordPolicy evaluates every rule of the policy.
func CheckPasswordPolicy(password string) PasswordCheck {
	check := PasswordCheck{MinLength: len([]rune(password)) >= MinPasswordLength}
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			check.HasDigit = true
		case r >= 'A' && r <= 'Z':
			check.HasUpper = true
		case strings.ContainsRune(PasswordSymbols, r):
			check.HasSymbol = true
		}
	}
	return check
}

// ValidatePassword returns the first policy rule the password breaks.
func ValidatePassword(password string) error {
	check := CheckPasswordPolicy(password)
	switch {
	case !check.MinLength:
		return ErrPasswordTooShort
	case !check.HasDigit:
		return ErrPasswordNoDigit
	case !check.HasUpper:
		return ErrPasswordNoUpper
	case !check.HasSymbol:
		return ErrPasswordNoSymbol
	}
	return nil
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

var (
	ErrWeakPassword   = errors.New("password does not meet requirements")
	ErrPasswordReused = errors.New("password was used before")
	ErrWrongPassword  = errors.New("current password is incorrect")
)

const (
	passwordMinLength = 8
	passwordMaxLength = 12
	passwordSymbols   = "@$!%*?&"
)

// ValidatePassword enforces the account password policy: 8 to 12
// characters with at least one uppercase letter, one lowercase letter,
// one digit and one symbol from the allowed set.
func ValidatePassword(password string) error {
	if len(password) < passwordMinLength || len(password) > passwordMaxLength {
		return fmt.Errorf("%w: must be between %d and %d characters",
			ErrWeakPassword, passwordMinLength, passwordMaxLength)
	}

	var upper, lower, digit, symbol bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		case strings.ContainsRune(passwordSymbols, c):
			symbol = true
		default:
			return fmt.Errorf("%w: character %q is not allowed", ErrWeakPassword, c)
		}
	}

	if !upper || !lower || !digit || !symbol {
		return fmt.Errorf("%w: must include at least one uppercase letter, one lowercase letter, one number, and one special character", ErrWeakPassword)
	}

	return nil
}

const (
	upperChars = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars = "abcdefghijkmnpqrstuvwxyz"
	digitChars = "23456789"
)

// GeneratePassword produces a random password that satisfies
// ValidatePassword, used when a registration omits the password.
func GeneratePassword() (string, error) {
	classes := []string{upperChars, lowerChars, digitChars, passwordSymbols}
	all := strings.Join(classes, "")

	out := make([]byte, passwordMaxLength)
	// One character from each class, the rest from the full alphabet.
	for i := range out {
		source := all
		if i < len(classes) {
			source = classes[i]
		}
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(source))))
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		out[i] = source[n.Int64()]
	}

	// Shuffle so the class-guaranteed characters aren't positional.
	for i := len(out) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		j := n.Int64()
		out[i], out[j] = out[j], out[i]
	}

	return string(out), nil
}

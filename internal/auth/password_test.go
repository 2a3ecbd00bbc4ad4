package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"all classes present", "Str0ng@Pass", true},
		{"minimum length", "Aa1@aaaa", true},
		{"maximum length", "Aa1@aaaaaaaa", true},
		{"too short", "Aa1@aaa", false},
		{"too long", "Aa1@aaaaaaaaa", false},
		{"missing uppercase", "str0ng@pass", false},
		{"missing lowercase", "STR0NG@PASS", false},
		{"missing digit", "Strong@Pass", false},
		{"missing symbol", "Str0ngPass1", false},
		{"disallowed symbol", "Str0ng#Pass", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrWeakPassword)
			}
		})
	}
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		password, err := GeneratePassword()
		assert.NoError(t, err)
		assert.NoError(t, ValidatePassword(password))
		seen[password] = true
	}
	// Random output should not repeat across a handful of draws.
	assert.Greater(t, len(seen), 1)
}

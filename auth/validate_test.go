package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     string
	}{
		{"valid", "alice", "Passw0rd!", ""},
		{"empty username", "", "Passw0rd!", "Username is required"},
		{"short username", "al", "Passw0rd!", "Username must be at least 3 characters"},
		{"too short password", "alice", "Pw0!", "Password must be between 8 and 20 characters"},
		{"too long password", "alice", "Aa1!Aa1!Aa1!Aa1!Aa1!x", "Password must be between 8 and 20 characters"},
		{"no uppercase", "alice", "passw0rd!", "Password must contain at least one uppercase letter"},
		{"no lowercase", "alice", "PASSW0RD!", "Password must contain at least one lowercase letter"},
		{"no digit", "alice", "Password!", "Password must contain at least one number"},
		{"no special", "alice", "Passw0rdd", "Password must contain at least one special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSignup(tt.username, tt.password))
		})
	}
}

func TestValidateSignupCountsRunesNotBytes(t *testing.T) {
	// 7 runes but 10 bytes: still too short.
	got := ValidateSignup("alice", "Aa1!ééé")
	assert.Equal(t, "Password must be between 8 and 20 characters", got)

	// 20 runes with multibyte characters: within the cap.
	assert.Equal(t, "", ValidateSignup("alice", "Aa1!éééééééééééééééé"))
}

func TestValidateSignupChecksRulesInOrder(t *testing.T) {
	// A password breaking several rules reports the first one in the chain.
	got := ValidateSignup("alice", "pw")
	assert.Equal(t, "Password must be between 8 and 20 characters", got)
}

package authutil

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name string
		pw   string
		want error
	}{
		{"valid", "secure-123", nil},
		{"at minimum", "abcdefg1", nil},
		{"at maximum", strings.Repeat("a", MaxPasswordLength), nil},
		{"empty", "", ErrPasswordTooShort},
		{"seven chars", "abcdef1", ErrPasswordTooShort},
		{"too long", strings.Repeat("a", MaxPasswordLength+1), ErrPasswordTooLong},
		{"common", "password", ErrPasswordCommon},
		{"common any case", "PassWord1", ErrPasswordCommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePassword(tt.pw); got != tt.want {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.pw, got, tt.want)
			}
		})
	}
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	hash1, err := HashPassword("SecurePassword123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	hash2, err := HashPassword("SecurePassword123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash1 == hash2 {
		t.Error("expected different hashes for same password (random salt)")
	}
	if !strings.HasPrefix(hash1, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", hash1)
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("SecurePassword123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	tests := []struct {
		name string
		pw   string
		hash string
		want bool
	}{
		{"correct", "SecurePassword123", hash, true},
		{"wrong", "WrongPassword456", hash, false},
		{"empty password", "", hash, false},
		{"invalid hash", "SecurePassword123", "not-a-valid-hash", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.pw, tt.hash); got != tt.want {
				t.Errorf("CheckPassword = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGeneratePassword(t *testing.T) {
	a, b := GeneratePassword(), GeneratePassword()
	if len(a) != 12 {
		t.Errorf("len = %d, want 12", len(a))
	}
	if a == b {
		t.Error("expected two generated passwords to differ")
	}
	if err := ValidatePassword(a); err != nil {
		t.Errorf("generated password should be valid: %v", err)
	}
}

func TestPasswordRules(t *testing.T) {
	if !strings.Contains(PasswordRules(), "8") {
		t.Errorf("PasswordRules should mention the minimum length, got %q", PasswordRules())
	}
}

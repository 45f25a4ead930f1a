package domain

import (
	"strings"
	"unicode"
)

// PasswordValidation is the structured result of a password strength check.
// IsValid is the conjunction of all five flags; there is no partial credit.
type PasswordValidation struct {
	MinLength  bool `json:"min_length"`
	HasUpper   bool `json:"has_upper"`
	HasLower   bool `json:"has_lower"`
	HasDigit   bool `json:"has_digit"`
	HasSpecial bool `json:"has_special"`
	IsValid    bool `json:"is_valid"`
}

const passwordMinLength = 8

// passwordSpecials is the exact set of runes that satisfy HasSpecial.
// Spaces and other punctuation do not count.
const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// ValidateEmail checks for the minimal local@domain shape: a non-empty local
// part, exactly one @, and a non-empty domain.
func ValidateEmail(s string) error {
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") || at == len(s)-1 {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword evaluates the five strength criteria for a password.
func ValidatePassword(s string) PasswordValidation {
	v := PasswordValidation{MinLength: len(s) >= passwordMinLength}
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			v.HasUpper = true
		case unicode.IsLower(r):
			v.HasLower = true
		case unicode.IsDigit(r):
			v.HasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			v.HasSpecial = true
		}
	}
	v.IsValid = v.MinLength && v.HasUpper && v.HasLower && v.HasDigit && v.HasSpecial
	return v
}

// ValidateGuardianContact checks that guardian email and phone are non-empty
// and syntactically plausible.
func ValidateGuardianContact(g GuardianContact) error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrGuardianContact
	}
	if err := ValidateEmail(g.Email); err != nil {
		return ErrGuardianContact
	}
	if !plausiblePhone(g.Phone) {
		return ErrGuardianContact
	}
	switch g.Relationship {
	case "parent", "guardian", "other":
	default:
		return ErrGuardianContact
	}
	return nil
}

func plausiblePhone(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7
}

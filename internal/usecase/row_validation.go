package usecase

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	minPhoneDigits = 5
	maxPhoneDigits = 20
)

func newRowValidator() *validator.Validate {
	v := validator.New()
	// Registering a fixed tag on a fresh validator cannot fail.
	_ = v.RegisterValidation("phone", validatePhone)
	return v
}

// validatePhone accepts international and local formats: digits with spaces, dots, dashes,
// parentheses, a leading plus and an "x" extension.
func validatePhone(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	digits := 0
	for i, r := range raw {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case strings.ContainsRune(" .-()/xX", r):
		default:
			return false
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}

// checkContactFields validates the optional communication fields shared by teams and contacts.
func (s *ImportService) checkContactFields(email, phone, website string) error {
	if email != "" {
		if err := s.validate.Var(email, "email"); err != nil {
			return rowErrorf("invalid email %q", email)
		}
	}
	if phone != "" {
		if err := s.validate.Var(phone, "phone"); err != nil {
			return rowErrorf("invalid phone %q", phone)
		}
	}
	if website != "" {
		if err := s.validate.Var(website, "url"); err != nil {
			return rowErrorf("invalid website %q", website)
		}
	}
	return nil
}

func (s *ImportService) checkLinkedIn(url string) error {
	if url == "" {
		return nil
	}
	if err := s.validate.Var(url, "url"); err != nil || !strings.Contains(strings.ToLower(url), "linkedin.") {
		return rowErrorf("invalid linkedin url %q", url)
	}
	return nil
}

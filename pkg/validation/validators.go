package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// local@domain.tld with no whitespace and a single @
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("trimmed_min", TrimmedMin)
	_ = v.RegisterValidation("basic_email", BasicEmail)
}

// TrimmedMin checks the character count after trimming surrounding whitespace.
// Usage: `validate:"trimmed_min=2"`
func TrimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

// BasicEmail accepts the loose local@domain.tld shape used by the dashboard form.
// The empty string fails, so no separate required tag is needed.
func BasicEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

package email

import (
	"errors"
	"strings"

	"github.com/asaskevich/govalidator"
)

// Validation errors reported for malformed addresses.
var (
	ErrRequired = errors.New("email is required")
	ErrInvalid  = errors.New("invalid email format")
)

// Invalid carries a rejected address together with the reason.
type Invalid struct {
	Email  string
	Reason string
}

// Validate normalizes the address by trimming and lower-casing and checks it
// against a permissive local@domain.tld shape.
func Validate(s string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	if normalized == "" {
		return "", ErrRequired
	}

	if !govalidator.IsEmail(normalized) {
		return "", ErrInvalid
	}

	return normalized, nil
}

// ValidateAll partitions the given addresses into normalized valid ones,
// deduplicated in first-seen order, and invalid ones with their reason.
func ValidateAll(in []string) ([]string, []Invalid) {
	var (
		valid   = []string{}
		invalid = []Invalid{}
		seen    = map[string]struct{}{}
	)

	for _, s := range in {
		normalized, err := Validate(s)
		if err != nil {
			invalid = append(invalid, Invalid{
				Email:  s,
				Reason: err.Error(),
			})

			continue
		}

		if _, ok := seen[normalized]; ok {
			continue
		}

		seen[normalized] = struct{}{}

		valid = append(valid, normalized)
	}

	return valid, invalid
}

// ParseList splits free text on commas, semicolons and newlines and drops
// empty tokens.
func ParseList(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})

	es := []string{}

	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}

		es = append(es, f)
	}

	return es
}

// Package validate parses and normalizes free-text form input.
//
// Every parser returns (values, error). A nil error with an empty result means
// the input was blank, which is a valid empty value.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

const (
	// MinSize is the smallest accepted ring size.
	MinSize = 1.0
	// MaxSize is the largest accepted ring size.
	MaxSize = 1000.0
)

// sizeToken is a plain decimal: digits with an optional fraction.
// Signs, exponents, hex floats, NaN and Inf are not sizes.
var sizeToken = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

// SizeError reports the first size token that could not be accepted.
type SizeError struct {
	Token  string
	Reason string
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("invalid size %q: %s", e.Token, e.Reason)
}

// ParseSizes parses a comma separated list of decimal sizes.
// The result is de-duplicated and sorted ascending.
func ParseSizes(text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return []float64{}, nil
	}

	seen := make(map[float64]struct{})
	sizes := make([]float64, 0, 4)
	for _, raw := range strings.Split(text, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if !sizeToken.MatchString(token) {
			return nil, &SizeError{Token: token, Reason: "not a number"}
		}
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, &SizeError{Token: token, Reason: "not a number"}
		}
		if v < MinSize || v > MaxSize {
			return nil, &SizeError{Token: token, Reason: "out of range"}
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		sizes = append(sizes, v)
	}
	sort.Float64s(sizes)
	return sizes, nil
}

// FormatSizes renders sizes in their shortest decimal form, comma separated.
func FormatSizes(sizes []float64) string {
	parts := make([]string, 0, len(sizes))
	for _, s := range sizes {
		parts = append(parts, strconv.FormatFloat(s, 'f', -1, 64))
	}
	return strings.Join(parts, ", ")
}

// Uzbek mobile operator prefixes accepted after the +998 country code.
var operatorCodes = map[string]struct{}{
	"20": {}, "33": {}, "50": {}, "55": {}, "77": {}, "88": {}, "90": {},
	"91": {}, "93": {}, "94": {}, "95": {}, "97": {}, "98": {}, "99": {},
}

var (
	phonePattern = regexp.MustCompile(`^\+998(\d{2})\d{7}$`)
)

// stripPhoneNoise drops whitespace of any kind, hyphens and parentheses.
func stripPhoneNoise(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, s)
}

// PhoneError lists every candidate that failed validation, as typed.
type PhoneError struct {
	Invalid []string
}

func (e *PhoneError) Error() string {
	return "invalid phone numbers: " + strings.Join(e.Invalid, ", ")
}

// ParsePhones parses a comma separated list of Uzbek phone numbers.
// Whitespace, hyphens and parentheses are stripped before matching.
func ParsePhones(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	var (
		phones  []string
		invalid []string
	)
	for _, raw := range strings.Split(text, ",") {
		candidate := strings.TrimSpace(raw)
		if candidate == "" {
			continue
		}
		if phone, ok := NormalizePhone(candidate); ok {
			phones = append(phones, phone)
			continue
		}
		invalid = append(invalid, candidate)
	}
	if len(invalid) > 0 {
		return nil, &PhoneError{Invalid: invalid}
	}
	if phones == nil {
		phones = []string{}
	}
	return phones, nil
}

// NormalizePhone strips formatting noise and reports whether the result is a
// valid +998 mobile number.
func NormalizePhone(candidate string) (string, bool) {
	cleaned := stripPhoneNoise(candidate)
	m := phonePattern.FindStringSubmatch(cleaned)
	if m == nil {
		return "", false
	}
	if _, ok := operatorCodes[m[1]]; !ok {
		return "", false
	}
	return cleaned, true
}

// NormalizeHandle trims whitespace and one leading '@'.
// It returns nil for blank input.
func NormalizeHandle(text string) *string {
	h := strings.TrimSpace(text)
	h = strings.TrimPrefix(h, "@")
	h = strings.TrimSpace(h)
	if h == "" {
		return nil
	}
	return &h
}

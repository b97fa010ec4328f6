// Package normalizers provides field normalization used for matching and merging
package normalizers

import (
	"strconv"
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("ntext", Text)
	Register("nphone", Phone)
	Register("nemail", Email)
	Register("nzip", ZipDigits)
	Register("naddress", AddressLine)
	Register("digits_only", DigitsOnly)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Text normalizes free-form text for comparison: trim, lowercase and
// collapse internal whitespace runs to single spaces.
func Text(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var result strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				result.WriteRune(' ')
				prevSpace = true
			}
			continue
		}
		result.WriteRune(r)
		prevSpace = false
	}
	return result.String()
}

// TextEqual reports whether two free-form values are equal after Text normalization.
func TextEqual(a, b string) bool {
	return Text(a) == Text(b)
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Phone normalizes a phone number to a canonical digit form. Swiss prefixes
// are collapsed first: "0041" and "+41" both become "41", and a national
// leading "0" is rewritten to "41". Everything but digits is dropped.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range s {
		if i == 0 && r == '+' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	n := b.String()
	switch {
	case strings.HasPrefix(n, "+41"):
		n = "41" + n[3:]
	case strings.HasPrefix(n, "0041"):
		n = "41" + n[4:]
	case strings.HasPrefix(n, "+"):
		n = n[1:]
	case strings.HasPrefix(n, "0"):
		n = "41" + n[1:]
	}
	return n
}

// PhoneEqual reports whether two phone numbers are equal after normalization.
// Two empty numbers are never considered equal.
func PhoneEqual(a, b string) bool {
	na, nb := Phone(a), Phone(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb
}

// Email normalizes an email address (lowercase, trim)
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ZipDigits keeps only the digits of a postal code
func ZipDigits(s string) string {
	return DigitsOnly(s)
}

// ZipEqual compares two postal codes by their numeric value. "8004" and
// "CH-8004" are equal; values without any digit never match.
func ZipEqual(a, b string) bool {
	da, db := DigitsOnly(a), DigitsOnly(b)
	if da == "" || db == "" {
		return false
	}
	na, errA := strconv.Atoi(da)
	nb, errB := strconv.Atoi(db)
	if errA != nil || errB != nil {
		return false
	}
	return na == nb
}

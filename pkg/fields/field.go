// Package fields implements the typed field values a member record is made of.
//
// Every field carries an internal key (used throughout the engine) and an
// external key (the remote CRM's attribute name). A field's stored value is
// always either absent or one of its valid canonical forms: free text is
// trimmed with collapsed whitespace, dates are YYYY-MM-DD, select values are
// recognized internal option keys.
package fields

import (
	"regexp"
	"strings"

	"github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

// Kind identifies the capability set of a field.
type Kind string

const (
	KindFree        Kind = "free"
	KindText        Kind = "text"
	KindLongText    Kind = "long_text"
	KindDate        Kind = "date"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multi_select"
)

// Field is a typed, self-validating value holder.
type Field interface {
	Key() string
	ExternalKey() string
	Kind() Kind

	// Value returns the canonical stored value; "" means absent.
	Value() string
	IsEmpty() bool
	IsDirty() bool

	// Set validates and normalizes a raw value. An empty or whitespace-only
	// value clears the field. Returns a ValidationError for invalid input.
	Set(raw string) error
	Clear()

	// Adopt copies another field's canonical value into this field.
	Adopt(other Field)

	// Equals reports normalized equality with another field's value.
	Equals(other Field) bool

	// ExternalValue returns the value in the remote CRM's vocabulary.
	ExternalValue() string
	// SetExternal assigns from the remote CRM's vocabulary.
	SetExternal(raw string) error
}

// baseField carries the shared key/value/dirty state.
type baseField struct {
	def   Definition
	value string
	dirty bool
}

func (f *baseField) Key() string         { return f.def.Key }
func (f *baseField) ExternalKey() string { return f.def.ExternalKey }
func (f *baseField) Kind() Kind          { return f.def.Kind }
func (f *baseField) Value() string       { return f.value }
func (f *baseField) IsEmpty() bool       { return f.value == "" }
func (f *baseField) IsDirty() bool       { return f.dirty }

func (f *baseField) Clear() {
	if f.value != "" {
		f.dirty = true
	}
	f.value = ""
}

func (f *baseField) store(canonical string) {
	if f.value != canonical {
		f.dirty = true
	}
	f.value = canonical
}

// FreeField is an unconstrained optional string. Values are trimmed and
// internal whitespace is collapsed; an empty result clears the field.
type FreeField struct {
	baseField
}

func (f *FreeField) Set(raw string) error {
	f.store(collapseWhitespace(raw))
	return nil
}

func (f *FreeField) Adopt(other Field) {
	f.store(other.Value())
}

func (f *FreeField) Equals(other Field) bool {
	return normalizers.TextEqual(f.value, other.Value())
}

func (f *FreeField) ExternalValue() string      { return f.value }
func (f *FreeField) SetExternal(raw string) error { return f.Set(raw) }

// TextField is a FreeField with a maximum length and append support.
type TextField struct {
	FreeField
}

func (f *TextField) Set(raw string) error {
	v := collapseWhitespace(raw)
	if f.def.MaxLength > 0 && len([]rune(v)) > f.def.MaxLength {
		return errors.NewValidation(f.def.Key, raw, "value exceeds maximum length")
	}
	f.store(v)
	return nil
}

func (f *TextField) SetExternal(raw string) error { return f.Set(raw) }

// ContainsWord reports whether the value contains the given text on word
// boundaries, ignoring case.
func (f *TextField) ContainsWord(text string) bool {
	return containsWord(f.value, text)
}

// AppendIfAbsent appends text with the given separator unless the value
// already contains it on a word boundary.
func (f *TextField) AppendIfAbsent(text, separator string) error {
	text = collapseWhitespace(text)
	if text == "" || f.ContainsWord(text) {
		return nil
	}
	if f.IsEmpty() {
		return f.Set(text)
	}
	return f.Set(f.value + separator + text)
}

// LongTextField holds multi-line text with newline-separated append/remove
// semantics.
type LongTextField struct {
	baseField
}

func (f *LongTextField) Set(raw string) error {
	f.store(trimLines(raw))
	return nil
}

func (f *LongTextField) Adopt(other Field) {
	f.store(other.Value())
}

func (f *LongTextField) Equals(other Field) bool {
	return normalizers.TextEqual(f.value, other.Value())
}

func (f *LongTextField) ExternalValue() string      { return f.value }
func (f *LongTextField) SetExternal(raw string) error { return f.Set(raw) }

// ContainsWord reports whether the value contains the given text on word
// boundaries, ignoring case.
func (f *LongTextField) ContainsWord(text string) bool {
	return containsWord(f.value, text)
}

// Append adds text on a new line unless it is already contained on a word
// boundary.
func (f *LongTextField) Append(text string) {
	text = trimLines(text)
	if text == "" || f.ContainsWord(text) {
		return
	}
	if f.IsEmpty() {
		f.store(text)
		return
	}
	f.store(f.value + "\n" + text)
}

// Remove deletes any line that equals the given text after normalization.
func (f *LongTextField) Remove(text string) {
	if f.IsEmpty() {
		return
	}
	kept := make([]string, 0)
	for _, line := range strings.Split(f.value, "\n") {
		if !normalizers.TextEqual(line, text) {
			kept = append(kept, line)
		}
	}
	f.store(strings.Join(kept, "\n"))
}

func collapseWhitespace(s string) string {
	fieldsOf := strings.Fields(s)
	return strings.Join(fieldsOf, " ")
}

func trimLines(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = collapseWhitespace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func containsWord(haystack, needle string) bool {
	needle = collapseWhitespace(needle)
	if haystack == "" || needle == "" {
		return false
	}
	re, err := regexp.Compile(`(?i)(^|[^\pL\pN])` + regexp.QuoteMeta(needle) + `($|[^\pL\pN])`)
	if err != nil {
		return false
	}
	return re.MatchString(haystack)
}

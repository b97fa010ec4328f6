package fields

import (
	"strings"

	"github.com/Ramsey-B/clover/pkg/errors"
)

// Option maps an internal select value to the remote CRM's representation.
type Option struct {
	Internal string
	External string
}

// MultiSelectSeparator joins multi-select values in their canonical form.
const MultiSelectSeparator = ","

// SelectField holds one value out of a fixed option set. Values are stored in
// internal form; Set accepts either the internal or the external form.
type SelectField struct {
	baseField
}

func (f *SelectField) resolve(raw string) (string, bool) {
	raw = collapseWhitespace(raw)
	for _, opt := range f.def.Options {
		if strings.EqualFold(raw, opt.Internal) {
			return opt.Internal, true
		}
	}
	for _, opt := range f.def.Options {
		if strings.EqualFold(raw, opt.External) {
			return opt.Internal, true
		}
	}
	return "", false
}

func (f *SelectField) Set(raw string) error {
	if collapseWhitespace(raw) == "" {
		f.Clear()
		return nil
	}
	internal, ok := f.resolve(raw)
	if !ok {
		return errors.NewValidation(f.def.Key, raw, "value is not a known option")
	}
	f.store(internal)
	return nil
}

func (f *SelectField) Adopt(other Field) {
	f.store(other.Value())
}

func (f *SelectField) Equals(other Field) bool {
	return f.value == other.Value()
}

func (f *SelectField) ExternalValue() string {
	for _, opt := range f.def.Options {
		if opt.Internal == f.value {
			return opt.External
		}
	}
	return f.value
}

func (f *SelectField) SetExternal(raw string) error { return f.Set(raw) }

// MultiSelectField holds an ordered set of values out of a fixed option set.
// The canonical value is the comma-joined internal forms.
type MultiSelectField struct {
	SelectField
}

// Values returns the stored internal values in order.
func (f *MultiSelectField) Values() []string {
	if f.IsEmpty() {
		return nil
	}
	return strings.Split(f.value, MultiSelectSeparator)
}

func (f *MultiSelectField) Set(raw string) error {
	if collapseWhitespace(raw) == "" {
		f.Clear()
		return nil
	}
	parts := strings.Split(raw, MultiSelectSeparator)
	resolved := make([]string, 0, len(parts))
	for _, part := range parts {
		if collapseWhitespace(part) == "" {
			continue
		}
		internal, ok := f.resolve(part)
		if !ok {
			return errors.NewValidation(f.def.Key, part, "value is not a known option")
		}
		if !contains(resolved, internal) {
			resolved = append(resolved, internal)
		}
	}
	f.store(strings.Join(resolved, MultiSelectSeparator))
	return nil
}

// Contains reports whether the given value is selected.
func (f *MultiSelectField) Contains(value string) bool {
	internal, ok := f.resolve(value)
	if !ok {
		return false
	}
	return contains(f.Values(), internal)
}

// Append selects an additional value, preserving order and uniqueness.
func (f *MultiSelectField) Append(value string) error {
	internal, ok := f.resolve(value)
	if !ok {
		return errors.NewValidation(f.def.Key, value, "value is not a known option")
	}
	values := f.Values()
	if contains(values, internal) {
		return nil
	}
	f.store(strings.Join(append(values, internal), MultiSelectSeparator))
	return nil
}

// Remove deselects a value if present.
func (f *MultiSelectField) Remove(value string) {
	internal, ok := f.resolve(value)
	if !ok {
		return
	}
	values := f.Values()
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != internal {
			kept = append(kept, v)
		}
	}
	f.store(strings.Join(kept, MultiSelectSeparator))
}

func (f *MultiSelectField) ExternalValue() string {
	values := f.Values()
	external := make([]string, 0, len(values))
	for _, v := range values {
		mapped := v
		for _, opt := range f.def.Options {
			if opt.Internal == v {
				mapped = opt.External
				break
			}
		}
		external = append(external, mapped)
	}
	return strings.Join(external, MultiSelectSeparator)
}

func (f *MultiSelectField) SetExternal(raw string) error { return f.Set(raw) }

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

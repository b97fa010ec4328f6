package fields

import (
	"time"

	"github.com/Ramsey-B/clover/pkg/errors"
)

// DateLayout is the canonical stored form of every date value.
const DateLayout = "2006-01-02"

// dateLayouts lists the accepted input forms, tried in order.
var dateLayouts = []string{
	DateLayout,
	"2.1.2006",
	"2.1.06",
}

// ParseDate parses a raw date in any accepted layout.
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.NewValidation("date", raw, "unrecognized date format")
}

// DateField stores a calendar date in canonical YYYY-MM-DD form.
type DateField struct {
	baseField
}

func (f *DateField) Set(raw string) error {
	raw = collapseWhitespace(raw)
	if raw == "" {
		f.Clear()
		return nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return errors.NewValidation(f.def.Key, raw, "unrecognized date format")
	}
	f.store(t.Format(DateLayout))
	return nil
}

func (f *DateField) Adopt(other Field) {
	f.store(other.Value())
}

// Date returns the parsed value; ok is false when the field is absent.
func (f *DateField) Date() (time.Time, bool) {
	if f.IsEmpty() {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, f.value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (f *DateField) Equals(other Field) bool {
	return f.value == other.Value()
}

func (f *DateField) ExternalValue() string        { return f.value }
func (f *DateField) SetExternal(raw string) error { return f.Set(raw) }

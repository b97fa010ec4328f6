package models

import (
	"github.com/Ramsey-B/clover/pkg/fields"
)

// Member is one person record: an ordered set of typed fields plus identity,
// group memberships and linked debtor (billing) records. A Member with an
// empty ID has not been persisted yet.
type Member struct {
	ID        string
	Groups    []string
	DebtorIDs []string

	config *fields.Config
	fields []fields.Field
	byKey  map[string]int
}

// NewMember constructs an empty member over the given schema.
func NewMember(cfg *fields.Config) *Member {
	m := &Member{
		config: cfg,
		fields: cfg.NewAll(),
	}
	m.byKey = make(map[string]int, len(m.fields)*2)
	for i, f := range m.fields {
		m.byKey[f.Key()] = i
		if f.ExternalKey() != "" {
			m.byKey[f.ExternalKey()] = i
		}
	}
	return m
}

// Config returns the schema this member was built over.
func (m *Member) Config() *fields.Config {
	return m.config
}

// Field resolves a field by internal key, falling back to the external key.
func (m *Member) Field(key string) (fields.Field, bool) {
	i, ok := m.byKey[key]
	if !ok {
		return nil, false
	}
	return m.fields[i], true
}

// Fields returns the member's fields in schema order.
func (m *Member) Fields() []fields.Field {
	return m.fields
}

// Get returns a field's canonical value, or "" for an unknown key.
func (m *Member) Get(key string) string {
	f, ok := m.Field(key)
	if !ok {
		return ""
	}
	return f.Value()
}

// Set assigns a raw value to a field, resolving the key like Field.
func (m *Member) Set(key, raw string) error {
	f, ok := m.Field(key)
	if !ok {
		return errUnknownField(key)
	}
	return f.Set(raw)
}

// IsDirty reports whether any field changed since construction.
func (m *Member) IsDirty() bool {
	for _, f := range m.fields {
		if f.IsDirty() {
			return true
		}
	}
	return false
}

// HasGroup reports membership in the given group.
func (m *Member) HasGroup(group string) bool {
	for _, g := range m.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// Clone returns a deep copy: same schema, same values, clean dirty flags on
// the copy only where the source was clean in value terms.
func (m *Member) Clone() *Member {
	c := NewMember(m.config)
	c.ID = m.ID
	c.Groups = append([]string(nil), m.Groups...)
	c.DebtorIDs = append([]string(nil), m.DebtorIDs...)
	for i, f := range m.fields {
		c.fields[i].Adopt(f)
	}
	return c
}

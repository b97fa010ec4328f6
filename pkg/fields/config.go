package fields

import (
	"fmt"
)

// Definition describes one field of the member schema.
type Definition struct {
	Key         string
	ExternalKey string
	Kind        Kind
	MaxLength   int
	Options     []Option
}

// Config holds an ordered field schema with lookup by internal or external
// key. It is immutable after construction and safe for concurrent use.
type Config struct {
	defs       []Definition
	byInternal map[string]int
	byExternal map[string]int
}

// NewConfig builds a Config from an ordered definition list. Keys must be
// unique across both namespaces.
func NewConfig(defs []Definition) (*Config, error) {
	c := &Config{
		defs:       make([]Definition, len(defs)),
		byInternal: make(map[string]int, len(defs)),
		byExternal: make(map[string]int, len(defs)),
	}
	copy(c.defs, defs)

	for i, def := range c.defs {
		if def.Key == "" {
			return nil, fmt.Errorf("field definition %d has no key", i)
		}
		if _, ok := c.byInternal[def.Key]; ok {
			return nil, fmt.Errorf("duplicate field key %q", def.Key)
		}
		c.byInternal[def.Key] = i
		if def.ExternalKey != "" {
			if _, ok := c.byExternal[def.ExternalKey]; ok {
				return nil, fmt.Errorf("duplicate external field key %q", def.ExternalKey)
			}
			c.byExternal[def.ExternalKey] = i
		}
	}

	return c, nil
}

// Definitions returns the schema in declaration order.
func (c *Config) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Lookup resolves a key, trying the internal namespace first and the external
// namespace second.
func (c *Config) Lookup(key string) (Definition, bool) {
	if i, ok := c.byInternal[key]; ok {
		return c.defs[i], true
	}
	if i, ok := c.byExternal[key]; ok {
		return c.defs[i], true
	}
	return Definition{}, false
}

// New constructs an empty field for the given key.
func (c *Config) New(key string) (Field, error) {
	def, ok := c.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("unknown field key %q", key)
	}
	return newField(def), nil
}

// NewAll constructs one empty field per definition, in declaration order.
func (c *Config) NewAll() []Field {
	out := make([]Field, 0, len(c.defs))
	for _, def := range c.defs {
		out = append(out, newField(def))
	}
	return out
}

func newField(def Definition) Field {
	switch def.Kind {
	case KindText:
		return &TextField{FreeField{baseField{def: def}}}
	case KindLongText:
		return &LongTextField{baseField{def: def}}
	case KindDate:
		return &DateField{baseField{def: def}}
	case KindSelect:
		return &SelectField{baseField{def: def}}
	case KindMultiSelect:
		return &MultiSelectField{SelectField{baseField{def: def}}}
	default:
		return &FreeField{baseField{def: def}}
	}
}

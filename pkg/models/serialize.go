package models

// ExternalValues returns the member's non-empty field values keyed by the
// remote CRM's attribute names.
func (m *Member) ExternalValues() map[string]string {
	out := make(map[string]string)
	for _, f := range m.fields {
		if f.IsEmpty() {
			continue
		}
		out[f.ExternalKey()] = f.ExternalValue()
	}
	return out
}

// SetExternalValues assigns raw values addressed by external or internal
// keys. Unknown keys are skipped so schema drift on the remote side does not
// break loading; invalid values fail.
func (m *Member) SetExternalValues(values map[string]string) error {
	for key, raw := range values {
		f, ok := m.Field(key)
		if !ok {
			continue
		}
		if err := f.SetExternal(raw); err != nil {
			return err
		}
	}
	return nil
}

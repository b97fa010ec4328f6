package merging

import (
	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

// mergeEmailGroup reconciles email1, email2 and the email status as one
// unit. Up to four addresses are collected in order (destination first), a
// side marked invalid contributes nothing, and more than two unique
// addresses is a conflict. The group is dispatched once per field key, so
// the algorithm must be idempotent; a second run over an already merged
// destination finds the same unique set and changes nothing.
func mergeEmailGroup(dst, src *models.Member, _ string) bool {
	dstStatus := dst.Get(fields.KeyEmailStatus)
	srcStatus := src.Get(fields.KeyEmailStatus)

	var unique []string
	seen := make(map[string]bool)
	collect := func(m *models.Member, status string) {
		if status == fields.StatusInvalid {
			return
		}
		for _, key := range []string{fields.KeyEmail1, fields.KeyEmail2} {
			raw := m.Get(key)
			if raw == "" {
				continue
			}
			norm := normalizers.Email(raw)
			if seen[norm] {
				continue
			}
			seen[norm] = true
			unique = append(unique, raw)
		}
	}
	collect(dst, dstStatus)
	collect(src, srcStatus)

	if len(unique) > 2 {
		return false
	}

	email1WasUnusable := dst.Get(fields.KeyEmail1) == "" || dstStatus == fields.StatusInvalid

	email1, email2 := "", ""
	if len(unique) > 0 {
		email1 = unique[0]
	}
	if len(unique) > 1 {
		email2 = unique[1]
	}
	if dst.Set(fields.KeyEmail1, email1) != nil || dst.Set(fields.KeyEmail2, email2) != nil {
		return false
	}

	status := fieldOf(dst, fields.KeyEmailStatus)
	if email1WasUnusable && srcStatus != "" {
		status.Adopt(fieldOf(src, fields.KeyEmailStatus))
	}
	switch {
	case dstStatus == fields.StatusUnwanted || srcStatus == fields.StatusUnwanted:
		_ = dst.Set(fields.KeyEmailStatus, fields.StatusUnwanted)
	case status.IsEmpty() && srcStatus != "":
		status.Adopt(fieldOf(src, fields.KeyEmailStatus))
	}
	return true
}

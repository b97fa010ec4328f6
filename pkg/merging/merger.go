// Package merging reconciles two member records field by field. Every field
// category has its own conflict-resolution policy; the engine drives all of
// them, aggregates conflicts and only commits when none occurred.
package merging

import (
	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/models"
)

// MergeFunc reconciles one field of src into dst, mutating only dst in
// place. It returns true on success (including policy-resolved no-ops) and
// false on an irreconcilable conflict, leaving dst unchanged on conflict
// unless the policy states otherwise. Joint-group policies receive the field
// key currently being dispatched.
type MergeFunc func(dst, src *models.Member, key string) bool

// dispatch maps field keys to their category policy. Fields without an entry
// use the regular single-value policy.
var dispatch = map[string]MergeFunc{
	fields.KeyRemarks:   mergeLongText,
	fields.KeyInterests: mergeMultiSelect,

	fields.KeyEntryChannel: mergeIgnoreConflict,

	fields.KeyGender:             mergeGender,
	fields.KeySalutationFormal:   mergeSalutation,
	fields.KeySalutationInformal: mergeSalutation,
	fields.KeyCoupleCategory:     mergeCoupleCategory,
	fields.KeyRecordStatus:       mergeRecordStatus,

	fields.KeyMembershipCountry:      mergeTier,
	fields.KeyMembershipCanton:       mergeTier,
	fields.KeyMembershipRegion:       mergeTier,
	fields.KeyMembershipMunicipality: mergeTier,
	fields.KeyMembershipYoungWing:    mergeTier,
	fields.KeyMembershipStart:        mergeMembershipStart,
	fields.KeyMembershipEnd:          mergeMembershipEnd,
	fields.KeyBirthday:               mergeBirthday,

	fields.KeyPhoneMobile:   mergePhone,
	fields.KeyPhoneLandline: mergePhone,
	fields.KeyPhoneWork:     mergePhone,
	fields.KeyPhoneStatus:   mergePhoneStatus,

	fields.KeyEmail1:      mergeEmailGroup,
	fields.KeyEmail2:      mergeEmailGroup,
	fields.KeyEmailStatus: mergeEmailGroup,

	fields.KeyAddress1:   mergeAddressGroup,
	fields.KeyAddress2:   mergeAddressGroup,
	fields.KeyZip:        mergeAddressGroup,
	fields.KeyCity:       mergeAddressGroup,
	fields.KeyCountry:    mergeAddressGroup,
	fields.KeyPostStatus: mergeAddressGroup,
}

// MergerFor resolves the policy for a field key.
func MergerFor(key string) MergeFunc {
	if fn, ok := dispatch[key]; ok {
		return fn
	}
	return mergeRegular
}

func fieldOf(m *models.Member, key string) fields.Field {
	f, _ := m.Field(key)
	return f
}

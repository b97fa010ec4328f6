package merging

import (
	"strings"

	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

// mergeRegular handles single-value fields: adopt into an empty destination,
// otherwise both sides must agree.
func mergeRegular(dst, src *models.Member, key string) bool {
	d, s := fieldOf(dst, key), fieldOf(src, key)
	if s.IsEmpty() {
		return true
	}
	if d.IsEmpty() {
		d.Adopt(s)
		return true
	}
	return d.Equals(s)
}

// mergeLongText appends the source text with word-boundary dedup. Never
// conflicts.
func mergeLongText(dst, src *models.Member, key string) bool {
	d, s := fieldOf(dst, key), fieldOf(src, key)
	if s.IsEmpty() {
		return true
	}
	if d.IsEmpty() {
		d.Adopt(s)
		return true
	}
	if lt, ok := d.(*fields.LongTextField); ok {
		for _, line := range strings.Split(s.Value(), "\n") {
			lt.Append(line)
		}
		return true
	}
	return d.Equals(s)
}

// mergeMultiSelect unions the source's values into the destination. Never
// conflicts.
func mergeMultiSelect(dst, src *models.Member, key string) bool {
	d, s := fieldOf(dst, key), fieldOf(src, key)
	ms, ok := d.(*fields.MultiSelectField)
	if !ok {
		return mergeRegular(dst, src, key)
	}
	sv, ok := s.(*fields.MultiSelectField)
	if !ok {
		return true
	}
	for _, v := range sv.Values() {
		if err := ms.Append(v); err != nil {
			return false
		}
	}
	return true
}

// mergeIgnoreConflict adopts into an empty destination and silently drops
// the source otherwise.
func mergeIgnoreConflict(dst, src *models.Member, key string) bool {
	d, s := fieldOf(dst, key), fieldOf(src, key)
	if d.IsEmpty() && !s.IsEmpty() {
		d.Adopt(s)
	}
	return true
}

// mergeGender treats the neutral value as "no statement" on either side.
func mergeGender(dst, src *models.Member, key string) bool {
	d, s := fieldOf(dst, key), fieldOf(src, key)
	if s.IsEmpty() || s.Value() == fields.GenderUnknown {
		return true
	}
	if d.IsEmpty() || d.Value() == fields.GenderUnknown {
		d.Adopt(s)
		return true
	}
	return d.Equals(s)
}

// mergeSalutation treats values starting with 'n' as neutral placeholders
// that lose against a real salutation.
func mergeSalutation(dst, src *models.Member, key string) bool {
	d, s := fieldOf(dst, key), fieldOf(src, key)
	if s.IsEmpty() {
		return true
	}
	if d.IsEmpty() {
		d.Adopt(s)
		return true
	}
	if isNeutralSalutation(s.Value()) {
		return true
	}
	if isNeutralSalutation(d.Value()) {
		d.Adopt(s)
		return true
	}
	return d.Equals(s)
}

func isNeutralSalutation(v string) bool {
	return strings.HasPrefix(strings.ToLower(v), "n")
}

// mergeCoupleCategory drops a source 'single', the default for unlinked
// records.
func mergeCoupleCategory(dst, src *models.Member, key string) bool {
	d, s := fieldOf(dst, key), fieldOf(src, key)
	if s.IsEmpty() {
		return true
	}
	if d.IsEmpty() {
		d.Adopt(s)
		return true
	}
	if s.Value() == fields.CoupleSingle {
		return true
	}
	return d.Equals(s)
}

// mergeRecordStatus lets 'died' win over everything.
func mergeRecordStatus(dst, src *models.Member, key string) bool {
	d, s := fieldOf(dst, key), fieldOf(src, key)
	if s.IsEmpty() {
		return true
	}
	if d.IsEmpty() {
		d.Adopt(s)
		return true
	}
	if d.Value() == fields.RecordDied || s.Value() == fields.RecordDied {
		return d.Set(fields.RecordDied) == nil
	}
	return d.Equals(s)
}

// mergeTier adopts the source tier only when it ranks strictly higher. Never
// conflicts.
func mergeTier(dst, src *models.Member, key string) bool {
	d, s := fieldOf(dst, key), fieldOf(src, key)
	if s.IsEmpty() {
		return true
	}
	if d.IsEmpty() {
		d.Adopt(s)
		return true
	}
	if fields.TierRank(s.Value()) > fields.TierRank(d.Value()) {
		d.Adopt(s)
	}
	return true
}

// MembershipSentinel marks an unknown membership date in the legacy store.
const MembershipSentinel = "1970-01-01"

func mergeMembershipStart(dst, src *models.Member, key string) bool {
	return mergePeriodDate(dst, src, key, true)
}

func mergeMembershipEnd(dst, src *models.Member, key string) bool {
	return mergePeriodDate(dst, src, key, false)
}

// mergePeriodDate resolves membership start and end dates: the sentinel
// loses against a real date, then the earlier date wins for start and the
// later for end.
func mergePeriodDate(dst, src *models.Member, key string, start bool) bool {
	d, s := fieldOf(dst, key), fieldOf(src, key)
	if s.IsEmpty() {
		return true
	}
	if d.IsEmpty() {
		d.Adopt(s)
		return true
	}
	if d.Value() == MembershipSentinel {
		d.Adopt(s)
		return true
	}
	if s.Value() == MembershipSentinel {
		return true
	}

	df, sf := d.(*fields.DateField), s.(*fields.DateField)
	dd, dok := df.Date()
	sd, sok := sf.Date()
	if !dok || !sok {
		return false
	}
	if start {
		if sd.Before(dd) {
			d.Adopt(s)
		}
	} else {
		if sd.After(dd) {
			d.Adopt(s)
		}
	}
	return true
}

// mergeBirthday resolves the unknown-date sentinel and equal-year
// placeholders: the sentinel loses against any real date, and a January 1st
// date is a "year only known" stand-in that loses against a full date of the
// same year.
func mergeBirthday(dst, src *models.Member, key string) bool {
	d, s := fieldOf(dst, key), fieldOf(src, key)
	if s.IsEmpty() {
		return true
	}
	if d.IsEmpty() {
		d.Adopt(s)
		return true
	}
	if d.Equals(s) {
		return true
	}
	if d.Value() == MembershipSentinel {
		d.Adopt(s)
		return true
	}
	if s.Value() == MembershipSentinel {
		return true
	}

	df, sf := d.(*fields.DateField), s.(*fields.DateField)
	dd, dok := df.Date()
	sd, sok := sf.Date()
	if !dok || !sok {
		return false
	}
	if dd.Year() == sd.Year() {
		dstPlaceholder := dd.Month() == 1 && dd.Day() == 1
		srcPlaceholder := sd.Month() == 1 && sd.Day() == 1
		if dstPlaceholder && !srcPlaceholder {
			d.Adopt(s)
			return true
		}
		if srcPlaceholder && !dstPlaceholder {
			return true
		}
	}
	return false
}

// mergePhone keeps the destination number unless it is empty; an 'unwanted'
// contact status on either side marks the destination unwanted instead of
// conflicting.
func mergePhone(dst, src *models.Member, key string) bool {
	d, s := fieldOf(dst, key), fieldOf(src, key)
	if s.IsEmpty() {
		return true
	}
	if normalizers.PhoneEqual(d.Value(), s.Value()) {
		return true
	}
	if dst.Get(fields.KeyPhoneStatus) == fields.StatusUnwanted || src.Get(fields.KeyPhoneStatus) == fields.StatusUnwanted {
		return dst.Set(fields.KeyPhoneStatus, fields.StatusUnwanted) == nil
	}
	if d.IsEmpty() {
		d.Adopt(s)
		return true
	}
	return false
}

// mergePhoneStatus adopts into an empty destination and lets 'unwanted' win.
// Never conflicts.
func mergePhoneStatus(dst, src *models.Member, key string) bool {
	d, s := fieldOf(dst, key), fieldOf(src, key)
	if s.IsEmpty() {
		return true
	}
	if d.IsEmpty() {
		d.Adopt(s)
		return true
	}
	if s.Value() == fields.StatusUnwanted {
		d.Adopt(s)
	}
	return true
}

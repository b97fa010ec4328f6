package merging

import (
	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

var addressValueKeys = []string{
	fields.KeyAddress1,
	fields.KeyAddress2,
	fields.KeyZip,
	fields.KeyCity,
}

// mergeAddressGroup reconciles the postal address block as one unit. It is
// dispatched once per field key of the group; the country gap-fill counts as
// a change only on the country and post-status passes, mirroring the legacy
// behavior field for field.
func mergeAddressGroup(dst, src *models.Member, key string) bool {
	if addressEmpty(src) {
		return true
	}

	similar := addressSimilar(dst, src)
	srcCountry := src.Get(fields.KeyCountry)
	countryCompatible := srcCountry == "" || normalizers.TextEqual(dst.Get(fields.KeyCountry), srcCountry)
	if similar && countryCompatible {
		return true
	}

	if addressEmpty(dst) {
		copyAddress(dst, src)
		return true
	}

	// A confirmed-bad destination address yields to a deliverable source
	// address that points somewhere else.
	if dst.Get(fields.KeyPostStatus) == fields.StatusInvalid &&
		src.Get(fields.KeyPostStatus) == fields.StatusActive &&
		src.Get(fields.KeyZip) != "" && src.Get(fields.KeyCity) != "" &&
		(src.Get(fields.KeyAddress1) != "" || src.Get(fields.KeyAddress2) != "") &&
		!similar {
		copyAddress(dst, src)
		_ = dst.Set(fields.KeyPostStatus, src.Get(fields.KeyPostStatus))
		return true
	}

	if src.Get(fields.KeyPostStatus) == fields.StatusInvalid {
		return false
	}
	return gapFillAddress(dst, src, key)
}

func gapFillAddress(dst, src *models.Member, key string) bool {
	changed := false
	adopt := func(fieldKey string) {
		fieldOf(dst, fieldKey).Adopt(fieldOf(src, fieldKey))
		changed = true
	}

	dstLine1 := dst.Get(fields.KeyAddress1)
	srcLine1 := src.Get(fields.KeyAddress1)
	srcLine2 := src.Get(fields.KeyAddress2)

	if dst.Get(fields.KeyAddress2) == "" && srcLine2 != "" &&
		(dstLine1 == "" || normalizers.AddressLineSimilar(dstLine1, srcLine1)) &&
		!normalizers.AddressLineSimilar(srcLine2, dstLine1) {
		adopt(fields.KeyAddress2)
	}

	if dst.Get(fields.KeyAddress1) == "" && srcLine1 != "" &&
		!normalizers.AddressLineSimilar(srcLine1, dst.Get(fields.KeyAddress2)) {
		adopt(fields.KeyAddress1)
	}

	if dst.Get(fields.KeyZip) == "" && src.Get(fields.KeyZip) != "" &&
		(dst.Get(fields.KeyCity) == "" || normalizers.TextEqual(dst.Get(fields.KeyCity), src.Get(fields.KeyCity))) {
		adopt(fields.KeyZip)
	}

	if dst.Get(fields.KeyCity) == "" && src.Get(fields.KeyCity) != "" &&
		(dst.Get(fields.KeyZip) == "" || normalizers.ZipEqual(dst.Get(fields.KeyZip), src.Get(fields.KeyZip))) {
		adopt(fields.KeyCity)
	}

	if changed && dst.Get(fields.KeyPostStatus) != fields.StatusUnwanted && src.Get(fields.KeyPostStatus) != "" {
		fieldOf(dst, fields.KeyPostStatus).Adopt(fieldOf(src, fields.KeyPostStatus))
	}

	if dst.Get(fields.KeyCountry) == "" && src.Get(fields.KeyCountry) != "" {
		fieldOf(dst, fields.KeyCountry).Adopt(fieldOf(src, fields.KeyCountry))
		// Counts as a change only on the country and post-status passes.
		if key == fields.KeyCountry || key == fields.KeyPostStatus {
			changed = true
		}
	}

	return changed
}

func copyAddress(dst, src *models.Member) {
	for _, key := range addressValueKeys {
		fieldOf(dst, key).Adopt(fieldOf(src, key))
	}
	fieldOf(dst, fields.KeyCountry).Adopt(fieldOf(src, fields.KeyCountry))
	if dst.Get(fields.KeyPostStatus) != fields.StatusUnwanted {
		fieldOf(dst, fields.KeyPostStatus).Adopt(fieldOf(src, fields.KeyPostStatus))
	}
}

func addressEmpty(m *models.Member) bool {
	for _, key := range addressValueKeys {
		if m.Get(key) != "" {
			return false
		}
	}
	return true
}

// addressSimilar compares whole addresses: both lines fuzzy-similar, zips
// equal and cities normalized-equal, empty sides counting as equal.
func addressSimilar(a, b *models.Member) bool {
	if !normalizers.AddressLineSimilar(a.Get(fields.KeyAddress1), b.Get(fields.KeyAddress1)) {
		return false
	}
	if !normalizers.AddressLineSimilar(a.Get(fields.KeyAddress2), b.Get(fields.KeyAddress2)) {
		return false
	}
	azip, bzip := a.Get(fields.KeyZip), b.Get(fields.KeyZip)
	if azip != "" || bzip != "" {
		if !normalizers.ZipEqual(azip, bzip) {
			return false
		}
	}
	acity, bcity := a.Get(fields.KeyCity), b.Get(fields.KeyCity)
	if acity != "" || bcity != "" {
		if !normalizers.TextEqual(acity, bcity) {
			return false
		}
	}
	return true
}

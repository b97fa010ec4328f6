package merging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/models"
)

func member(t *testing.T, values map[string]string) *models.Member {
	t.Helper()
	m := models.NewMember(fields.Default())
	for key, value := range values {
		require.NoError(t, m.Set(key, value))
	}
	return m
}

// mergeKey dispatches one field through the policy table.
func mergeKey(dst, src *models.Member, key string) bool {
	return MergerFor(key)(dst, src, key)
}

func TestMergeRegular(t *testing.T) {
	key := fields.KeyLastName

	t.Run("empty source is a no-op", func(t *testing.T) {
		dst := member(t, map[string]string{key: "Keller"})
		assert.True(t, mergeKey(dst, member(t, nil), key))
		assert.Equal(t, "Keller", dst.Get(key))
	})

	t.Run("empty destination adopts", func(t *testing.T) {
		dst := member(t, nil)
		assert.True(t, mergeKey(dst, member(t, map[string]string{key: "Keller"}), key))
		assert.Equal(t, "Keller", dst.Get(key))
	})

	t.Run("normalized equality is not a conflict", func(t *testing.T) {
		dst := member(t, map[string]string{key: "Keller"})
		assert.True(t, mergeKey(dst, member(t, map[string]string{key: "  keller "}), key))
		assert.Equal(t, "Keller", dst.Get(key))
	})

	t.Run("differing values conflict and leave destination alone", func(t *testing.T) {
		dst := member(t, map[string]string{key: "Keller"})
		assert.False(t, mergeKey(dst, member(t, map[string]string{key: "Meier"}), key))
		assert.Equal(t, "Keller", dst.Get(key))
	})
}

func TestMergeLongText(t *testing.T) {
	key := fields.KeyRemarks

	dst := member(t, map[string]string{key: "prefers post"})
	src := member(t, map[string]string{key: "prefers post\nno calls"})
	assert.True(t, mergeKey(dst, src, key))
	assert.Equal(t, "prefers post\nno calls", dst.Get(key))
}

func TestMergeMultiSelect(t *testing.T) {
	key := fields.KeyInterests

	dst := member(t, map[string]string{key: "politics"})
	src := member(t, map[string]string{key: "politics,sport"})
	assert.True(t, mergeKey(dst, src, key))
	assert.Equal(t, "politics,sport", dst.Get(key))
}

func TestMergeIgnoreConflict(t *testing.T) {
	key := fields.KeyEntryChannel

	t.Run("adopts into empty destination", func(t *testing.T) {
		dst := member(t, nil)
		assert.True(t, mergeKey(dst, member(t, map[string]string{key: "online"}), key))
		assert.Equal(t, "online", dst.Get(key))
	})

	t.Run("silently drops the source otherwise", func(t *testing.T) {
		dst := member(t, map[string]string{key: "paper"})
		assert.True(t, mergeKey(dst, member(t, map[string]string{key: "online"}), key))
		assert.Equal(t, "paper", dst.Get(key))
	})
}

func TestMergeGender(t *testing.T) {
	key := fields.KeyGender

	tests := []struct {
		name     string
		dst, src string
		ok       bool
		want     string
	}{
		{name: "neutral source is no statement", dst: "f", src: "n", ok: true, want: "f"},
		{name: "neutral destination adopts", dst: "n", src: "m", ok: true, want: "m"},
		{name: "empty destination adopts", dst: "", src: "f", ok: true, want: "f"},
		{name: "equal", dst: "m", src: "m", ok: true, want: "m"},
		{name: "conflict", dst: "m", src: "f", ok: false, want: "m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := member(t, map[string]string{key: tt.dst})
			src := member(t, map[string]string{key: tt.src})
			assert.Equal(t, tt.ok, mergeKey(dst, src, key))
			assert.Equal(t, tt.want, dst.Get(key))
		})
	}
}

func TestMergeSalutation(t *testing.T) {
	key := fields.KeySalutationFormal

	t.Run("neutral source loses", func(t *testing.T) {
		dst := member(t, map[string]string{key: "Sehr geehrte Frau"})
		src := member(t, map[string]string{key: "n/a"})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, "Sehr geehrte Frau", dst.Get(key))
	})

	t.Run("neutral destination adopts", func(t *testing.T) {
		dst := member(t, map[string]string{key: "n/a"})
		src := member(t, map[string]string{key: "Sehr geehrter Herr"})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, "Sehr geehrter Herr", dst.Get(key))
	})

	t.Run("differing real salutations conflict", func(t *testing.T) {
		dst := member(t, map[string]string{key: "Sehr geehrte Frau"})
		src := member(t, map[string]string{key: "Sehr geehrter Herr"})
		assert.False(t, mergeKey(dst, src, key))
	})
}

func TestMergeCoupleCategory(t *testing.T) {
	key := fields.KeyCoupleCategory

	t.Run("single source is the default and loses", func(t *testing.T) {
		dst := member(t, map[string]string{key: "couple"})
		src := member(t, map[string]string{key: fields.CoupleSingle})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, "couple", dst.Get(key))
	})

	t.Run("real categories conflict", func(t *testing.T) {
		dst := member(t, map[string]string{key: "household"})
		src := member(t, map[string]string{key: "couple"})
		assert.False(t, mergeKey(dst, src, key))
	})
}

func TestMergeRecordStatus(t *testing.T) {
	key := fields.KeyRecordStatus

	t.Run("died wins in either direction", func(t *testing.T) {
		dst := member(t, map[string]string{key: fields.RecordActive})
		src := member(t, map[string]string{key: fields.RecordDied})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, fields.RecordDied, dst.Get(key))

		dst = member(t, map[string]string{key: fields.RecordDied})
		src = member(t, map[string]string{key: fields.RecordActive})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, fields.RecordDied, dst.Get(key))
	})

	t.Run("other statuses conflict", func(t *testing.T) {
		dst := member(t, map[string]string{key: fields.RecordActive})
		src := member(t, map[string]string{key: fields.RecordInactive})
		assert.False(t, mergeKey(dst, src, key))
	})
}

func TestMergeTier(t *testing.T) {
	key := fields.KeyMembershipCanton

	t.Run("is monotonic", func(t *testing.T) {
		dst := member(t, map[string]string{key: fields.TierMember})
		src := member(t, map[string]string{key: fields.TierSympathiser})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, fields.TierMember, dst.Get(key))
	})

	t.Run("expelled wins over everything", func(t *testing.T) {
		for _, tier := range []string{fields.TierNotMember, fields.TierMember, fields.TierResigned} {
			dst := member(t, map[string]string{key: tier})
			src := member(t, map[string]string{key: fields.TierExpelled})
			assert.True(t, mergeKey(dst, src, key))
			assert.Equal(t, fields.TierExpelled, dst.Get(key))
		}
	})

	t.Run("never conflicts", func(t *testing.T) {
		dst := member(t, map[string]string{key: fields.TierResigned})
		src := member(t, map[string]string{key: fields.TierMember})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, fields.TierResigned, dst.Get(key))
	})
}

func TestMergeMembershipDates(t *testing.T) {
	t.Run("start adopts the earlier date", func(t *testing.T) {
		dst := member(t, map[string]string{fields.KeyMembershipStart: "2005-06-01"})
		src := member(t, map[string]string{fields.KeyMembershipStart: "2001-01-15"})
		assert.True(t, mergeKey(dst, src, fields.KeyMembershipStart))
		assert.Equal(t, "2001-01-15", dst.Get(fields.KeyMembershipStart))
	})

	t.Run("end adopts the later date", func(t *testing.T) {
		dst := member(t, map[string]string{fields.KeyMembershipEnd: "2010-01-01"})
		src := member(t, map[string]string{fields.KeyMembershipEnd: "2015-12-31"})
		assert.True(t, mergeKey(dst, src, fields.KeyMembershipEnd))
		assert.Equal(t, "2015-12-31", dst.Get(fields.KeyMembershipEnd))
	})

	t.Run("sentinel loses against a real date", func(t *testing.T) {
		dst := member(t, map[string]string{fields.KeyMembershipStart: MembershipSentinel})
		src := member(t, map[string]string{fields.KeyMembershipStart: "2005-06-01"})
		assert.True(t, mergeKey(dst, src, fields.KeyMembershipStart))
		assert.Equal(t, "2005-06-01", dst.Get(fields.KeyMembershipStart))

		dst = member(t, map[string]string{fields.KeyMembershipEnd: "2010-01-01"})
		src = member(t, map[string]string{fields.KeyMembershipEnd: MembershipSentinel})
		assert.True(t, mergeKey(dst, src, fields.KeyMembershipEnd))
		assert.Equal(t, "2010-01-01", dst.Get(fields.KeyMembershipEnd))
	})
}

func TestMergeBirthday(t *testing.T) {
	key := fields.KeyBirthday

	t.Run("january first placeholder loses for the same year", func(t *testing.T) {
		dst := member(t, map[string]string{key: "1984-01-01"})
		src := member(t, map[string]string{key: "1984-03-07"})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, "1984-03-07", dst.Get(key))

		dst = member(t, map[string]string{key: "1984-03-07"})
		src = member(t, map[string]string{key: "1984-01-01"})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, "1984-03-07", dst.Get(key))
	})

	t.Run("sentinel loses against a real date", func(t *testing.T) {
		dst := member(t, map[string]string{key: "1970-01-01"})
		src := member(t, map[string]string{key: "1985-03-07"})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, "1985-03-07", dst.Get(key))

		dst = member(t, map[string]string{key: "1985-03-07"})
		src = member(t, map[string]string{key: "1970-01-01"})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, "1985-03-07", dst.Get(key))
	})

	t.Run("different years conflict", func(t *testing.T) {
		dst := member(t, map[string]string{key: "1984-01-01"})
		src := member(t, map[string]string{key: "1985-03-07"})
		assert.False(t, mergeKey(dst, src, key))
		assert.Equal(t, "1984-01-01", dst.Get(key))
	})

	t.Run("two full dates of the same year conflict", func(t *testing.T) {
		dst := member(t, map[string]string{key: "1984-03-07"})
		src := member(t, map[string]string{key: "1984-08-20"})
		assert.False(t, mergeKey(dst, src, key))
	})
}

func TestMergePhone(t *testing.T) {
	key := fields.KeyPhoneMobile

	t.Run("normalized equality is a no-op", func(t *testing.T) {
		dst := member(t, map[string]string{key: "079 123 45 67"})
		src := member(t, map[string]string{key: "+41791234567"})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, "079 123 45 67", dst.Get(key))
	})

	t.Run("unwanted status resolves differing numbers", func(t *testing.T) {
		dst := member(t, map[string]string{key: "079 123 45 67"})
		src := member(t, map[string]string{
			key:                   "079 999 88 77",
			fields.KeyPhoneStatus: fields.StatusUnwanted,
		})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, fields.StatusUnwanted, dst.Get(fields.KeyPhoneStatus))
		assert.Equal(t, "079 123 45 67", dst.Get(key))
	})

	t.Run("empty destination adopts", func(t *testing.T) {
		dst := member(t, nil)
		src := member(t, map[string]string{key: "079 999 88 77"})
		assert.True(t, mergeKey(dst, src, key))
		assert.Equal(t, "079 999 88 77", dst.Get(key))
	})

	t.Run("differing numbers conflict", func(t *testing.T) {
		dst := member(t, map[string]string{key: "079 123 45 67"})
		src := member(t, map[string]string{key: "079 999 88 77"})
		assert.False(t, mergeKey(dst, src, key))
		assert.Equal(t, "079 123 45 67", dst.Get(key))
	})
}

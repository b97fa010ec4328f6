package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cloverErrors "github.com/Ramsey-B/clover/pkg/errors"
)

func mustField(t *testing.T, key string) Field {
	t.Helper()
	f, err := Default().New(key)
	require.NoError(t, err)
	return f
}

func TestFreeField(t *testing.T) {
	t.Run("collapses whitespace", func(t *testing.T) {
		f := mustField(t, KeyEntryChannel)
		require.NoError(t, f.Set("  online   form "))
		assert.Equal(t, "online form", f.Value())
		assert.True(t, f.IsDirty())
	})

	t.Run("whitespace only clears", func(t *testing.T) {
		f := mustField(t, KeyEntryChannel)
		require.NoError(t, f.Set("   "))
		assert.True(t, f.IsEmpty())
	})

	t.Run("equality ignores case and spacing", func(t *testing.T) {
		a := mustField(t, KeyEntryChannel)
		b := mustField(t, KeyEntryChannel)
		require.NoError(t, a.Set("Online  Form"))
		require.NoError(t, b.Set("online form"))
		assert.True(t, a.Equals(b))
	})
}

func TestTextField(t *testing.T) {
	t.Run("rejects overlong value", func(t *testing.T) {
		f := mustField(t, KeyZip)
		err := f.Set("12345678901")
		require.Error(t, err)
		assert.True(t, cloverErrors.IsValidation(err))
		assert.True(t, f.IsEmpty())
	})

	t.Run("contains word respects boundaries", func(t *testing.T) {
		f := mustField(t, KeyFirstName).(*TextField)
		require.NoError(t, f.Set("Hans-Peter"))
		assert.True(t, f.ContainsWord("hans"))
		assert.True(t, f.ContainsWord("Peter"))
		assert.False(t, f.ContainsWord("ans"))
	})

	t.Run("append if absent", func(t *testing.T) {
		f := mustField(t, KeyFirstName).(*TextField)
		require.NoError(t, f.Set("Anna"))
		require.NoError(t, f.AppendIfAbsent("Maria", " "))
		assert.Equal(t, "Anna Maria", f.Value())
		require.NoError(t, f.AppendIfAbsent("anna", " "))
		assert.Equal(t, "Anna Maria", f.Value())
	})
}

func TestLongTextField(t *testing.T) {
	t.Run("append dedupes on word boundary", func(t *testing.T) {
		f := mustField(t, KeyRemarks).(*LongTextField)
		require.NoError(t, f.Set("prefers post"))
		f.Append("no phone calls")
		assert.Equal(t, "prefers post\nno phone calls", f.Value())
		f.Append("Prefers Post")
		assert.Equal(t, "prefers post\nno phone calls", f.Value())
	})

	t.Run("remove drops matching line", func(t *testing.T) {
		f := mustField(t, KeyRemarks).(*LongTextField)
		require.NoError(t, f.Set("first\nsecond\nthird"))
		f.Remove("Second")
		assert.Equal(t, "first\nthird", f.Value())
	})
}

func TestDateField(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "iso", raw: "1984-03-07", want: "1984-03-07"},
		{name: "dotted full year", raw: "7.3.1984", want: "1984-03-07"},
		{name: "dotted short year", raw: "7.3.84", want: "1984-03-07"},
		{name: "garbage", raw: "next tuesday", wantErr: true},
		{name: "impossible day", raw: "32.1.2020", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustField(t, KeyBirthday)
			err := f.Set(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, cloverErrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Value())
		})
	}
}

func TestSelectField(t *testing.T) {
	t.Run("accepts internal form", func(t *testing.T) {
		f := mustField(t, KeyMembershipCanton)
		require.NoError(t, f.Set("member"))
		assert.Equal(t, TierMember, f.Value())
	})

	t.Run("accepts external form", func(t *testing.T) {
		f := mustField(t, KeyMembershipCanton)
		require.NoError(t, f.Set("notMember"))
		assert.Equal(t, TierNotMember, f.Value())
	})

	t.Run("rejects unknown option", func(t *testing.T) {
		f := mustField(t, KeyMembershipCanton)
		err := f.Set("vip")
		require.Error(t, err)
		assert.True(t, cloverErrors.IsValidation(err))
	})

	t.Run("external value maps back", func(t *testing.T) {
		f := mustField(t, KeyGender)
		require.NoError(t, f.Set("female"))
		assert.Equal(t, "f", f.Value())
		assert.Equal(t, "female", f.ExternalValue())
	})
}

func TestMultiSelectField(t *testing.T) {
	f := mustField(t, KeyInterests).(*MultiSelectField)
	require.NoError(t, f.Set("politics,environment"))
	assert.Equal(t, []string{"politics", "environment"}, f.Values())

	require.NoError(t, f.Append("environment"))
	assert.Equal(t, []string{"politics", "environment"}, f.Values())

	require.NoError(t, f.Append("sport"))
	assert.True(t, f.Contains("sport"))

	f.Remove("politics")
	assert.Equal(t, []string{"environment", "sport"}, f.Values())
}

func TestConfig(t *testing.T) {
	t.Run("lookup prefers internal namespace", func(t *testing.T) {
		cfg := Default()
		def, ok := cfg.Lookup(KeyFirstName)
		require.True(t, ok)
		assert.Equal(t, "firstName", def.ExternalKey)

		def, ok = cfg.Lookup("lastName")
		require.True(t, ok)
		assert.Equal(t, KeyLastName, def.Key)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Default().New("shoe_size")
		require.Error(t, err)
	})

	t.Run("duplicate key rejected", func(t *testing.T) {
		_, err := NewConfig([]Definition{
			{Key: "a", ExternalKey: "x", Kind: KindFree},
			{Key: "a", ExternalKey: "y", Kind: KindFree},
		})
		require.Error(t, err)
	})

	t.Run("new all preserves order", func(t *testing.T) {
		cfg := Default()
		all := cfg.NewAll()
		require.Equal(t, len(cfg.Definitions()), len(all))
		assert.Equal(t, KeyFirstName, all[0].Key())
	})
}

func TestTierRank(t *testing.T) {
	assert.Greater(t, TierRank(TierExpelled), TierRank(TierResigned))
	assert.Greater(t, TierRank(TierResigned), TierRank(TierMember))
	assert.Greater(t, TierRank(TierMember), TierRank(TierUnconfirmed))
	assert.Greater(t, TierRank(TierUnconfirmed), TierRank(TierSympathiser))
	assert.Greater(t, TierRank(TierSympathiser), TierRank(TierNotMember))
	assert.Greater(t, TierRank(TierNotMember), TierRank(""))
}

func TestTierScore(t *testing.T) {
	// One member flag outweighs five sympathiser flags, one unconfirmed
	// outweighs five sympathiser, one member outweighs one unconfirmed plus
	// four sympathiser.
	assert.Greater(t, TierScore(TierMember), 5*TierScore(TierSympathiser))
	assert.Greater(t, TierScore(TierUnconfirmed), 5*TierScore(TierSympathiser))
	assert.Greater(t, TierScore(TierMember), TierScore(TierUnconfirmed)+4*TierScore(TierSympathiser))
	assert.Zero(t, TierScore(TierResigned))
}

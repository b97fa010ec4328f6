package matching

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/crm"
	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func member(t *testing.T, values map[string]string) *models.Member {
	t.Helper()
	m := models.NewMember(fields.Default())
	for key, value := range values {
		require.NoError(t, m.Set(key, value))
	}
	return m
}

func seed(t *testing.T, store *crm.MemoryStore, values map[string]string) *models.Member {
	t.Helper()
	saved, err := store.Save(context.Background(), member(t, values))
	require.NoError(t, err)
	return saved
}

func TestIsShortNameOf(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"anna", "Anna", true},
		{"Anna", "Anna-Lena", true},
		{"Anna", "Anna Lena", true},
		{"Anna", "Annabelle", false},
		{"Jo", "Joanne", false},
		{"Anna-Lena", "Anna", false},
		{"", "Anna", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsShortNameOf(tt.a, tt.b), "%q short name of %q", tt.a, tt.b)
	}
}

func TestMatcherEmailStrategy(t *testing.T) {
	ctx := context.Background()
	store := crm.NewMemoryStore()
	matcher := NewMatcher(store, testLogger())

	match := seed(t, store, map[string]string{
		fields.KeyFirstName: "Anna",
		fields.KeyEmail2:    "ANNA@example.ch",
	})
	seed(t, store, map[string]string{
		fields.KeyFirstName: "Clara",
		fields.KeyEmail1:    "clara@example.ch",
	})

	t.Run("matches either email slot case-insensitively", func(t *testing.T) {
		result, err := matcher.Match(ctx, member(t, map[string]string{
			fields.KeyEmail1: "anna@example.ch",
		}), nil)
		require.NoError(t, err)
		require.Equal(t, models.UniqueMatch, result.Status)
		assert.Equal(t, match.ID, result.Matches[0].ID)
	})

	t.Run("first-name filter drops incompatible results", func(t *testing.T) {
		result, err := matcher.Match(ctx, member(t, map[string]string{
			fields.KeyFirstName: "Berta",
			fields.KeyEmail1:    "anna@example.ch",
		}), nil)
		require.NoError(t, err)
		assert.Equal(t, models.NoMatch, result.Status)
	})

	t.Run("results without a first name survive the filter", func(t *testing.T) {
		nameless := seed(t, store, map[string]string{
			fields.KeyEmail1: "info@example.ch",
		})
		result, err := matcher.Match(ctx, member(t, map[string]string{
			fields.KeyFirstName: "Berta",
			fields.KeyEmail1:    "info@example.ch",
		}), nil)
		require.NoError(t, err)
		require.Equal(t, models.UniqueMatch, result.Status)
		assert.Equal(t, nameless.ID, result.Matches[0].ID)
	})
}

func TestMatcherPhoneStrategy(t *testing.T) {
	ctx := context.Background()
	store := crm.NewMemoryStore()
	matcher := NewMatcher(store, testLogger())

	match := seed(t, store, map[string]string{
		fields.KeyFirstName:   "Anna",
		fields.KeyPhoneMobile: "+41 79 123 45 67",
	})

	t.Run("national and international forms match", func(t *testing.T) {
		result, err := matcher.Match(ctx, member(t, map[string]string{
			fields.KeyPhoneMobile: "079 123 45 67",
		}), nil)
		require.NoError(t, err)
		require.Equal(t, models.UniqueMatch, result.Status)
		assert.Equal(t, match.ID, result.Matches[0].ID)
	})

	t.Run("email strategy wins over phone", func(t *testing.T) {
		emailMatch := seed(t, store, map[string]string{
			fields.KeyEmail1: "anna@example.ch",
		})
		result, err := matcher.Match(ctx, member(t, map[string]string{
			fields.KeyEmail1:      "anna@example.ch",
			fields.KeyPhoneMobile: "079 123 45 67",
		}), nil)
		require.NoError(t, err)
		require.Equal(t, models.UniqueMatch, result.Status)
		assert.Equal(t, emailMatch.ID, result.Matches[0].ID)
	})
}

func TestMatcherNameZipStrategy(t *testing.T) {
	ctx := context.Background()
	store := crm.NewMemoryStore()
	matcher := NewMatcher(store, testLogger())

	match := seed(t, store, map[string]string{
		fields.KeyFirstName: "Anna-Lena",
		fields.KeyLastName:  "Keller",
		fields.KeyZip:       "8004",
	})
	seed(t, store, map[string]string{
		fields.KeyFirstName: "Annabelle",
		fields.KeyLastName:  "Keller",
		fields.KeyZip:       "8004",
	})

	t.Run("short-name compatible with matching zip", func(t *testing.T) {
		result, err := matcher.Match(ctx, member(t, map[string]string{
			fields.KeyFirstName: "Anna",
			fields.KeyLastName:  "Keller",
			fields.KeyZip:       "CH-8004",
		}), nil)
		require.NoError(t, err)
		require.Equal(t, models.UniqueMatch, result.Status)
		assert.Equal(t, match.ID, result.Matches[0].ID)
	})

	t.Run("zip mismatch means no match", func(t *testing.T) {
		result, err := matcher.Match(ctx, member(t, map[string]string{
			fields.KeyFirstName: "Anna",
			fields.KeyLastName:  "Keller",
			fields.KeyZip:       "3000",
		}), nil)
		require.NoError(t, err)
		assert.Equal(t, models.NoMatch, result.Status)
	})

	t.Run("no zip with extra contact data is ambiguous", func(t *testing.T) {
		result, err := matcher.Match(ctx, member(t, map[string]string{
			fields.KeyFirstName:   "Anna",
			fields.KeyLastName:    "Keller",
			fields.KeyPhoneMobile: "044 111 22 33",
		}), nil)
		require.NoError(t, err)
		assert.Equal(t, models.AmbiguousMatch, result.Status)
		assert.Len(t, result.Matches, 1)
	})

	t.Run("no zip with several compatible results is a multiple match", func(t *testing.T) {
		seed(t, store, map[string]string{
			fields.KeyFirstName: "Anna",
			fields.KeyLastName:  "Keller",
			fields.KeyZip:       "3000",
		})
		result, err := matcher.Match(ctx, member(t, map[string]string{
			fields.KeyFirstName:   "Anna",
			fields.KeyLastName:    "Keller",
			fields.KeyPhoneMobile: "044 111 22 33",
		}), nil)
		require.NoError(t, err)
		assert.Equal(t, models.MultipleMatches, result.Status)
		assert.Len(t, result.Matches, 2)
	})

	t.Run("no zip and nothing else is no match", func(t *testing.T) {
		result, err := matcher.Match(ctx, member(t, map[string]string{
			fields.KeyFirstName: "Anna",
			fields.KeyLastName:  "Keller",
		}), nil)
		require.NoError(t, err)
		assert.Equal(t, models.NoMatch, result.Status)
	})

	t.Run("missing last name skips the strategy", func(t *testing.T) {
		result, err := matcher.Match(ctx, member(t, map[string]string{
			fields.KeyFirstName: "Anna",
		}), nil)
		require.NoError(t, err)
		assert.Equal(t, models.NoMatch, result.Status)
	})
}

func TestMatcherExcludesCandidateItself(t *testing.T) {
	ctx := context.Background()
	store := crm.NewMemoryStore()
	matcher := NewMatcher(store, testLogger())

	saved := seed(t, store, map[string]string{
		fields.KeyEmail1: "anna@example.ch",
	})

	result, err := matcher.Match(ctx, saved, nil)
	require.NoError(t, err)
	assert.Equal(t, models.NoMatch, result.Status)
}

func TestMatcherScopeGroups(t *testing.T) {
	ctx := context.Background()
	store := crm.NewMemoryStore()
	matcher := NewMatcher(store, testLogger())

	m := member(t, map[string]string{fields.KeyEmail1: "anna@example.ch"})
	m.Groups = []string{"bern"}
	_, err := store.Save(ctx, m)
	require.NoError(t, err)

	result, err := matcher.Match(ctx, member(t, map[string]string{
		fields.KeyEmail1: "anna@example.ch",
	}), []string{"zurich"})
	require.NoError(t, err)
	assert.Equal(t, models.NoMatch, result.Status)

	result, err = matcher.Match(ctx, member(t, map[string]string{
		fields.KeyEmail1: "anna@example.ch",
	}), []string{"bern"})
	require.NoError(t, err)
	assert.Equal(t, models.UniqueMatch, result.Status)
}

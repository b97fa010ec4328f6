// Package matching finds duplicate member records in the store.
package matching

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/crm"
	cloverErrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Matcher runs the duplicate-detection strategies in order, stopping at the
// first that yields results: email, then mobile phone, then name plus zip.
type Matcher struct {
	store  crm.MemberStore
	logger ectologger.Logger
}

// NewMatcher creates a Matcher over the given store.
func NewMatcher(store crm.MemberStore, logger ectologger.Logger) *Matcher {
	return &Matcher{
		store:  store,
		logger: logger,
	}
}

// Match looks for duplicates of the candidate inside the scope groups. The
// candidate itself is excluded from the results when it has an id.
func (m *Matcher) Match(ctx context.Context, candidate *models.Member, scopeGroups []string) (models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Match")
	defer span.End()

	log := m.logger.WithContext(ctx)

	matches, err := m.byEmail(ctx, candidate, scopeGroups)
	if err != nil {
		return models.MatchResult{}, err
	}
	if len(matches) > 0 {
		log.WithField("strategy", "email").Debugf("Matched %d candidates", len(matches))
		return classify(matches), nil
	}

	matches, err = m.byPhone(ctx, candidate, scopeGroups)
	if err != nil {
		return models.MatchResult{}, err
	}
	if len(matches) > 0 {
		log.WithField("strategy", "phone").Debugf("Matched %d candidates", len(matches))
		return classify(matches), nil
	}

	result, err := m.byNameAndZip(ctx, candidate, scopeGroups)
	if err != nil {
		return models.MatchResult{}, err
	}
	log.WithField("strategy", "name_zip").Debugf("Match status %s with %d candidates", result.Status, len(result.Matches))
	return result, nil
}

// byEmail queries case-insensitive equality of either store email slot
// against either candidate email, then applies the first-name filter.
func (m *Matcher) byEmail(ctx context.Context, candidate *models.Member, scopeGroups []string) ([]*models.Member, error) {
	emails := make([]string, 0, 2)
	for _, key := range []string{fields.KeyEmail1, fields.KeyEmail2} {
		if v := candidate.Get(key); v != "" {
			emails = append(emails, v)
		}
	}
	if len(emails) == 0 {
		return nil, nil
	}

	var q crm.Query
	for _, email := range emails {
		q = q.Or(crm.IEq("email1", email)).Or(crm.IEq("email2", email))
	}
	q = q.InGroups(scopeGroups...)

	results, err := m.find(ctx, q)
	if err != nil {
		return nil, err
	}
	results = exclude(results, candidate.ID)
	return filterByFirstName(candidate, results), nil
}

// byPhone queries normalized equality of the mobile phone, then applies the
// first-name filter.
func (m *Matcher) byPhone(ctx context.Context, candidate *models.Member, scopeGroups []string) ([]*models.Member, error) {
	phone := normalizers.Phone(candidate.Get(fields.KeyPhoneMobile))
	if phone == "" {
		return nil, nil
	}

	q := crm.Where(crm.PhoneEq("phoneMobile", phone)).InGroups(scopeGroups...)
	results, err := m.find(ctx, q)
	if err != nil {
		return nil, err
	}
	results = exclude(results, candidate.ID)
	return filterByFirstName(candidate, results), nil
}

// byNameAndZip queries starts-with on both names, keeps short-name compatible
// results and narrows by zip when the candidate has one.
func (m *Matcher) byNameAndZip(ctx context.Context, candidate *models.Member, scopeGroups []string) (models.MatchResult, error) {
	firstName := candidate.Get(fields.KeyFirstName)
	lastName := candidate.Get(fields.KeyLastName)
	if firstName == "" || lastName == "" {
		return models.MatchResult{Status: models.NoMatch}, nil
	}

	q := crm.Where(
		crm.Prefix("firstName", firstName),
		crm.Prefix("lastName", lastName),
	).InGroups(scopeGroups...)

	results, err := m.find(ctx, q)
	if err != nil {
		return models.MatchResult{}, err
	}
	results = exclude(results, candidate.ID)

	// Both names must be short-name compatible in at least one direction.
	kept := results[:0]
	for _, r := range results {
		if Compatible(firstName, r.Get(fields.KeyFirstName)) && Compatible(lastName, r.Get(fields.KeyLastName)) {
			kept = append(kept, r)
		}
	}
	results = kept

	if len(results) == 0 {
		return models.MatchResult{Status: models.NoMatch}, nil
	}

	if zip := candidate.Get(fields.KeyZip); zip != "" {
		sameZip := results[:0]
		for _, r := range results {
			if normalizers.ZipEqual(zip, r.Get(fields.KeyZip)) {
				sameZip = append(sameZip, r)
			}
		}
		return classify(sameZip), nil
	}

	// Without a zip a name prefix alone is too weak to merge on, but extra
	// contact data makes a single overlap worth a human look. Ambiguous
	// carries exactly one candidate; more than one is a multiple match.
	if hasAdditionalInformation(candidate) {
		if len(results) > 1 {
			return models.MatchResult{Status: models.MultipleMatches, Matches: results}, nil
		}
		return models.MatchResult{Status: models.AmbiguousMatch, Matches: results}, nil
	}
	return models.MatchResult{Status: models.NoMatch}, nil
}

// find runs a store query, treating "no data" responses as empty results.
func (m *Matcher) find(ctx context.Context, q crm.Query) ([]*models.Member, error) {
	results, err := m.store.Find(ctx, q)
	if err != nil {
		if cloverErrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return results, nil
}

// IsShortNameOf reports whether a is b or a short form of b: case-insensitive
// equal, or b begins with a followed by '-' or ' '.
func IsShortNameOf(a, b string) bool {
	la, lb := normalizers.Text(a), normalizers.Text(b)
	if la == lb {
		return true
	}
	if len(lb) > len(la) && lb[:len(la)] == la {
		next := lb[len(la)]
		return next == '-' || next == ' '
	}
	return false
}

// Compatible reports short-name compatibility in either direction.
func Compatible(a, b string) bool {
	return IsShortNameOf(a, b) || IsShortNameOf(b, a)
}

// filterByFirstName drops results whose first name is present but not
// short-name compatible with the candidate's. Results without a first name
// are kept.
func filterByFirstName(candidate *models.Member, results []*models.Member) []*models.Member {
	firstName := candidate.Get(fields.KeyFirstName)
	if firstName == "" || len(results) == 0 {
		return results
	}
	kept := results[:0]
	for _, r := range results {
		other := r.Get(fields.KeyFirstName)
		if other == "" || Compatible(firstName, other) {
			kept = append(kept, r)
		}
	}
	return kept
}

func exclude(results []*models.Member, id string) []*models.Member {
	if id == "" {
		return results
	}
	kept := results[:0]
	for _, r := range results {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return kept
}

func hasAdditionalInformation(m *models.Member) bool {
	for _, key := range []string{
		fields.KeyPhoneMobile,
		fields.KeyPhoneLandline,
		fields.KeyPhoneWork,
		fields.KeyAddress1,
		fields.KeyAddress2,
	} {
		if m.Get(key) != "" {
			return true
		}
	}
	return false
}

func classify(matches []*models.Member) models.MatchResult {
	switch len(matches) {
	case 0:
		return models.MatchResult{Status: models.NoMatch}
	case 1:
		return models.MatchResult{Status: models.UniqueMatch, Matches: matches}
	default:
		return models.MatchResult{Status: models.MultipleMatches, Matches: matches}
	}
}

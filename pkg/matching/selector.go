package matching

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Selector picks the authoritative record among duplicates by membership
// score.
type Selector struct {
	matcher *Matcher
	logger  ectologger.Logger
}

// NewSelector creates a Selector over the given matcher.
func NewSelector(matcher *Matcher, logger ectologger.Logger) *Selector {
	return &Selector{
		matcher: matcher,
		logger:  logger,
	}
}

// SelectMaster runs the matcher and, only for multiple matches, returns the
// strictly highest-scoring record. The candidate wins ties, then earlier
// matches win later ones. For every other match status the candidate itself
// is returned unchanged.
func (s *Selector) SelectMaster(ctx context.Context, candidate *models.Member, scopeGroups []string) (*models.Member, models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.SelectMaster")
	defer span.End()

	result, err := s.matcher.Match(ctx, candidate, scopeGroups)
	if err != nil {
		return nil, models.MatchResult{}, err
	}
	if result.Status != models.MultipleMatches {
		return candidate, result, nil
	}

	master := candidate
	best := MembershipScore(candidate)
	for _, match := range result.Matches {
		if score := MembershipScore(match); score > best {
			master, best = match, score
		}
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"master_id": master.ID,
		"score":     best,
	}).Debugf("Selected master among %d matches", len(result.Matches))

	return master, result, nil
}

// MembershipScore sums the tier weights over the five membership-tier fields.
func MembershipScore(m *models.Member) int {
	score := 0
	for _, key := range fields.MembershipTierKeys {
		score += fields.TierScore(m.Get(key))
	}
	return score
}

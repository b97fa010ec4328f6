package models

// MatchStatus classifies a matcher run.
type MatchStatus string

const (
	// NoMatch means no candidate duplicates were found.
	NoMatch MatchStatus = "no_match"
	// UniqueMatch means exactly one duplicate was found.
	UniqueMatch MatchStatus = "unique_match"
	// AmbiguousMatch means results exist but cannot be trusted enough to
	// act on automatically.
	AmbiguousMatch MatchStatus = "ambiguous_match"
	// MultipleMatches means two or more duplicates were found.
	MultipleMatches MatchStatus = "multiple_matches"
)

// MatchResult carries the matcher's classification together with the matched
// records, in the order the store returned them.
type MatchResult struct {
	Status  MatchStatus
	Matches []*Member
}

// Single returns the sole match of a UniqueMatch result.
func (r MatchResult) Single() *Member {
	if r.Status == UniqueMatch && len(r.Matches) == 1 {
		return r.Matches[0]
	}
	return nil
}

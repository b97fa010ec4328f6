package models

// MatchRequest asks for duplicates of a not-yet-persisted candidate record.
type MatchRequest struct {
	Fields      map[string]string `json:"fields" validate:"required,min=1"`
	ScopeGroups []string          `json:"scope_groups"`
}

// MergeRequest asks to merge the source member into the destination member.
type MergeRequest struct {
	DestinationID string `json:"destination_id" validate:"required"`
	SourceID      string `json:"source_id" validate:"required"`
}

// MemberResponse is the outward representation of a member record.
type MemberResponse struct {
	ID        string            `json:"id"`
	Groups    []string          `json:"groups,omitempty"`
	DebtorIDs []string          `json:"debtor_ids,omitempty"`
	Fields    map[string]string `json:"fields"`
}

// NewMemberResponse flattens a member for API output.
func NewMemberResponse(m *Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Groups:    m.Groups,
		DebtorIDs: m.DebtorIDs,
		Fields:    m.ExternalValues(),
	}
}

// MatchResponse reports the matcher's classification and the matched records.
type MatchResponse struct {
	Status  MatchStatus      `json:"status"`
	Matches []MemberResponse `json:"matches"`
	// Master is the record the master selector would merge into, present
	// only for multiple matches.
	Master *MemberResponse `json:"master,omitempty"`
}

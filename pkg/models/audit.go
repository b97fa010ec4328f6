package models

import "time"

// Merge audit outcomes.
const (
	MergeOutcomeMerged    = "merged"
	MergeOutcomeConflict  = "conflict"
	MergeOutcomeRetryable = "retryable"
)

// MergeAudit records one merge attempt between two members.
type MergeAudit struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenantId"`
	DestinationID   string    `json:"destinationId"`
	SourceID        string    `json:"sourceId"`
	Outcome         string    `json:"outcome"`
	ConflictFields  []string  `json:"conflictFields,omitempty"`
	DebtorsRelinked int       `json:"debtorsRelinked"`
	DebtorsOrphaned int       `json:"debtorsOrphaned"`
	RequestedBy     string    `json:"requestedBy,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

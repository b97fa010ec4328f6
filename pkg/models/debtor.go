package models

import (
	cloverErrors "github.com/Ramsey-B/clover/pkg/errors"
)

// Debtor is a billing record owned by exactly one member.
type Debtor struct {
	ID       string `json:"id"`
	MemberID string `json:"memberId"`
	// Writable is false while the debtor sits in a locked accounting
	// period; updates to such a debtor are rejected by the store.
	Writable bool `json:"writable"`
}

func errUnknownField(key string) error {
	return cloverErrors.NewValidation(key, "", "unknown field key")
}

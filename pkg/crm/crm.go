// Package crm talks to the external membership store. The engine never
// persists anything itself; every read and write crosses this boundary.
package crm

import (
	"context"

	"github.com/Ramsey-B/clover/pkg/models"
)

// MemberStore is the member-record boundary of the remote CRM.
type MemberStore interface {
	// Get fetches one member by id. Returns a NotFoundError when the id is
	// unknown.
	Get(ctx context.Context, id string) (*models.Member, error)
	// Find runs a query and returns matching members in store order. An
	// empty result is not an error.
	Find(ctx context.Context, q Query) ([]*models.Member, error)
	// Save persists the member, creating it when it has no id yet. The
	// returned member carries the assigned id.
	Save(ctx context.Context, m *models.Member) (*models.Member, error)
	// Delete removes a member record.
	Delete(ctx context.Context, id string) error
}

// DebtorStore is the billing-record boundary of the remote CRM.
type DebtorStore interface {
	// GetDebtor fetches one debtor by id.
	GetDebtor(ctx context.Context, id string) (*models.Debtor, error)
	// PutDebtor persists a debtor. Returns a DebtorNotWritableError when
	// the debtor sits in a locked accounting period.
	PutDebtor(ctx context.Context, d *models.Debtor) error
}

// GroupStore is the group-hierarchy boundary of the remote CRM.
type GroupStore interface {
	// GroupSubtree returns the ids of the group rooted at id, the root
	// included, in store order. Returns a NotFoundError when the id is
	// unknown.
	GroupSubtree(ctx context.Context, id string) ([]string, error)
}

// Store combines all three boundaries.
type Store interface {
	MemberStore
	DebtorStore
	GroupStore
}

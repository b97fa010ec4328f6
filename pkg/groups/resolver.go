// Package groups expands scope-group roots into the flat id lists the
// matcher consumes.
package groups

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/crm"
	cloverErrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Resolver flattens group subtrees through the CRM store.
type Resolver struct {
	store  crm.GroupStore
	logger ectologger.Logger
}

func NewResolver(store crm.GroupStore, logger ectologger.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logger,
	}
}

// Resolve expands every root id into its subtree and returns the union,
// deduplicated, in first-seen order. Unknown roots are skipped; the caller
// scoped to a group that no longer exists should match nothing extra, not
// fail the whole request.
func (r *Resolver) Resolve(ctx context.Context, rootIDs []string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "groups.Resolve")
	defer span.End()

	seen := make(map[string]bool)
	var out []string
	for _, root := range rootIDs {
		ids, err := r.store.GroupSubtree(ctx, root)
		if err != nil {
			if cloverErrors.IsNotFound(err) {
				r.logger.WithContext(ctx).WithField("group_id", root).Warn("Scope group not found, skipping")
				continue
			}
			return nil, err
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out, nil
}

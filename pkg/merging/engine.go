package merging

import (
	"context"
	"time"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/crm"
	cloverErrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Engine drives a full record merge: every differing field is dispatched to
// its category policy, conflicts are aggregated without short-circuiting,
// and only a conflict-free merge relinks debtors and commits to the store.
type Engine struct {
	store   crm.Store
	emitter events.Emitter
	logger  ectologger.Logger
}

// NewEngine creates a merge engine. A nil emitter disables event emission.
func NewEngine(store crm.Store, emitter events.Emitter, logger ectologger.Logger) *Engine {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	return &Engine{
		store:   store,
		emitter: emitter,
		logger:  logger,
	}
}

// Merge reconciles src into dst and commits: dst is saved, src's debtors are
// relinked to dst and src is deleted. On a MergeConflictError nothing was
// persisted, but dst's in-memory fields may have been mutated and must be
// discarded by the caller. On a RetryableMergeError debtor relinking may
// have partially happened; retrying is safe.
func (e *Engine) Merge(ctx context.Context, dst, src *models.Member) (*models.Member, error) {
	ctx, span := tracing.StartSpan(ctx, "merging.Merge")
	defer span.End()

	start := time.Now()
	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"dst_id": dst.ID,
		"src_id": src.ID,
	})

	// All fields are evaluated even after a conflict so the full conflict
	// set is reported at once.
	var conflicts []string
	for _, srcField := range src.Fields() {
		if srcField.IsEmpty() {
			continue
		}
		key := srcField.Key()
		dstField, ok := dst.Field(key)
		if !ok || dstField.Equals(srcField) {
			continue
		}
		if !MergerFor(key)(dst, src, key) {
			conflicts = append(conflicts, key)
		}
	}

	if len(conflicts) > 0 {
		for _, key := range conflicts {
			metrics.MergeConflictsTotal.WithLabelValues(key).Inc()
		}
		metrics.MergesTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
		log.WithField("conflicts", conflicts).Info("Merge aborted with conflicts")
		return nil, cloverErrors.NewMergeConflict(conflicts)
	}

	if err := e.relinkDebtors(ctx, dst, src); err != nil {
		metrics.MergesTotal.WithLabelValues(metrics.OutcomeRetryable).Inc()
		return nil, err
	}

	dst.Groups = unionGroups(dst.Groups, src.Groups)

	saved, err := e.store.Save(ctx, dst)
	if err != nil {
		metrics.MergesTotal.WithLabelValues(metrics.OutcomeRetryable).Inc()
		return nil, cloverErrors.NewRetryableMerge(err)
	}

	if src.ID != "" {
		if err := e.store.Delete(ctx, src.ID); err != nil {
			metrics.MergesTotal.WithLabelValues(metrics.OutcomeRetryable).Inc()
			return nil, cloverErrors.NewRetryableMerge(err)
		}
		_ = e.emitter.MemberDeleted(ctx, src.ID)
	}

	metrics.MergesTotal.WithLabelValues(metrics.OutcomeMerged).Inc()
	metrics.MergeDuration.Observe(time.Since(start).Seconds())
	_ = e.emitter.MemberMerged(ctx, saved, src.ID)
	log.Infof("Merged member %s into %s", src.ID, saved.ID)

	return saved, nil
}

// relinkDebtors points every debtor of src at dst, one at a time. A debtor
// in a locked accounting period is left behind as an accepted orphan; any
// other failure aborts with a retryable error since relinking is idempotent.
func (e *Engine) relinkDebtors(ctx context.Context, dst, src *models.Member) error {
	log := e.logger.WithContext(ctx)

	for _, debtorID := range src.DebtorIDs {
		debtor, err := e.store.GetDebtor(ctx, debtorID)
		if err != nil {
			return cloverErrors.NewRetryableMerge(err)
		}

		debtor.MemberID = dst.ID
		if err := e.store.PutDebtor(ctx, debtor); err != nil {
			if cloverErrors.IsDebtorNotWritable(err) {
				metrics.DebtorsRelinkedTotal.WithLabelValues(metrics.OutcomeOrphaned).Inc()
				log.WithField("debtor_id", debtorID).Warnf("Debtor %s is not writable, leaving it orphaned", debtorID)
				continue
			}
			return cloverErrors.NewRetryableMerge(err)
		}

		metrics.DebtorsRelinkedTotal.WithLabelValues(metrics.OutcomeRelinked).Inc()
		dst.DebtorIDs = appendUnique(dst.DebtorIDs, debtorID)
	}
	return nil
}

func unionGroups(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, g := range b {
		out = appendUnique(out, g)
	}
	return out
}

func appendUnique(values []string, v string) []string {
	if ectolinq.Contains(values, v) {
		return values
	}
	return append(values, v)
}

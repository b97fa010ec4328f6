// Package member exposes the match and merge operations over HTTP.
package member

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectolinq"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/mergeaudit"
	cloverContext "github.com/Ramsey-B/clover/pkg/context"
	"github.com/Ramsey-B/clover/pkg/crm"
	cloverErrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/groups"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/merging"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/redis"
)

// Register registers member routes
func Register(g *echo.Group) {
	g.GET("/:id", GetMember)
	g.GET("/:id/merges", GetMergeHistory)
	g.POST("/match", MatchMembers)
	g.POST("/merge", MergeMembers)
}

// GetMember fetches one member from the CRM store.
func GetMember(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, store, err := ectoinject.GetContext[crm.Store](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	member, err := store.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.NewMemberResponse(member))
}

// GetMergeHistory lists the merge audit trail touching a member.
func GetMergeHistory(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := cloverContext.GetTenantID(ctx)
	id := c.Param("id")

	page, _ := parseIntParam(c.QueryParam("page"))
	pageSize, _ := parseIntParam(c.QueryParam("page_size"))

	ctx, repo, err := ectoinject.GetContext[*mergeaudit.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	audits, total, err := repo.ListByMember(ctx, tenantID, id, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"items": audits,
		"total": total,
	})
}

// MatchMembers classifies a candidate record against the store and reports
// the master record a merge would keep.
func MatchMembers(c echo.Context) error {
	ctx := c.Request().Context()
	start := time.Now()

	var req models.MatchRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, validate, err := ectoinject.GetContext[*validator.Validate](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, schema, err := ectoinject.GetContext[*fields.Config](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	candidate := models.NewMember(schema)
	if err := candidate.SetExternalValues(req.Fields); err != nil {
		return err
	}

	scope := req.ScopeGroups
	if len(scope) > 0 {
		ctx2, resolver, err := ectoinject.GetContext[*groups.Resolver](ctx)
		if err != nil {
			return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
		}
		ctx = ctx2
		if scope, err = resolver.Resolve(ctx, req.ScopeGroups); err != nil {
			return err
		}
	}

	ctx, selector, err := ectoinject.GetContext[*matching.Selector](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	master, result, err := selector.SelectMaster(ctx, candidate, scope)
	if err != nil {
		return err
	}

	metrics.MatchesTotal.WithLabelValues(string(result.Status)).Inc()
	metrics.MatchDuration.Observe(time.Since(start).Seconds())

	resp := models.MatchResponse{
		Status: result.Status,
		Matches: ectolinq.Map(result.Matches, func(match *models.Member) models.MemberResponse {
			return models.NewMemberResponse(match)
		}),
	}
	if result.Status == models.MultipleMatches {
		masterResp := models.NewMemberResponse(master)
		resp.Master = &masterResp

		if ctx2, emitter, err := ectoinject.GetContext[events.Emitter](ctx); err == nil {
			_ = emitter.MasterSelected(ctx2, master, len(result.Matches))
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// MergeMembers merges the source member into the destination member under a
// per-pair advisory lock and records the attempt in the audit trail.
func MergeMembers(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := cloverContext.GetTenantID(ctx)

	var req models.MergeRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, validate, err := ectoinject.GetContext[*validator.Validate](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.DestinationID == req.SourceID {
		return httperror.NewHTTPError(http.StatusBadRequest, "cannot merge a member into itself")
	}

	ctx, locker, err := ectoinject.GetContext[*redis.Locker](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	ctx, cfg, err := ectoinject.GetContext[*MergeSettings](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	lock, err := locker.Acquire(ctx, pairLockKey(req.DestinationID, req.SourceID), cfg.LockTTL)
	if err != nil {
		if errors.Is(err, redis.ErrLockNotAcquired) {
			return httperror.NewHTTPError(http.StatusConflict, "a merge for this pair is already in progress")
		}
		return err
	}
	defer func() { _ = lock.Release(ctx) }()

	ctx, store, err := ectoinject.GetContext[crm.Store](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	dst, err := store.Get(ctx, req.DestinationID)
	if err != nil {
		return err
	}
	src, err := store.Get(ctx, req.SourceID)
	if err != nil {
		return err
	}
	dstDebtorsBefore := len(dst.DebtorIDs)

	ctx, engine, err := ectoinject.GetContext[*merging.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	merged, mergeErr := engine.Merge(ctx, dst, src)

	recordAudit(ctx, tenantID, req, merged, src, dstDebtorsBefore, mergeErr)

	if mergeErr != nil {
		return mergeErr
	}
	return c.JSON(http.StatusOK, models.NewMemberResponse(merged))
}

// MergeSettings carries the per-request merge knobs the handlers need.
type MergeSettings struct {
	LockTTL time.Duration
}

// pairLockKey is order-independent so concurrent merges of the same pair in
// either direction contend on one lock.
func pairLockKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return "merge:" + a + ":" + b
}

func recordAudit(ctx context.Context, tenantID string, req models.MergeRequest, merged, src *models.Member, dstDebtorsBefore int, mergeErr error) {
	ctx, repo, err := ectoinject.GetContext[*mergeaudit.Repository](ctx)
	if err != nil {
		return
	}

	audit := models.MergeAudit{
		DestinationID: req.DestinationID,
		SourceID:      req.SourceID,
		Outcome:       models.MergeOutcomeMerged,
		RequestedBy:   cloverContext.GetUserID(ctx),
	}

	switch {
	case mergeErr == nil:
		relinked := len(merged.DebtorIDs) - dstDebtorsBefore
		audit.DebtorsRelinked = relinked
		audit.DebtorsOrphaned = len(src.DebtorIDs) - relinked
	case cloverErrors.IsMergeConflict(mergeErr):
		audit.Outcome = models.MergeOutcomeConflict
		var conflict *cloverErrors.MergeConflictError
		if errors.As(mergeErr, &conflict) {
			audit.ConflictFields = conflict.Fields
		}
	default:
		audit.Outcome = models.MergeOutcomeRetryable
	}

	_, _ = repo.Record(ctx, tenantID, audit)
}

func parseIntParam(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

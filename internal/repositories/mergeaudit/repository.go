package mergeaudit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const table = "merge_audits"

var columns = []string{
	"id", "tenant_id", "destination_id", "source_id", "outcome",
	"conflict_fields", "debtors_relinked", "debtors_orphaned",
	"requested_by", "created_at",
}

// Repository persists the merge audit trail.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type auditRow struct {
	ID              string                   `db:"id"`
	TenantID        string                   `db:"tenant_id"`
	DestinationID   string                   `db:"destination_id"`
	SourceID        string                   `db:"source_id"`
	Outcome         string                   `db:"outcome"`
	ConflictFields  database.JSONB[[]string] `db:"conflict_fields"`
	DebtorsRelinked int                      `db:"debtors_relinked"`
	DebtorsOrphaned int                      `db:"debtors_orphaned"`
	RequestedBy     string                   `db:"requested_by"`
	CreatedAt       time.Time                `db:"created_at"`
}

func (r auditRow) toModel() models.MergeAudit {
	return models.MergeAudit{
		ID:              r.ID,
		TenantID:        r.TenantID,
		DestinationID:   r.DestinationID,
		SourceID:        r.SourceID,
		Outcome:         r.Outcome,
		ConflictFields:  r.ConflictFields.Data,
		DebtorsRelinked: r.DebtorsRelinked,
		DebtorsOrphaned: r.DebtorsOrphaned,
		RequestedBy:     r.RequestedBy,
		CreatedAt:       r.CreatedAt,
	}
}

// Record stores one merge attempt.
func (r *Repository) Record(ctx context.Context, tenantID string, audit models.MergeAudit) (*models.MergeAudit, error) {
	ctx, span := tracing.StartSpan(ctx, "mergeaudit.Repository.Record")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":         "Record",
		"tenant_id":      tenantID,
		"destination_id": audit.DestinationID,
		"source_id":      audit.SourceID,
		"outcome":        audit.Outcome,
	})

	audit.ID = uuid.New().String()
	audit.TenantID = tenantID
	audit.CreatedAt = time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto(table)
	sb.Cols(columns...)
	sb.Values(
		audit.ID, audit.TenantID, audit.DestinationID, audit.SourceID, audit.Outcome,
		database.JSONB[[]string]{Data: audit.ConflictFields},
		audit.DebtorsRelinked, audit.DebtorsOrphaned,
		audit.RequestedBy, audit.CreatedAt,
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to record merge audit")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to record merge audit")
	}

	log.WithFields(map[string]any{"id": audit.ID}).Info("Recorded merge audit")
	return &audit, nil
}

// Get retrieves a merge audit entry by ID.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*models.MergeAudit, error) {
	ctx, span := tracing.StartSpan(ctx, "mergeaudit.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var row auditRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("merge audit %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get merge audit")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get merge audit")
	}

	audit := row.toModel()
	return &audit, nil
}

// ListByMember retrieves the audit trail touching a member, as destination or
// source, newest first.
func (r *Repository) ListByMember(ctx context.Context, tenantID, memberID string, page, pageSize int) ([]models.MergeAudit, int, error) {
	ctx, span := tracing.StartSpan(ctx, "mergeaudit.Repository.ListByMember")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	countSb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From(table)
	countSb.Where(
		countSb.Equal("tenant_id", tenantID),
		countSb.Or(
			countSb.Equal("destination_id", memberID),
			countSb.Equal("source_id", memberID),
		),
	)

	countQuery, countArgs := countSb.Build()
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count merge audits")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count merge audits")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Or(
			sb.Equal("destination_id", memberID),
			sb.Equal("source_id", memberID),
		),
	)
	sb.OrderBy("created_at DESC")
	sb.Limit(pageSize).Offset(offset)

	query, args := sb.Build()
	var rows []auditRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list merge audits")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list merge audits")
	}

	audits := make([]models.MergeAudit, 0, len(rows))
	for _, row := range rows {
		audits = append(audits, row.toModel())
	}

	return audits, totalCount, nil
}

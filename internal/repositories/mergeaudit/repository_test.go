package mergeaudit_test

import (
	"context"
	"os"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/internal/repositories/mergeaudit"
	appctx "github.com/Ramsey-B/clover/pkg/context"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func getTestDB(t *testing.T) database.DB {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		t.Skip("DB_HOST not set, skipping database integration test")
	}
	dbUser := os.Getenv("DB_USER_NAME")
	if dbUser == "" {
		dbUser = "user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "password"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "clover"
	}

	dsn := "host=" + dbHost + " user=" + dbUser + " password=" + dbPass + " dbname=" + dbName + " sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")

	return database.NewDatabaseInstance(db, getTestLogger())
}

func getTestContext(tenantID string) context.Context {
	return appctx.SetTenantID(context.Background(), tenantID)
}

func TestRepository_RecordAndGet(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	repo := mergeaudit.NewRepository(db, getTestLogger())
	tenantID := uuid.New().String()
	ctx := getTestContext(tenantID)

	created, err := repo.Record(ctx, tenantID, models.MergeAudit{
		DestinationID:   "dst-1",
		SourceID:        "src-1",
		Outcome:         models.MergeOutcomeConflict,
		ConflictFields:  []string{"last_name", "gender"},
		DebtorsRelinked: 0,
		RequestedBy:     "tester",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, tenantID, created.TenantID)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := repo.Get(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "dst-1", fetched.DestinationID)
	assert.Equal(t, "src-1", fetched.SourceID)
	assert.Equal(t, models.MergeOutcomeConflict, fetched.Outcome)
	assert.Equal(t, []string{"last_name", "gender"}, fetched.ConflictFields)
	assert.Equal(t, "tester", fetched.RequestedBy)
}

func TestRepository_GetNotFound(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	repo := mergeaudit.NewRepository(db, getTestLogger())
	tenantID := uuid.New().String()

	_, err := repo.Get(getTestContext(tenantID), tenantID, uuid.New().String())
	require.Error(t, err)
}

func TestRepository_ListByMember(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	repo := mergeaudit.NewRepository(db, getTestLogger())
	tenantID := uuid.New().String()
	ctx := getTestContext(tenantID)

	_, err := repo.Record(ctx, tenantID, models.MergeAudit{
		DestinationID: "member-a",
		SourceID:      "member-b",
		Outcome:       models.MergeOutcomeMerged,
	})
	require.NoError(t, err)

	_, err = repo.Record(ctx, tenantID, models.MergeAudit{
		DestinationID: "member-c",
		SourceID:      "member-a",
		Outcome:       models.MergeOutcomeRetryable,
	})
	require.NoError(t, err)

	t.Run("finds entries as destination or source", func(t *testing.T) {
		audits, total, err := repo.ListByMember(ctx, tenantID, "member-a", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, audits, 2)
	})

	t.Run("only the named member's entries", func(t *testing.T) {
		audits, total, err := repo.ListByMember(ctx, tenantID, "member-b", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, audits, 1)
		assert.Equal(t, "member-b", audits[0].SourceID)
	})

	t.Run("pagination caps the page", func(t *testing.T) {
		audits, total, err := repo.ListByMember(ctx, tenantID, "member-a", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, audits, 1)
	})

	t.Run("other tenants see nothing", func(t *testing.T) {
		otherTenant := uuid.New().String()
		audits, total, err := repo.ListByMember(getTestContext(otherTenant), otherTenant, "member-a", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, audits)
	})
}

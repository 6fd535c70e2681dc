package migration

import (
	"io/fs"
	"strings"
	"testing"

	billdomain "github.com/smallbiznis/billhub/internal/bill/domain"
	"github.com/smallbiznis/billhub/internal/ratelimit"
	subscriberdomain "github.com/smallbiznis/billhub/internal/subscriber/domain"
	"github.com/smallbiznis/billhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrateFallsBackToAutoMigrate(t *testing.T) {
	conn := testutil.NewDB(t)

	require.NoError(t, Migrate(conn, zap.NewNop()))
	// Running twice is a no-op.
	require.NoError(t, Migrate(conn, zap.NewNop()))

	for _, model := range []any{
		&subscriberdomain.Subscriber{},
		&billdomain.Bill{},
		&billdomain.BillDetail{},
		&ratelimit.QueryLimitLog{},
	} {
		assert.True(t, conn.Migrator().HasTable(model))
	}
	assert.True(t, conn.Migrator().HasIndex(&billdomain.Bill{}, "ux_bills_subscriber_period"))
	assert.True(t, conn.Migrator().HasIndex(&ratelimit.QueryLimitLog{}, "ux_query_limit_logs_subscriber_date"))
}

func TestMigrateRequiresHandle(t *testing.T) {
	assert.Error(t, Migrate(nil, zap.NewNop()))
	assert.Error(t, RunMigrations(nil))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(embeddedMigrations, migrationsDir+"/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(embeddedMigrations, down)
		assert.NoError(t, err, "missing %s", down)
	}
}

func TestEmbeddedMigrationsCoverOwnedTables(t *testing.T) {
	var sql strings.Builder
	err := fs.WalkDir(embeddedMigrations, migrationsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".up.sql") {
			return err
		}
		raw, err := fs.ReadFile(embeddedMigrations, path)
		if err != nil {
			return err
		}
		sql.Write(raw)
		return nil
	})
	require.NoError(t, err)

	for _, table := range []string{"subscribers", "bills", "bill_details", "query_limit_logs"} {
		assert.Contains(t, sql.String(), "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	assert.Contains(t, sql.String(), "LOWER(subscriber_no)")
}

// AngelaMos | 2026
// testutil.go

// Package testutil provisions PostgreSQL fixtures for integration tests.
// Tests using it are skipped unless TEST_DATABASE_URL is set.
package testutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/restaurant-rewards/internal/config"
	"github.com/carterperez-dev/restaurant-rewards/internal/core"
	"github.com/carterperez-dev/restaurant-rewards/internal/schema"
)

const EnvDatabaseURL = "TEST_DATABASE_URL"

// SetupTestDB returns a database whose search_path points at a schema named
// after the calling package, rebuilt from scratch. Packages therefore never
// share tables, even when go test runs them in parallel.
func SetupTestDB(t *testing.T, name string) *core.Database {
	t.Helper()

	base := lookupURL(t)
	ctx := context.Background()

	admin, err := sqlx.ConnectContext(ctx, "pgx", base)
	require.NoError(t, err, "connect to test database")

	schemaName := "test_" + strings.ReplaceAll(name, "-", "_")
	_, err = admin.ExecContext(ctx, `DROP SCHEMA IF EXISTS `+schemaName+` CASCADE`)
	require.NoError(t, err)
	_, err = admin.ExecContext(ctx, `CREATE SCHEMA `+schemaName)
	require.NoError(t, err)
	require.NoError(t, admin.Close())

	u, err := url.Parse(base)
	require.NoError(t, err, "TEST_DATABASE_URL must be a postgres:// URL")
	q := u.Query()
	q.Set("search_path", schemaName)
	u.RawQuery = q.Encode()

	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:          u.String(),
		MaxOpenConns: 20,
		MaxIdleConns: 5,
	})
	require.NoError(t, err)

	require.NoError(t, schema.Apply(ctx, db.DB))

	t.Cleanup(func() {
		_ = db.Close() //nolint:errcheck // test cleanup
	})

	return db
}

func lookupURL(t *testing.T) string {
	t.Helper()

	raw := getenv(EnvDatabaseURL)
	if raw == "" {
		t.Skipf("%s not set, skipping integration test", EnvDatabaseURL)
	}
	return raw
}

// CreateUser inserts a user with the given name and monthly points and
// returns its id.
func CreateUser(t *testing.T, db *core.Database, name string, monthlyPoints int) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.DB.ExecContext(context.Background(), `
		INSERT INTO users (id, name, email, password_hash, monthly_points, total_points)
		VALUES ($1, $2, $3, 'x', $4, $4)`,
		id,
		name,
		strings.ToLower(name)+"-"+id[:8]+"@example.com",
		monthlyPoints,
	)
	require.NoError(t, err)

	return id
}

// TableID returns the id of the seeded table with the given number.
func TableID(t *testing.T, db *core.Database, number int) string {
	t.Helper()

	var id string
	err := db.DB.GetContext(context.Background(), &id,
		`SELECT id FROM dining_tables WHERE number = $1`, number)
	require.NoError(t, err)

	return id
}

// MonthlyPoints reads a user's current monthly points.
func MonthlyPoints(t *testing.T, db *core.Database, userID string) int {
	t.Helper()

	var pts int
	err := db.DB.GetContext(context.Background(), &pts,
		`SELECT monthly_points FROM users WHERE id = $1`, userID)
	require.NoError(t, err)

	return pts
}

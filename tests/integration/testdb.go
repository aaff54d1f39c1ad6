// Package integration runs the persistence layer against a real PostgreSQL
// started with testcontainers and migrated with the embedded schema.
package integration

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/erp/mws-connector/internal/infrastructure/migration"
	"github.com/erp/mws-connector/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/lib/pq"
)

// connectorTables lists every table the migrations create, children first.
var connectorTables = []string{
	"amazon_account_links",
	"amazon_product_identifiers",
	"amazon_mws_accounts",
	"stock_quantities",
	"stock_locations",
	"products",
}

// postgresContainer is started by the first test that needs it and
// terminated from TestMain.
var postgresContainer struct {
	sync.Mutex
	c   *tcpostgres.PostgresContainer
	dsn string
}

// TestDB is a migrated, empty database for one test.
type TestDB struct {
	DB  *gorm.DB
	DSN string
	t   *testing.T
}

func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()
	dsn := sharedDSN(t)

	level := logger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = logger.Info
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	require.NoError(t, err, "connect to test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(5)
	t.Cleanup(func() { _ = sqlDB.Close() })

	tdb := &TestDB{DB: db, DSN: dsn, t: t}
	tdb.CleanTables()
	return tdb
}

func sharedDSN(t *testing.T) string {
	t.Helper()
	postgresContainer.Lock()
	defer postgresContainer.Unlock()
	if postgresContainer.c != nil {
		return postgresContainer.dsn
	}

	ctx := context.Background()
	c, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("mws_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err, "start postgres container")
	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrate(t, dsn)
	postgresContainer.c, postgresContainer.dsn = c, dsn
	return dsn
}

// migrate uses its own connection because the migrate driver closes it.
func migrate(t *testing.T, dsn string) {
	t.Helper()
	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	m, err := migration.NewEmbedded(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err, "create migrator")
	defer func() { _ = m.Close() }()
	require.NoError(t, m.Up(), "apply migrations")
}

// CleanTables empties every connector table.
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()
	stmt := "TRUNCATE TABLE " + strings.Join(connectorTables, ", ") + " CASCADE"
	require.NoError(tdb.t, tdb.DB.Exec(stmt).Error, "truncate tables")
}

// CleanupSharedContainer terminates the container; call it from TestMain.
func CleanupSharedContainer() {
	postgresContainer.Lock()
	defer postgresContainer.Unlock()
	if postgresContainer.c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = postgresContainer.c.Terminate(ctx)
	postgresContainer.c, postgresContainer.dsn = nil, ""
}

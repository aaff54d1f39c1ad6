package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedFeed struct {
	ID   uint   `gorm:"primaryKey"`
	Type string `gorm:"size:64"`
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedFeed{}))
	return db
}

func TestNewDBTracing_Defaults(t *testing.T) {
	tr := NewDBTracing(DBTracingConfig{}, nil)
	assert.Equal(t, defaultSlowQuery, tr.cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", tr.cfg.DBSystem)

	tr = NewDBTracing(DBTracingConfig{SlowQueryThresh: time.Second, DBSystem: "sqlite"}, zap.NewNop())
	assert.Equal(t, time.Second, tr.cfg.SlowQueryThresh)
	assert.Equal(t, "sqlite", tr.cfg.DBSystem)
}

func TestDBTracing_Install(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		db := openSQLite(t)
		assert.NoError(t, NewDBTracing(DBTracingConfig{}, zap.NewNop()).Install(db))
		assert.NoError(t, NewDBTracing(DBTracingConfig{}, zap.NewNop()).Install(db))
	})

	t.Run("enabled", func(t *testing.T) {
		db := openSQLite(t)
		tr := NewDBTracing(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zaptest.NewLogger(t))

		require.NoError(t, tr.Install(db))
		assert.NoError(t, db.Create(&tracedFeed{Type: "_POST_INVENTORY_AVAILABILITY_DATA_"}).Error)
		assert.Error(t, tr.Install(db), "second install collides on plugin name")
	})
}

func TestDBTracing_AfterQuery(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := NewDBTracing(DBTracingConfig{SlowQueryThresh: time.Millisecond}, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "export")
	tx := openSQLite(t).WithContext(ctx).InstanceSet(queryStartedKey, time.Now().Add(-50*time.Millisecond))
	tx.Statement.Table = "amazon_account_links"
	tx.Statement.RowsAffected = 2
	tx.Error = assert.AnError

	tr.afterQuery(tx)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, int64(2), attrs["db.rows_affected"].AsInt64())
	assert.Equal(t, "amazon_account_links", attrs["db.sql.table"].AsString())
	assert.True(t, attrs["db.slow_query"].AsBool())
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	// exception event plus slow_query
	require.Len(t, spans[0].Events(), 2)
	assert.Equal(t, "slow_query", spans[0].Events()[1].Name)
}

func TestDBTracing_AfterQuery_NotFoundIsNotAnError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := NewDBTracing(DBTracingConfig{}, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "lookup")
	tx := openSQLite(t).WithContext(ctx).InstanceSet(queryStartedKey, time.Now())
	tx.Error = gorm.ErrRecordNotFound

	tr.afterQuery(tx)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Empty(t, spans[0].Events())
}

func TestDBTracing_AfterQuery_NilContext(t *testing.T) {
	tr := NewDBTracing(DBTracingConfig{}, zap.NewNop())
	tx := openSQLite(t).Session(&gorm.Session{NewDB: true})
	tx.Statement.Context = nil

	assert.NotPanics(t, func() { tr.afterQuery(tx) })
}

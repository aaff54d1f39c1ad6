package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultSlowQuery = 200 * time.Millisecond
	queryStartedKey  = "mws:query_started"
)

// DBTracingConfig controls the otelgorm plugin and the slow query marker.
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL keeps bound variables in db.statement; development only.
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DBTracing installs query spans on a GORM handle. Statements that outlive
// the threshold are flagged with db.slow_query on the active span.
type DBTracing struct {
	cfg    DBTracingConfig
	logger *zap.Logger
}

func NewDBTracing(cfg DBTracingConfig, logger *zap.Logger) *DBTracing {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = defaultSlowQuery
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracing{cfg: cfg, logger: logger}
}

type registrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// Install registers otelgorm and the timing callbacks. It is a no-op when
// tracing is disabled and fails when called twice on the same handle.
func (t *DBTracing) Install(db *gorm.DB) error {
	if !t.cfg.Enabled {
		t.logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(t.cfg.DBSystem)}
	if !t.cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	stages := []struct {
		op            string
		before, after registrar
	}{
		{"create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create")},
		{"query", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query")},
		{"update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update")},
		{"delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete")},
		{"row", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row")},
		{"raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw")},
	}
	for _, s := range stages {
		if err := s.before.Register("mws_timing:"+s.op, markQueryStarted); err != nil {
			return err
		}
		if err := s.after.Register("mws_slow_query:"+s.op, t.afterQuery); err != nil {
			return err
		}
	}

	t.logger.Info("Database tracing enabled",
		zap.String("db_system", t.cfg.DBSystem),
		zap.Bool("log_full_sql", t.cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", t.cfg.SlowQueryThresh),
	)
	return nil
}

func markQueryStarted(db *gorm.DB) {
	db.InstanceSet(queryStartedKey, time.Now())
}

func (t *DBTracing) afterQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{attribute.Int64("db.rows_affected", db.Statement.RowsAffected)}
	if db.Statement.Table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", db.Statement.Table))
	}

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}

	if v, ok := db.InstanceGet(queryStartedKey); ok {
		if elapsed := time.Since(v.(time.Time)); elapsed > t.cfg.SlowQueryThresh {
			attrs = append(attrs,
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("threshold_ms", t.cfg.SlowQueryThresh.Milliseconds()),
			))
		}
	}
	span.SetAttributes(attrs...)
}

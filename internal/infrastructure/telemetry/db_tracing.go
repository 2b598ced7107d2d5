package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include bound variables in statements (dev only)
	SlowQueryThresh time.Duration // default 200ms
	DBSystem        string        // default "postgresql"
}

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin plus callbacks that tag
// spans with rows affected and the table, mark failures, and flag queries
// slower than the threshold.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateQuerySpan(tx, cfg.SlowQueryThresh) }

	cb := db.Callback()
	for op, register := range map[string]func(name string, before, after func(*gorm.DB)) error{
		"create": func(n string, b, a func(*gorm.DB)) error {
			return errors.Join(cb.Create().Before("gorm:create").Register(n+"before_create", b),
				cb.Create().After("gorm:create").Register(n+"after_create", a))
		},
		"query": func(n string, b, a func(*gorm.DB)) error {
			return errors.Join(cb.Query().Before("gorm:query").Register(n+"before_query", b),
				cb.Query().After("gorm:query").Register(n+"after_query", a))
		},
		"update": func(n string, b, a func(*gorm.DB)) error {
			return errors.Join(cb.Update().Before("gorm:update").Register(n+"before_update", b),
				cb.Update().After("gorm:update").Register(n+"after_update", a))
		},
		"delete": func(n string, b, a func(*gorm.DB)) error {
			return errors.Join(cb.Delete().Before("gorm:delete").Register(n+"before_delete", b),
				cb.Delete().After("gorm:delete").Register(n+"after_delete", a))
		},
		"row": func(n string, b, a func(*gorm.DB)) error {
			return errors.Join(cb.Row().Before("gorm:row").Register(n+"before_row", b),
				cb.Row().After("gorm:row").Register(n+"after_row", a))
		},
		"raw": func(n string, b, a func(*gorm.DB)) error {
			return errors.Join(cb.Raw().Before("gorm:raw").Register(n+"before_raw", b),
				cb.Raw().After("gorm:raw").Register(n+"after_raw", a))
		},
	} {
		if err := register("checkout_timing:", before, after); err != nil {
			return fmt.Errorf("register %s callbacks: %w", op, err)
		}
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
		zap.String("db_system", cfg.DBSystem))
	return nil
}

func annotateQuerySpan(tx *gorm.DB, slow time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if tx.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	}
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > slow {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}

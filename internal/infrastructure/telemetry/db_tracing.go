package telemetry

import (
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Span attribute keys set on database spans
const (
	SpanAttrRowsAffected = "db.rows_affected"
	SpanAttrTable        = "db.sql.table"
)

// DBTracingConfig holds configuration for database tracing
type DBTracingConfig struct {
	Enabled bool
	// DBSystem names the database in spans, e.g. "postgresql" or "sqlite"
	DBSystem string
	// WithQueryVariables includes bound parameters in the SQL statement attribute.
	// Development only: parameters carry customer data.
	WithQueryVariables bool
}

// RegisterDBTracing installs the otelgorm plugin on db, then a callback that
// records table and rows affected on each statement span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(cfg.DBSystem),
	}
	if !cfg.WithQueryVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := registerStatementCallbacks(db); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Bool("with_query_variables", cfg.WithQueryVariables),
	)
	return nil
}

// registerStatementCallbacks runs statementAttributes after each statement,
// ahead of otelgorm's callbacks that end the span.
func registerStatementCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Before("otel:after_create").Register("dash:rows_create", statementAttributes); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Before("otel:after_update").Register("dash:rows_update", statementAttributes); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Before("otel:after_delete").Register("dash:rows_delete", statementAttributes); err != nil {
		return err
	}
	return cb.Query().After("gorm:query").Before("otel:after_query").Register("dash:rows_query", statementAttributes)
}

func statementAttributes(db *gorm.DB) {
	if db.Statement == nil || db.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64(SpanAttrRowsAffected, db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String(SpanAttrTable, db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		RecordError(span, db.Error)
	}
}

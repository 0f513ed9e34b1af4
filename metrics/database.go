package metrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const startTimeKey = "metrics:start_time"

var (
	dbQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "screen_ai_db_queries_total",
		Help: "Total number of database statements executed.",
	}, []string{"operation", "table"})

	dbQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "screen_ai_db_query_duration_seconds",
		Help:    "Duration of database statements in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	dbConnectionsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "screen_ai_db_connections_open",
		Help: "Number of open database connections.",
	})
	dbConnectionsInUse = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "screen_ai_db_connections_in_use",
		Help: "Number of database connections currently in use.",
	})
)

// RegisterGORMCallbacks hängt Before/After-Callbacks für create, query,
// update und delete an db. Die Callbacks führen selbst kein SQL aus.
func RegisterGORMCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("metrics:before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("metrics:after_create", after("create")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("metrics:before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("metrics:after_query", after("query")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("metrics:before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("metrics:after_update", after("update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("metrics:before_delete", before); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("metrics:after_delete", after("delete"))
}

func before(tx *gorm.DB) {
	tx.InstanceSet(startTimeKey, time.Now())
}

func after(operation string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Warn("gorm metrics callback panicked", zap.String("operation", operation), zap.Any("panic", r))
			}
		}()
		v, ok := tx.InstanceGet(startTimeKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		table := "unknown"
		if tx.Statement != nil && tx.Statement.Table != "" {
			table = tx.Statement.Table
		}
		dbQueriesTotal.WithLabelValues(operation, table).Inc()
		dbQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// StartDBStatsCollector aktualisiert die Verbindungs-Gauges im Intervall,
// bis ctx beendet wird.
func StartDBStatsCollector(ctx context.Context, sqlDB *sql.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				dbConnectionsOpen.Set(float64(stats.OpenConnections))
				dbConnectionsInUse.Set(float64(stats.InUse))
			}
		}
	}()
}

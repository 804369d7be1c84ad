package telemetry

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// DBMetrics records query latency and errors per operation and table, and
// exposes connection pool statistics.
type DBMetrics struct {
	queryDuration *prometheus.HistogramVec
	queryErrors   *prometheus.CounterVec
	slowQueries   *prometheus.CounterVec
	slowThreshold time.Duration
}

// dbDurationBuckets suit bulk statements that run from sub-millisecond to seconds
var dbDurationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// NewDBMetrics registers the database collectors with m's registry.
// sqlDB may be nil, in which case pool statistics are not exported.
func NewDBMetrics(m *Metrics, sqlDB *sql.DB, dbName string, slowThreshold time.Duration) (*DBMetrics, error) {
	dm := &DBMetrics{
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Duration of database statements in seconds.",
			Buckets:   dbDurationBuckets,
		}, []string{"operation", "table"}),
		queryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Database statements that returned an error other than record not found.",
		}, []string{"operation", "table"}),
		slowQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "db",
			Name:      "slow_queries_total",
			Help:      "Database statements slower than the configured threshold.",
		}, []string{"operation", "table"}),
		slowThreshold: slowThreshold,
	}

	toRegister := []prometheus.Collector{dm.queryDuration, dm.queryErrors, dm.slowQueries}
	if sqlDB != nil {
		toRegister = append(toRegister, collectors.NewDBStatsCollector(sqlDB, dbName))
	}
	for _, c := range toRegister {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return dm, nil
}

// RecordQuery records one finished statement
func (m *DBMetrics) RecordQuery(operation, table string, elapsed time.Duration, err error) {
	if table == "" {
		table = "unknown"
	}
	m.queryDuration.WithLabelValues(operation, table).Observe(elapsed.Seconds())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		m.queryErrors.WithLabelValues(operation, table).Inc()
	}
	if m.slowThreshold > 0 && elapsed > m.slowThreshold {
		m.slowQueries.WithLabelValues(operation, table).Inc()
	}
}

// Name implements gorm.Plugin
func (m *DBMetrics) Name() string {
	return "itemtrack:db_metrics"
}

// Initialize implements gorm.Plugin
func (m *DBMetrics) Initialize(db *gorm.DB) error {
	return registerAround(db, "itemtrack_metrics", markQueryStart(metricsStartKey), m.after)
}

func (m *DBMetrics) after(db *gorm.DB) {
	elapsed, ok := queryElapsed(db, metricsStartKey)
	if !ok || db.Statement == nil {
		return
	}
	m.RecordQuery(detectOperationType(db.Statement.SQL.String()), db.Statement.Table, elapsed, db.Error)
}

// detectOperationType returns the leading SQL verb in lower case
func detectOperationType(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return "other"
	}
	switch verb := strings.ToLower(fields[0]); verb {
	case "select", "insert", "update", "delete":
		return verb
	case "with":
		return "select"
	default:
		return "other"
	}
}

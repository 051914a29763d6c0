// Package audit verifies the at-most-one-active invariant on a schedule
// and keeps a durable log of every anomaly it finds. Publish is atomic,
// so a healthy deployment never writes an anomaly row; the log exists so
// operators can see when something did go wrong and what it resolved to.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"metaweb/console/pkg/telemetry/metrics"
)

// ActiveLister is the slice of the config store the auditor needs.
type ActiveLister interface {
	ActiveIDs(ctx context.Context) ([]int64, error)
}

const anomalySchema = `
CREATE TABLE IF NOT EXISTS audit_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    detected_at INTEGER NOT NULL,
    active_count INTEGER NOT NULL,
    active_ids TEXT NOT NULL,
    resolved_id INTEGER NOT NULL
);
`

// Anomaly is one recorded violation of the at-most-one-active invariant.
type Anomaly struct {
	ID          int64
	DetectedAt  time.Time
	ActiveCount int
	ActiveIDs   []int64
	ResolvedID  int64
}

// Config configures the auditor.
type Config struct {
	// Schedule is a cron expression. Empty disables scheduled runs;
	// RunOnce still works.
	Schedule string

	// LogPath is the anomaly log database file.
	LogPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// Auditor periodically checks the store for multiple active configuration
// versions and records what it finds.
type Auditor struct {
	store     ActiveLister
	collector *metrics.Collector
	config    Config
	db        *sql.DB
	cron      *cron.Cron
	mu        sync.Mutex
	running   bool
	logger    *slog.Logger
}

// NewAuditor creates an Auditor writing anomalies to the configured log
// database.
func NewAuditor(store ActiveLister, collector *metrics.Collector, config Config) (*Auditor, error) {
	if config.LogPath == "" {
		return nil, fmt.Errorf("audit log path cannot be empty")
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		config.LogPath, int(config.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports single writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(anomalySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit log schema: %w", err)
	}

	return &Auditor{
		store:     store,
		collector: collector,
		config:    config,
		db:        db,
		cron:      cron.New(),
		logger:    slog.Default().With("component", "modelconfig.audit"),
	}, nil
}

// Start begins scheduled audits. An empty schedule leaves the auditor
// idle; RunOnce can still be called directly.
func (a *Auditor) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.config.Schedule == "" {
		a.logger.Info("audit schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(a.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", a.config.Schedule, err)
	}

	_, err := a.cron.AddFunc(a.config.Schedule, func() {
		if err := a.RunOnce(ctx); err != nil {
			a.logger.Error("scheduled audit failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule audit: %w", err)
	}

	a.cron.Start()
	a.running = true

	a.logger.Info("consistency auditor started", "schedule", a.config.Schedule)

	go func() {
		<-ctx.Done()
		a.Stop()
	}()

	return nil
}

// RunOnce performs a single consistency check. More than one active id is
// recorded as an anomaly; zero or one is healthy.
func (a *Auditor) RunOnce(ctx context.Context) error {
	ids, err := a.store.ActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active versions: %w", err)
	}

	if len(ids) <= 1 {
		a.logger.Debug("consistency audit passed", "active_count", len(ids))
		return nil
	}

	// ActiveIDs returns newest first, matching the resolution rule.
	resolvedID := ids[0]

	a.logger.Error("consistency anomaly detected",
		"active_count", len(ids),
		"active_ids", ids,
		"resolved_id", resolvedID,
	)
	if a.collector != nil {
		a.collector.RecordConsistencyAnomaly()
	}

	encoded, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode active ids: %w", err)
	}

	_, err = a.db.ExecContext(ctx,
		"INSERT INTO audit_log (detected_at, active_count, active_ids, resolved_id) VALUES (?, ?, ?, ?)",
		time.Now().Unix(), len(ids), string(encoded), resolvedID)
	if err != nil {
		return fmt.Errorf("failed to record anomaly: %w", err)
	}
	return nil
}

// Anomalies returns recorded anomalies, newest first.
func (a *Auditor) Anomalies(ctx context.Context, limit int) ([]*Anomaly, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := a.db.QueryContext(ctx,
		"SELECT id, detected_at, active_count, active_ids, resolved_id FROM audit_log ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var anomalies []*Anomaly
	for rows.Next() {
		var an Anomaly
		var detectedAt int64
		var encoded string
		if err := rows.Scan(&an.ID, &detectedAt, &an.ActiveCount, &encoded, &an.ResolvedID); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		an.DetectedAt = time.Unix(detectedAt, 0).UTC()
		if err := json.Unmarshal([]byte(encoded), &an.ActiveIDs); err != nil {
			return nil, fmt.Errorf("failed to decode active ids: %w", err)
		}
		anomalies = append(anomalies, &an)
	}
	return anomalies, rows.Err()
}

// Stop stops the scheduler and waits for any running audit to finish.
func (a *Auditor) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cron != nil && a.running {
		ctx := a.cron.Stop()
		<-ctx.Done()
		a.running = false
		a.logger.Info("consistency auditor stopped")
	}
}

// Close stops the auditor and closes the anomaly log.
func (a *Auditor) Close() error {
	a.Stop()
	return a.db.Close()
}

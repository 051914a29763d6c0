package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"metaweb/console/pkg/modelconfig"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/metaweb.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements modelconfig.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite storage backend.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "modelconfig.storage.sqlite")

	// Pragmas in the DSN apply to every pooled connection, not just the
	// one a later Exec happens to land on. Transactions start immediate:
	// a deferred read-then-write transaction that loses the write race
	// gets SQLITE_BUSY without waiting out the busy timeout, so racing
	// publishes would fail spuriously instead of serializing.
	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_txlock=immediate",
		config.Path, config.BusyTimeout.Milliseconds())
	if config.WALMode {
		dsn += "&_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite config store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		_, err := s.db.Exec("PRAGMA journal_mode=WAL;")
		if err != nil {
			return modelconfig.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs))
	if err != nil {
		return modelconfig.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	_, err = s.db.Exec(Schema)
	if err != nil {
		return modelconfig.NewStorageError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	_, err = s.db.Exec(InsertSchemaVersion, SchemaVersion)
	if err != nil {
		return modelconfig.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err = s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return modelconfig.NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return modelconfig.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Create validates the input, resolves defaults, and inserts a new inactive
// configuration version. The version number is assigned by the INSERT's
// subselect, so concurrent creates get distinct, gapless numbers.
func (s *SQLiteStore) Create(ctx context.Context, in modelconfig.CreateInput) (*modelconfig.ConfigVersion, error) {
	params, err := in.Resolve()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, insertConfig,
		params.Model, params.Temperature, params.MaxTokens, params.SystemPrompt, now)
	if err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "create", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "create", err)
	}

	cv, err := s.getByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return cv, nil
}

// GetActive returns the active configuration version, or (nil, nil) when
// none is active. If more than one row is flagged active the highest id
// wins and the anomaly is logged; callers never see the ambiguity.
func (s *SQLiteStore) GetActive(ctx context.Context) (*modelconfig.ConfigVersion, error) {
	rows, err := s.db.QueryContext(ctx, selectActiveConfigs)
	if err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "get_active", err)
	}
	defer rows.Close()

	var active []*modelconfig.ConfigVersion
	for rows.Next() {
		cv, err := scanConfig(rows)
		if err != nil {
			return nil, modelconfig.NewStorageError("sqlite", "get_active", err)
		}
		active = append(active, cv)
	}
	if err := rows.Err(); err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "get_active", err)
	}

	if len(active) == 0 {
		return nil, nil
	}
	if len(active) > 1 {
		s.logger.Error("multiple active configuration versions, resolving to highest id",
			"active_count", len(active),
			"resolved_id", active[0].ID)
	}
	return active[0], nil
}

// Publish atomically activates the version with the given id and
// deactivates all others. The deactivate and activate steps run inside one
// transaction so readers observe either the old active version or the new
// one, never zero or two.
func (s *SQLiteStore) Publish(ctx context.Context, id int64) (*modelconfig.ConfigVersion, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "publish", err)
	}
	defer tx.Rollback()

	// Verify the target exists before touching any flags.
	if _, err := s.getByID(ctx, tx, id); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, deactivateAllConfigs); err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "publish", err)
	}
	if _, err := tx.ExecContext(ctx, activateConfig, id); err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "publish", err)
	}

	cv, err := s.getByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "publish", err)
	}
	return cv, nil
}

// List returns configuration versions ordered by id descending. The limit
// is clamped to the documented range.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*modelconfig.ConfigVersion, error) {
	if limit < modelconfig.MinListLimit {
		limit = modelconfig.MinListLimit
	}
	if limit > modelconfig.MaxListLimit {
		limit = modelconfig.MaxListLimit
	}

	rows, err := s.db.QueryContext(ctx, selectConfigHistory, limit)
	if err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	configs := make([]*modelconfig.ConfigVersion, 0, limit)
	for rows.Next() {
		cv, err := scanConfig(rows)
		if err != nil {
			return nil, modelconfig.NewStorageError("sqlite", "list", err)
		}
		configs = append(configs, cv)
	}
	if err := rows.Err(); err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "list", err)
	}
	return configs, nil
}

// ActiveIDs returns the ids of all rows flagged active, newest first.
func (s *SQLiteStore) ActiveIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, selectActiveIDs)
	if err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "active_ids", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, modelconfig.NewStorageError("sqlite", "active_ids", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "active_ids", err)
	}
	return ids, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return modelconfig.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite config store closed")
	return nil
}

// querier abstracts *sql.DB and *sql.Tx for single-row lookups.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) getByID(ctx context.Context, q querier, id int64) (*modelconfig.ConfigVersion, error) {
	cv, err := scanConfig(q.QueryRowContext(ctx, selectConfigByID, id))
	if err == sql.ErrNoRows {
		return nil, &modelconfig.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, modelconfig.NewStorageError("sqlite", "get_by_id", err)
	}
	return cv, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanConfig(row rowScanner) (*modelconfig.ConfigVersion, error) {
	var cv modelconfig.ConfigVersion
	var isActive int
	err := row.Scan(&cv.ID, &cv.Version, &cv.Model, &cv.Temperature,
		&cv.MaxTokens, &cv.SystemPrompt, &isActive, &cv.CreatedAt)
	if err != nil {
		return nil, err
	}
	cv.IsActive = isActive == 1
	return &cv, nil
}

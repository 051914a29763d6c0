package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the configuration database
// schema. Version numbers are unique so two creates can never race into
// the same slot; the partial index on is_active keeps the active lookup
// cheap regardless of history size.
const Schema = `
-- Configuration versions table
CREATE TABLE IF NOT EXISTS model_configs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    version INTEGER NOT NULL,
    model TEXT NOT NULL,
    temperature REAL NOT NULL,
    max_tokens INTEGER NOT NULL,
    system_prompt TEXT NOT NULL DEFAULT '',
    is_active INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_model_configs_version ON model_configs(version);
CREATE INDEX IF NOT EXISTS idx_model_configs_active ON model_configs(is_active) WHERE is_active = 1;
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

// insertConfig assigns the version number inside the INSERT itself, so the
// read-max-then-write step is a single statement and concurrent creates
// serialize on the unique version index instead of racing.
const insertConfig = `
INSERT INTO model_configs (version, model, temperature, max_tokens, system_prompt, is_active, created_at)
SELECT COALESCE(MAX(version), 0) + 1, ?, ?, ?, ?, 0, ?
FROM model_configs;
`

const selectConfigByID = `
SELECT id, version, model, temperature, max_tokens, system_prompt, is_active, created_at
FROM model_configs WHERE id = ?;
`

const selectActiveConfigs = `
SELECT id, version, model, temperature, max_tokens, system_prompt, is_active, created_at
FROM model_configs WHERE is_active = 1 ORDER BY id DESC;
`

const selectConfigHistory = `
SELECT id, version, model, temperature, max_tokens, system_prompt, is_active, created_at
FROM model_configs ORDER BY id DESC LIMIT ?;
`

const selectActiveIDs = `
SELECT id FROM model_configs WHERE is_active = 1 ORDER BY id DESC;
`

const deactivateAllConfigs = `
UPDATE model_configs SET is_active = 0 WHERE is_active = 1;
`

const activateConfig = `
UPDATE model_configs SET is_active = 1 WHERE id = ?;
`

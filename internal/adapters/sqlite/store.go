package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"browsetree/internal/ports"
)

const schemaVersion = "1"

// DatabaseName is the file the store keeps inside its data directory
const DatabaseName = "browsetree.db"

// Store keeps links, frecency, daily scores and tree stats in one SQLite
// database.
type Store struct {
	db       *sql.DB
	dbPath   string
	halfLife time.Duration
	logger   *slog.Logger
}

var (
	_ ports.LinkStore       = (*Store)(nil)
	_ ports.FrecencyScorer  = (*Store)(nil)
	_ ports.DailyScoreStore = (*Store)(nil)
	_ ports.TreeStatsStore  = (*Store)(nil)
)

// NewStore creates a store. halfLife overrides the frecency half-life of
// every key when positive.
func NewStore(logger *slog.Logger, halfLife time.Duration) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{halfLife: halfLife, logger: logger.With("component", "sqlite")}
}

// Open initializes the database inside dataDir
func (s *Store) Open(dataDir string) error {
	// Expand ~ in path
	if len(dataDir) > 0 && dataDir[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[1:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	s.dbPath = filepath.Join(dataDir, DatabaseName)

	db, err := sql.Open("sqlite3", s.dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Performance pragmas + schema in single batch
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS links (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			domain_id TEXT,
			is_domain INTEGER NOT NULL DEFAULT 0,
			visits INTEGER NOT NULL DEFAULT 0,
			last_visit INTEGER
		);
		CREATE TABLE IF NOT EXISTS frecency (
			link_id TEXT NOT NULL,
			param_key TEXT NOT NULL,
			score REAL NOT NULL,
			last_timestamp INTEGER NOT NULL,
			sort_value REAL NOT NULL,
			PRIMARY KEY (link_id, param_key)
		);
		CREATE TABLE IF NOT EXISTS daily_scores (
			link_id TEXT NOT NULL,
			day TEXT NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (link_id, day)
		);
		CREATE TABLE IF NOT EXISTS tree_read_times (
			tree_id TEXT NOT NULL,
			url TEXT NOT NULL,
			read_time REAL NOT NULL,
			last_update INTEGER NOT NULL,
			PRIMARY KEY (tree_id, url)
		);
		CREATE TABLE IF NOT EXISTS tree_lifetimes (
			tree_id TEXT PRIMARY KEY,
			lifetime REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_links_domain ON links(domain_id);
		CREATE INDEX IF NOT EXISTS idx_frecency_sort ON frecency(param_key, sort_value);
		CREATE INDEX IF NOT EXISTS idx_daily_day ON daily_scores(day);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.dbPath
}

// SchemaVersion returns the version recorded in the meta table
func (s *Store) SchemaVersion() (string, error) {
	var version string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	return version, err
}

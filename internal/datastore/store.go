package datastore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Store wraps the SQL database connection and provides the persistence
// operations the watch engine and the admin surface need.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewStore initializes a new Store and ensures the schema is set up.
func NewStore(dataSourceName string, logger zerolog.Logger) (*Store, error) {
	storeLogger := logger.With().Str("component", "Datastore").Logger()
	storeLogger.Info().Str("db_path", dataSourceName).Msg("Initializing database connection")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}

	store := &Store{
		db:     dbInstance,
		logger: storeLogger,
	}

	if err := store.initSchema(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	storeLogger.Info().Str("db_path", dataSourceName).Msg("Database initialized and schema verified")
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS channel (
		channel_id INTEGER PRIMARY KEY,
		updated_text TEXT NOT NULL,
		not_updated_text TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS status (
		client TEXT PRIMARY KEY,
		version TEXT NOT NULL,
		publish_date TEXT NOT NULL DEFAULT '',
		channel_id INTEGER NOT NULL,
		updated INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		client TEXT NOT NULL,
		version TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS verified_user (
		discord_id INTEGER PRIMARY KEY
	);
	CREATE TABLE IF NOT EXISTS verified_role (
		role_id INTEGER PRIMARY KEY
	);
	CREATE TABLE IF NOT EXISTS log_channel (
		channel_id INTEGER PRIMARY KEY
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		s.logger.Error().Err(err).Msg("Failed to initialize schema")
		return err
	}
	return nil
}

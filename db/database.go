package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"ShellFM/config"
	"ShellFM/logger"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var DB *sql.DB

// Open opens (and creates, if absent) the catalog database at the given path.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping catalog database: %w", err)
	}

	return conn, nil
}

// Connect establishes the global catalog connection.
func Connect(cfg *config.Config) error {
	conn, err := Open(cfg.DBPath)
	if err != nil {
		return err
	}
	DB = conn
	logger.Info("connected to catalog database", logger.String("path", cfg.DBPath))
	return nil
}

// InitSchema creates the catalog tables if they don't exist.
func InitSchema(conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			filename TEXT NOT NULL,
			artist TEXT,
			album TEXT,
			duration REAL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS playlists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS playlist_tracks (
			playlist_id INTEGER NOT NULL,
			track_id INTEGER NOT NULL,
			FOREIGN KEY(playlist_id) REFERENCES playlists(id),
			FOREIGN KEY(track_id) REFERENCES tracks(id),
			UNIQUE(playlist_id, track_id)
		);`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize catalog schema: %w", err)
		}
	}
	return nil
}

// InitDB initializes the schema on the global connection.
func InitDB() error {
	if DB == nil {
		return fmt.Errorf("catalog database not connected")
	}
	if err := InitSchema(DB); err != nil {
		return err
	}
	logger.Info("catalog schema initialized")
	return nil
}

// Close closes the global catalog connection.
func Close() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}

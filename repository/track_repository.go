package repository

import (
	"database/sql"
	"fmt"

	"ShellFM/logger"
	"ShellFM/model"
)

// TrackRepository defines the interface for track catalog operations.
type TrackRepository interface {
	// UpsertTrack inserts the track unless its path is already cataloged.
	// Reports whether a new row was inserted; on insert, track.ID is set.
	UpsertTrack(track *model.Track) (bool, error)
	GetTrackByID(id int64) (*model.Track, error)
	GetTrackByPath(path string) (*model.Track, error)
	// QueryTracks returns tracks ordered by id ascending, paginated by
	// limit/offset. A non-empty search term matches case-insensitively
	// against filename, artist, or album.
	QueryTracks(limit, offset int, search string) ([]*model.Track, error)
	CountTracks() (int64, error)
}

// sqliteTrackRepository implements TrackRepository for SQLite.
type sqliteTrackRepository struct {
	DB *sql.DB
}

// NewSQLiteTrackRepository creates a new instance of sqliteTrackRepository.
func NewSQLiteTrackRepository(conn *sql.DB) TrackRepository {
	return &sqliteTrackRepository{DB: conn}
}

// UpsertTrack adds a track to the catalog if its path is not already present.
// The path carries a UNIQUE constraint, so repeated scans of the same tree
// are no-ops here.
func (r *sqliteTrackRepository) UpsertTrack(track *model.Track) (bool, error) {
	query := `INSERT OR IGNORE INTO tracks (path, filename, artist, album, duration)
	           VALUES (?, ?, ?, ?, ?)`
	stmt, err := r.DB.Prepare(query)
	if err != nil {
		return false, fmt.Errorf("failed to prepare statement for UpsertTrack: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(track.Path, track.Filename, track.Artist, track.Album, track.Duration)
	if err != nil {
		return false, fmt.Errorf("failed to execute UpsertTrack: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected for UpsertTrack: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("failed to get last insert ID for UpsertTrack: %w", err)
	}
	track.ID = id
	logger.Debug("track cataloged", logger.Int64("trackId", id), logger.String("path", track.Path))
	return true, nil
}

// GetTrackByID retrieves a track by its ID. Returns nil when not found.
func (r *sqliteTrackRepository) GetTrackByID(id int64) (*model.Track, error) {
	query := `SELECT id, path, filename, artist, album, duration, created_at
	           FROM tracks WHERE id = ?`
	track, err := scanTrack(r.DB.QueryRow(query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to scan track by ID %d: %w", id, err)
	}
	return track, nil
}

// GetTrackByPath retrieves a track by its file path. Returns nil when not found.
func (r *sqliteTrackRepository) GetTrackByPath(path string) (*model.Track, error) {
	query := `SELECT id, path, filename, artist, album, duration, created_at
	           FROM tracks WHERE path = ?`
	track, err := scanTrack(r.DB.QueryRow(query, path))
	if err != nil {
		return nil, fmt.Errorf("failed to scan track by path %s: %w", path, err)
	}
	return track, nil
}

// QueryTracks retrieves a page of tracks, optionally filtered by a search term.
func (r *sqliteTrackRepository) QueryTracks(limit, offset int, search string) ([]*model.Track, error) {
	query := `SELECT id, path, filename, artist, album, duration, created_at FROM tracks`
	params := []interface{}{}

	if search != "" {
		// SQLite LIKE is case-insensitive for ASCII by default.
		query += ` WHERE filename LIKE ? OR artist LIKE ? OR album LIKE ?`
		pattern := "%" + search + "%"
		params = append(params, pattern, pattern, pattern)
	}

	query += ` ORDER BY id ASC LIMIT ? OFFSET ?`
	params = append(params, limit, offset)

	rows, err := r.DB.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := make([]*model.Track, 0)
	for rows.Next() {
		track := &model.Track{}
		err := rows.Scan(&track.ID, &track.Path, &track.Filename, &track.Artist, &track.Album, &track.Duration, &track.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track in QueryTracks: %w", err)
		}
		tracks = append(tracks, track)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in QueryTracks: %w", err)
	}

	return tracks, nil
}

// CountTracks returns the total number of cataloged tracks.
func (r *sqliteTrackRepository) CountTracks() (int64, error) {
	var count int64
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return count, nil
}

// scanTrack scans a single track row, mapping sql.ErrNoRows to a nil track.
func scanTrack(row *sql.Row) (*model.Track, error) {
	track := &model.Track{}
	err := row.Scan(&track.ID, &track.Path, &track.Filename, &track.Artist, &track.Album, &track.Duration, &track.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Track not found
		}
		return nil, err
	}
	return track, nil
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"ShellFM/logger"
	"ShellFM/model"
)

var (
	// ErrDuplicatePlaylistName is returned when creating a playlist whose
	// name is already taken.
	ErrDuplicatePlaylistName = errors.New("playlist name already exists")
	// ErrUnknownTrack is returned when a playlist references a track id
	// that is not in the catalog.
	ErrUnknownTrack = errors.New("unknown track id")
)

// PlaylistRepository defines the interface for playlist operations.
type PlaylistRepository interface {
	// CreatePlaylist inserts a playlist and its track associations in one
	// transaction. Every track id must already exist in the catalog.
	CreatePlaylist(name string, trackIDs []int64) (int64, error)
	ListPlaylists() ([]*model.Playlist, error)
	GetPlaylistTracks(playlistID int64) ([]*model.Track, error)
}

// sqlitePlaylistRepository implements PlaylistRepository for SQLite.
type sqlitePlaylistRepository struct {
	DB *sql.DB
}

// NewSQLitePlaylistRepository creates a new instance of sqlitePlaylistRepository.
func NewSQLitePlaylistRepository(conn *sql.DB) PlaylistRepository {
	return &sqlitePlaylistRepository{DB: conn}
}

// CreatePlaylist creates a named playlist holding the given tracks. The whole
// operation rolls back if the name is taken or any track id is unknown.
func (r *sqlitePlaylistRepository) CreatePlaylist(name string, trackIDs []int64) (int64, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for CreatePlaylist: %w", err)
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.QueryRow(`SELECT id FROM playlists WHERE name = ?`, name).Scan(&existingID)
	if err == nil {
		return 0, fmt.Errorf("%w: %s", ErrDuplicatePlaylistName, name)
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to check for existing playlist %s: %w", name, err)
	}

	res, err := tx.Exec(`INSERT INTO playlists (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert playlist %s: %w", name, err)
	}
	playlistID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreatePlaylist: %w", err)
	}

	for _, trackID := range trackIDs {
		var exists int64
		err = tx.QueryRow(`SELECT COUNT(*) FROM tracks WHERE id = ?`, trackID).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("failed to verify track %d for playlist %s: %w", trackID, name, err)
		}
		if exists == 0 {
			return 0, fmt.Errorf("%w: %d", ErrUnknownTrack, trackID)
		}

		_, err = tx.Exec(`INSERT INTO playlist_tracks (playlist_id, track_id) VALUES (?, ?)`, playlistID, trackID)
		if err != nil {
			return 0, fmt.Errorf("failed to associate track %d with playlist %s: %w", trackID, name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit CreatePlaylist: %w", err)
	}

	logger.Info("playlist created",
		logger.Int64("playlistId", playlistID),
		logger.String("name", name),
		logger.Int("tracks", len(trackIDs)))
	return playlistID, nil
}

// ListPlaylists retrieves all playlists ordered by id ascending.
func (r *sqlitePlaylistRepository) ListPlaylists() ([]*model.Playlist, error) {
	rows, err := r.DB.Query(`SELECT id, name, created_at FROM playlists ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]*model.Playlist, 0)
	for rows.Next() {
		playlist := &model.Playlist{}
		if err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist in ListPlaylists: %w", err)
		}
		playlists = append(playlists, playlist)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in ListPlaylists: %w", err)
	}

	return playlists, nil
}

// GetPlaylistTracks retrieves the tracks belonging to a playlist.
func (r *sqlitePlaylistRepository) GetPlaylistTracks(playlistID int64) ([]*model.Track, error) {
	query := `SELECT t.id, t.path, t.filename, t.artist, t.album, t.duration, t.created_at
	           FROM tracks t
	           JOIN playlist_tracks pt ON pt.track_id = t.id
	           WHERE pt.playlist_id = ?
	           ORDER BY t.id ASC`
	rows, err := r.DB.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks for playlist %d: %w", playlistID, err)
	}
	defer rows.Close()

	tracks := make([]*model.Track, 0)
	for rows.Next() {
		track := &model.Track{}
		err := rows.Scan(&track.ID, &track.Path, &track.Filename, &track.Artist, &track.Album, &track.Duration, &track.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track in GetPlaylistTracks: %w", err)
		}
		tracks = append(tracks, track)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetPlaylistTracks: %w", err)
	}

	return tracks, nil
}

package model

import "time"

// Playlist is a named set of tracks. Names are unique across the catalog.
type Playlist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlaylistTrack associates a track with a playlist.
type PlaylistTrack struct {
	PlaylistID int64 `json:"playlistId"`
	TrackID    int64 `json:"trackId"`
}

package model

import "time"

// Track represents one cataloged audio file. A path is cataloged at most
// once; tracks are never updated in place.
type Track struct {
	ID        int64     `json:"id"`
	Path      string    `json:"-"` // Absolute path to the audio file
	Filename  string    `json:"filename"`
	Artist    string    `json:"artist"`
	Album     string    `json:"album"`
	Duration  float64   `json:"duration"` // Duration in seconds, 0 when unknown
	CreatedAt time.Time `json:"createdAt"`
}

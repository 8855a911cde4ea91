// Package metadata extracts artist/album tags from audio files. Extraction
// is best-effort: any file that cannot be opened or parsed yields the unknown
// sentinel, never an error, so library scans are unconditional.
package metadata

import (
	"os"
	"strings"

	"github.com/dhowden/tag"
)

const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// Metadata is the extraction result for one audio file.
type Metadata struct {
	Artist   string
	Album    string
	Duration float64 // seconds, 0 when the tag source carries no length
}

// Unknown returns the sentinel used when a file's tags cannot be read.
func Unknown() Metadata {
	return Metadata{Artist: UnknownArtist, Album: UnknownAlbum, Duration: 0}
}

// Extract reads the tags of the audio file at path. Missing or unreadable
// tags fall back to the unknown sentinel field by field.
func Extract(path string) Metadata {
	result := Unknown()

	f, err := os.Open(path)
	if err != nil {
		return result
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return result
	}

	if artist := strings.TrimSpace(m.Artist()); artist != "" {
		result.Artist = artist
	}
	if album := strings.TrimSpace(m.Album()); album != "" {
		result.Album = album
	}
	return result
}

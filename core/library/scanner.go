// Package library reconciles a filesystem tree against the track catalog.
package library

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ShellFM/core/metadata"
	"ShellFM/logger"
	"ShellFM/model"
	"ShellFM/repository"
)

// audioExtensions is the set of recognized audio file extensions, matched
// case-insensitively.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
}

// IsAudioFile reports whether the path carries a recognized audio extension.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extractor produces tag metadata for one audio file.
type Extractor func(path string) metadata.Metadata

// Scanner walks a music directory and catalogs every recognized audio file.
type Scanner struct {
	tracks  repository.TrackRepository
	extract Extractor
}

// NewScanner creates a Scanner. A nil extractor defaults to tag extraction.
func NewScanner(tracks repository.TrackRepository, extract Extractor) *Scanner {
	if extract == nil {
		extract = metadata.Extract
	}
	return &Scanner{tracks: tracks, extract: extract}
}

// Scan recursively walks root and upserts every audio file found. Unreadable
// files and directories are skipped, never fatal. Returns the number of newly
// cataloged tracks.
func (s *Scanner) Scan(root string) (int, error) {
	scanID := uuid.NewString()
	logger.Info("library scan started",
		logger.String("scanId", scanID),
		logger.String("root", root))

	added := 0
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping unreadable path",
				logger.String("scanId", scanID),
				logger.String("path", path),
				logger.ErrorField(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsAudioFile(path) {
			return nil
		}

		meta := s.extract(path)
		track := &model.Track{
			Path:     path,
			Filename: d.Name(),
			Artist:   meta.Artist,
			Album:    meta.Album,
			Duration: meta.Duration,
		}

		inserted, err := s.tracks.UpsertTrack(track)
		if err != nil {
			logger.Warn("failed to catalog track",
				logger.String("scanId", scanID),
				logger.String("path", path),
				logger.ErrorField(err))
			return nil
		}
		if inserted {
			added++
		}
		return nil
	})
	if walkErr != nil {
		return added, fmt.Errorf("failed to walk music directory %s: %w", root, walkErr)
	}

	logger.Info("library scan finished",
		logger.String("scanId", scanID),
		logger.Int("added", added))
	return added, nil
}

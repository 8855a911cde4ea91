package library

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"ShellFM/core/metadata"
	"ShellFM/model"
)

// fakeTrackRepo implements repository.TrackRepository in memory, keyed by
// path. Guarded by a mutex so the watcher test can poll it.
type fakeTrackRepo struct {
	mu        sync.Mutex
	byPath    map[string]*model.Track
	nextID    int64
	upsertErr error
}

func newFakeTrackRepo() *fakeTrackRepo {
	return &fakeTrackRepo{byPath: make(map[string]*model.Track)}
}

func (f *fakeTrackRepo) UpsertTrack(track *model.Track) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return false, f.upsertErr
	}
	if _, ok := f.byPath[track.Path]; ok {
		return false, nil
	}
	f.nextID++
	track.ID = f.nextID
	copied := *track
	f.byPath[track.Path] = &copied
	return true, nil
}

func (f *fakeTrackRepo) GetTrackByID(id int64) (*model.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.byPath {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTrackRepo) GetTrackByPath(path string) (*model.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byPath[path], nil
}

func (f *fakeTrackRepo) QueryTracks(limit, offset int, search string) ([]*model.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tracks := make([]*model.Track, 0, len(f.byPath))
	for _, t := range f.byPath {
		tracks = append(tracks, t)
	}
	return tracks, nil
}

func (f *fakeTrackRepo) CountTracks() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byPath)), nil
}

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll() error: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile() error: %v", err)
		}
	}
}

func TestScan_FiltersAndCounts(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"a.mp3",
		"b.FLAC", // extension match is case-insensitive
		filepath.Join("sub", "c.ogg"),
		"notes.txt",
		"cover.jpg",
	)

	repo := newFakeTrackRepo()
	scanner := NewScanner(repo, func(string) metadata.Metadata { return metadata.Unknown() })

	added, err := scanner.Scan(root)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if added != 3 {
		t.Errorf("Scan() added %d tracks, expected 3", added)
	}
	if _, ok := repo.byPath[filepath.Join(root, "notes.txt")]; ok {
		t.Error("Scan() cataloged a non-audio file")
	}
}

func TestScan_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.mp3", "b.ogg")

	repo := newFakeTrackRepo()
	scanner := NewScanner(repo, func(string) metadata.Metadata { return metadata.Unknown() })

	if added, err := scanner.Scan(root); err != nil || added != 2 {
		t.Fatalf("first Scan() = (%d, %v), expected (2, nil)", added, err)
	}
	if added, err := scanner.Scan(root); err != nil || added != 0 {
		t.Errorf("second Scan() = (%d, %v), expected (0, nil)", added, err)
	}
}

func TestScan_MetadataDefaults(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "garbage.mp3")

	repo := newFakeTrackRepo()
	// Real extractor against a file that is not valid audio.
	scanner := NewScanner(repo, nil)

	added, err := scanner.Scan(root)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if added != 1 {
		t.Fatalf("Scan() added %d tracks, expected 1", added)
	}

	track := repo.byPath[filepath.Join(root, "garbage.mp3")]
	if track.Artist != metadata.UnknownArtist || track.Album != metadata.UnknownAlbum || track.Duration != 0 {
		t.Errorf("cataloged track = %+v, expected unknown metadata defaults", track)
	}
}

func TestScan_SkipsUnreadableSubtree(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	writeFiles(t, root, "a.mp3", filepath.Join("locked", "b.mp3"))
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatalf("Chmod() error: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	repo := newFakeTrackRepo()
	scanner := NewScanner(repo, func(string) metadata.Metadata { return metadata.Unknown() })

	added, err := scanner.Scan(root)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if added != 1 {
		t.Errorf("Scan() added %d tracks, expected 1 (locked subtree skipped)", added)
	}
}

func TestScan_UpsertFailureDoesNotAbort(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.mp3", "b.mp3")

	repo := newFakeTrackRepo()
	repo.upsertErr = errors.New("catalog unavailable")
	scanner := NewScanner(repo, func(string) metadata.Metadata { return metadata.Unknown() })

	added, err := scanner.Scan(root)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if added != 0 {
		t.Errorf("Scan() added %d tracks with a failing catalog, expected 0", added)
	}
}

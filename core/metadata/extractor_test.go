package metadata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtract_MissingFile(t *testing.T) {
	got := Extract(filepath.Join(t.TempDir(), "missing.mp3"))
	if got != Unknown() {
		t.Errorf("Extract(missing) = %+v, expected the unknown sentinel", got)
	}
}

func TestExtract_UnparseableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.mp3")
	if err := os.WriteFile(path, []byte("this is not audio data"), 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	got := Extract(path)
	if got.Artist != UnknownArtist {
		t.Errorf("Extract(garbage).Artist = %q, expected %q", got.Artist, UnknownArtist)
	}
	if got.Album != UnknownAlbum {
		t.Errorf("Extract(garbage).Album = %q, expected %q", got.Album, UnknownAlbum)
	}
	if got.Duration != 0 {
		t.Errorf("Extract(garbage).Duration = %v, expected 0", got.Duration)
	}
}

func TestUnknown(t *testing.T) {
	u := Unknown()
	if u.Artist != "Unknown Artist" || u.Album != "Unknown Album" || u.Duration != 0 {
		t.Errorf("Unknown() = %+v", u)
	}
}

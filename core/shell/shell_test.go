package shell

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"ShellFM/core/library"
	"ShellFM/core/metadata"
	"ShellFM/core/player"
	"ShellFM/model"
	"ShellFM/repository"
)

// fakeTracks implements repository.TrackRepository over a fixed slice.
type fakeTracks struct {
	tracks []*model.Track
}

func (f *fakeTracks) UpsertTrack(track *model.Track) (bool, error) {
	for _, t := range f.tracks {
		if t.Path == track.Path {
			return false, nil
		}
	}
	track.ID = int64(len(f.tracks) + 1)
	copied := *track
	f.tracks = append(f.tracks, &copied)
	return true, nil
}

func (f *fakeTracks) GetTrackByID(id int64) (*model.Track, error) {
	for _, t := range f.tracks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTracks) GetTrackByPath(path string) (*model.Track, error) {
	for _, t := range f.tracks {
		if t.Path == path {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTracks) QueryTracks(limit, offset int, search string) ([]*model.Track, error) {
	matched := make([]*model.Track, 0)
	for _, t := range f.tracks {
		if search != "" && !strings.Contains(strings.ToLower(t.Filename), strings.ToLower(search)) {
			continue
		}
		matched = append(matched, t)
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeTracks) CountTracks() (int64, error) {
	return int64(len(f.tracks)), nil
}

// fakePlaylists implements repository.PlaylistRepository in memory.
type fakePlaylists struct {
	byName map[string][]int64
}

func (f *fakePlaylists) CreatePlaylist(name string, trackIDs []int64) (int64, error) {
	if _, ok := f.byName[name]; ok {
		return 0, fmt.Errorf("%w: %s", repository.ErrDuplicatePlaylistName, name)
	}
	f.byName[name] = trackIDs
	return int64(len(f.byName)), nil
}

func (f *fakePlaylists) ListPlaylists() ([]*model.Playlist, error) {
	playlists := make([]*model.Playlist, 0, len(f.byName))
	var id int64
	for name := range f.byName {
		id++
		playlists = append(playlists, &model.Playlist{ID: id, Name: name})
	}
	return playlists, nil
}

func (f *fakePlaylists) GetPlaylistTracks(playlistID int64) ([]*model.Track, error) {
	return nil, nil
}

// noopPlayer satisfies player.Player without spawning anything.
type noopPlayer struct{}

func (noopPlayer) Start(string) error { return nil }
func (noopPlayer) Suspend() error     { return nil }
func (noopPlayer) Resume() error      { return nil }
func (noopPlayer) Terminate() error   { return nil }
func (noopPlayer) Kill() error        { return nil }
func (noopPlayer) Wait() error        { return nil }

func newTestShell(tracks []*model.Track) (*Shell, *bytes.Buffer) {
	repo := &fakeTracks{tracks: tracks}
	playlists := &fakePlaylists{byName: make(map[string][]int64)}
	scanner := library.NewScanner(repo, func(string) metadata.Metadata { return metadata.Unknown() })
	ctrl := player.NewController(func() player.Player { return noopPlayer{} }, time.Second)

	out := &bytes.Buffer{}
	sh := New(repo, playlists, scanner, ctrl, "/music", strings.NewReader(""), out)
	return sh, out
}

func sampleTracks() []*model.Track {
	return []*model.Track{
		{ID: 1, Path: "/m/a.mp3", Filename: "a.mp3", Artist: "Alpha"},
		{ID: 2, Path: "/m/b.mp3", Filename: "b.mp3", Artist: "Beta"},
	}
}

func TestDispatch_List(t *testing.T) {
	sh, out := newTestShell(sampleTracks())

	if exit := sh.Dispatch("list"); exit {
		t.Fatal("list requested exit")
	}
	got := out.String()
	if !strings.Contains(got, "1: a.mp3 - Alpha") || !strings.Contains(got, "2: b.mp3 - Beta") {
		t.Errorf("list output = %q, expected both tracks", got)
	}
}

func TestDispatch_PlayByNumber(t *testing.T) {
	sh, out := newTestShell(sampleTracks())

	sh.Dispatch("play 2")
	if got := out.String(); !strings.Contains(got, "Now playing: b.mp3 - Beta") {
		t.Errorf("output = %q, expected now-playing line for b.mp3", got)
	}
}

func TestDispatch_PlayEmptyCatalog(t *testing.T) {
	sh, out := newTestShell(nil)

	sh.Dispatch("play")
	if got := out.String(); !strings.Contains(got, "No tracks to play.") {
		t.Errorf("output = %q, expected empty-queue message", got)
	}
}

func TestDispatch_Search(t *testing.T) {
	sh, out := newTestShell(sampleTracks())

	sh.Dispatch("search b.mp")
	got := out.String()
	if !strings.Contains(got, "b.mp3") || strings.Contains(got, "a.mp3") {
		t.Errorf("search output = %q, expected only b.mp3", got)
	}
}

func TestDispatch_PlaylistRoundTrip(t *testing.T) {
	sh, out := newTestShell(sampleTracks())

	sh.Dispatch("playlist Favorites 1 2")
	if got := out.String(); !strings.Contains(got, `Playlist "Favorites" created with 2 tracks.`) {
		t.Fatalf("output = %q, expected creation message", got)
	}

	out.Reset()
	sh.Dispatch("playlist Favorites 1")
	if got := out.String(); !strings.Contains(got, `Playlist "Favorites" already exists.`) {
		t.Errorf("output = %q, expected duplicate-name message", got)
	}

	out.Reset()
	sh.Dispatch("playlists")
	if got := out.String(); !strings.Contains(got, "Favorites") {
		t.Errorf("output = %q, expected playlist listing", got)
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	sh, out := newTestShell(nil)

	sh.Dispatch("frobnicate")
	if got := out.String(); !strings.Contains(got, "Unknown command") {
		t.Errorf("output = %q, expected unknown-command hint", got)
	}
}

func TestDispatch_Exit(t *testing.T) {
	sh, _ := newTestShell(nil)

	if !sh.Dispatch("exit") {
		t.Error("exit did not request shell exit")
	}
	if sh.Dispatch("") {
		t.Error("blank line requested exit")
	}
}

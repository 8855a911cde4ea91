// Package shell implements the interactive command loop binding the catalog
// to the playback controller.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"ShellFM/core/library"
	"ShellFM/core/player"
	"ShellFM/logger"
	"ShellFM/model"
	"ShellFM/repository"
)

const helpText = `Available commands:
  scan                       - Scan the music directory
  list                       - List tracks
  play [n]                   - Play tracks (optional: start from list entry n)
  pause                      - Pause playback
  resume                     - Resume playback
  stop                       - Stop playback
  next                       - Next track
  prev                       - Previous track
  shuffle                    - Shuffle the queue
  search <term>              - Search tracks
  playlists                  - List playlists
  playlist <name> <id...>    - Create a playlist from track ids
  help                       - Show this help
  exit                       - Exit`

// Shell reads commands line by line and dispatches them against the catalog
// and the playback controller. One command runs to completion before the
// next is read.
type Shell struct {
	tracks    repository.TrackRepository
	playlists repository.PlaylistRepository
	scanner   *library.Scanner
	ctrl      *player.Controller
	musicDir  string

	in  io.Reader
	out io.Writer
}

// New creates a Shell reading from in and writing to out.
func New(
	tracks repository.TrackRepository,
	playlists repository.PlaylistRepository,
	scanner *library.Scanner,
	ctrl *player.Controller,
	musicDir string,
	in io.Reader,
	out io.Writer,
) *Shell {
	return &Shell{
		tracks:    tracks,
		playlists: playlists,
		scanner:   scanner,
		ctrl:      ctrl,
		musicDir:  musicDir,
		in:        in,
		out:       out,
	}
}

// Run drives the command loop until "exit" or end of input. An interrupt
// signal does not terminate the loop: it is reported and control returns to
// the prompt, with any live playback session left untouched.
func (s *Shell) Run() error {
	fmt.Fprintln(s.out, "ShellFM")
	fmt.Fprintln(s.out, "Type 'help' for available commands")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		fmt.Fprint(s.out, "music> ")
		select {
		case <-interrupt:
			fmt.Fprintln(s.out, "\nInterrupted. Type 'exit' to quit.")
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if s.Dispatch(line) {
				return nil
			}
		}
	}
}

// Dispatch executes one command line. Reports whether the shell should exit.
func (s *Shell) Dispatch(line string) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "scan":
		s.cmdScan()
	case "list":
		s.cmdList()
	case "play":
		s.cmdPlay(args)
	case "pause":
		s.ctrl.Pause()
		fmt.Fprintln(s.out, "Playback paused.")
	case "resume":
		s.ctrl.Resume()
		fmt.Fprintln(s.out, "Playback resumed.")
	case "stop":
		s.ctrl.Stop()
		fmt.Fprintln(s.out, "Playback stopped.")
	case "next":
		s.cmdSkip(s.ctrl.Next)
	case "prev":
		s.cmdSkip(s.ctrl.Previous)
	case "shuffle":
		s.ctrl.Shuffle()
		fmt.Fprintln(s.out, "Queue shuffled.")
	case "search":
		s.cmdSearch(args)
	case "playlists":
		s.cmdPlaylists()
	case "playlist":
		s.cmdCreatePlaylist(args)
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "exit":
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type 'help' for available commands.\n", cmd)
	}
	return false
}

func (s *Shell) cmdScan() {
	added, err := s.scanner.Scan(s.musicDir)
	if err != nil {
		fmt.Fprintf(s.out, "Scan failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Added %d new tracks to library\n", added)
}

func (s *Shell) cmdList() {
	tracks, err := s.tracks.QueryTracks(20, 0, "")
	if err != nil {
		fmt.Fprintf(s.out, "Error listing tracks: %v\n", err)
		return
	}
	s.printTracks(tracks)
}

// cmdPlay plays either the n-th entry of the current list view or, with no
// argument, the first ten tracks of the catalog. The positional index is
// resolved against the paginated list, not a stable track id.
func (s *Shell) cmdPlay(args []string) {
	var (
		tracks []*model.Track
		err    error
	)
	if len(args) > 0 {
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil || n < 1 {
			fmt.Fprintf(s.out, "Invalid track number %q.\n", args[0])
			return
		}
		tracks, err = s.tracks.QueryTracks(1, n-1, "")
	} else {
		tracks, err = s.tracks.QueryTracks(10, 0, "")
	}
	if err != nil {
		fmt.Fprintf(s.out, "Error loading tracks: %v\n", err)
		return
	}

	queue := make([]model.Track, 0, len(tracks))
	for _, t := range tracks {
		queue = append(queue, *t)
	}

	if err := s.ctrl.Play(queue); err != nil {
		if errors.Is(err, player.ErrEmptyQueue) {
			fmt.Fprintln(s.out, "No tracks to play.")
			return
		}
		fmt.Fprintf(s.out, "Error playing track: %v\n", err)
		return
	}
	s.printNowPlaying()
}

func (s *Shell) cmdSkip(transition func() error) {
	if err := transition(); err != nil {
		fmt.Fprintf(s.out, "Error playing track: %v\n", err)
		return
	}
	s.printNowPlaying()
}

func (s *Shell) cmdSearch(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Usage: search <term>")
		return
	}
	term := strings.Join(args, " ")
	tracks, err := s.tracks.QueryTracks(50, 0, term)
	if err != nil {
		fmt.Fprintf(s.out, "Error searching tracks: %v\n", err)
		return
	}
	s.printTracks(tracks)
}

func (s *Shell) cmdPlaylists() {
	playlists, err := s.playlists.ListPlaylists()
	if err != nil {
		fmt.Fprintf(s.out, "Error listing playlists: %v\n", err)
		return
	}
	for _, p := range playlists {
		fmt.Fprintf(s.out, "%d: %s\n", p.ID, p.Name)
	}
}

func (s *Shell) cmdCreatePlaylist(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: playlist <name> <trackId> [trackId...]")
		return
	}
	name := args[0]
	trackIDs := make([]int64, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Fprintf(s.out, "Invalid track id %q.\n", arg)
			return
		}
		trackIDs = append(trackIDs, id)
	}

	if _, err := s.playlists.CreatePlaylist(name, trackIDs); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicatePlaylistName):
			fmt.Fprintf(s.out, "Playlist %q already exists.\n", name)
		case errors.Is(err, repository.ErrUnknownTrack):
			fmt.Fprintf(s.out, "Cannot create playlist: %v\n", err)
		default:
			fmt.Fprintf(s.out, "Error creating playlist: %v\n", err)
			logger.Error("playlist creation failed", logger.ErrorField(err))
		}
		return
	}
	fmt.Fprintf(s.out, "Playlist %q created with %d tracks.\n", name, len(trackIDs))
}

func (s *Shell) printTracks(tracks []*model.Track) {
	if len(tracks) == 0 {
		fmt.Fprintln(s.out, "No tracks found.")
		return
	}
	for _, t := range tracks {
		fmt.Fprintf(s.out, "%d: %s - %s\n", t.ID, t.Filename, t.Artist)
	}
}

func (s *Shell) printNowPlaying() {
	if current := s.ctrl.Status().Current; current != nil {
		fmt.Fprintf(s.out, "Now playing: %s - %s\n", current.Filename, current.Artist)
	}
}

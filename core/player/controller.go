package player

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"ShellFM/logger"
	"ShellFM/model"
)

// ErrEmptyQueue is returned when a play transition has nothing to play.
var ErrEmptyQueue = errors.New("no tracks to play")

// State names a playback state.
type State string

const (
	StateIdle    State = "idle"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
)

// Status is a point-in-time snapshot of the controller.
type Status struct {
	State       State
	QueueLength int
	Cursor      int
	Current     *model.Track // track at the cursor, nil when the queue is empty
}

// session binds the controller to one live player process.
type session struct {
	id     string
	player Player
}

// Controller owns the playback queue, the cursor, and the lifecycle of the
// external player process. It is driven by one command at a time; it is not
// safe for concurrent use.
type Controller struct {
	launch      Launcher
	stopTimeout time.Duration

	queue   []model.Track
	cursor  int
	session *session
	playing bool
	paused  bool
}

// NewController creates an idle Controller. A non-positive stopTimeout
// defaults to five seconds.
func NewController(launch Launcher, stopTimeout time.Duration) *Controller {
	if stopTimeout <= 0 {
		stopTimeout = 5 * time.Second
	}
	return &Controller{launch: launch, stopTimeout: stopTimeout}
}

// Play starts playback of the track at the cursor. A non-empty tracks
// argument replaces the queue wholesale and resets the cursor; nil (or empty)
// keeps the current queue. Any live session is torn down before the new
// process is spawned. On spawn failure the controller is left idle with no
// live session and the error is returned.
func (c *Controller) Play(tracks []model.Track) error {
	if len(tracks) > 0 {
		c.queue = append([]model.Track(nil), tracks...)
		c.cursor = 0
	}
	if len(c.queue) == 0 {
		return ErrEmptyQueue
	}

	c.Stop()

	track := c.queue[c.cursor]
	p := c.launch()
	if err := p.Start(track.Path); err != nil {
		logger.Error("failed to spawn player",
			logger.String("path", track.Path),
			logger.ErrorField(err))
		return fmt.Errorf("failed to play %s: %w", track.Filename, err)
	}

	c.session = &session{id: uuid.NewString(), player: p}
	c.playing = true
	c.paused = false
	logger.Info("playback started",
		logger.String("sessionId", c.session.id),
		logger.Int64("trackId", track.ID),
		logger.String("filename", track.Filename),
		logger.Int("cursor", c.cursor))
	return nil
}

// Pause suspends the live player. No-op unless currently playing.
func (c *Controller) Pause() {
	if c.session == nil || !c.playing || c.paused {
		return
	}
	if err := c.session.player.Suspend(); err != nil {
		// A dead process means the session is already over.
		logger.Warn("suspend failed, dropping session",
			logger.String("sessionId", c.session.id),
			logger.ErrorField(err))
		c.clearSession()
		return
	}
	c.paused = true
	logger.Info("playback paused", logger.String("sessionId", c.session.id))
}

// Resume continues a paused player. No-op unless currently paused.
func (c *Controller) Resume() {
	if c.session == nil || !c.paused {
		return
	}
	if err := c.session.player.Resume(); err != nil {
		logger.Warn("resume failed, dropping session",
			logger.String("sessionId", c.session.id),
			logger.ErrorField(err))
		c.clearSession()
		return
	}
	c.paused = false
	logger.Info("playback resumed", logger.String("sessionId", c.session.id))
}

// Stop tears down the live session, if any. Termination failures are
// swallowed: the post-condition is unconditional — no live session. Waiting
// for exit is bounded by the stop timeout, after which the process is killed.
func (c *Controller) Stop() {
	if c.session == nil {
		c.playing = false
		c.paused = false
		return
	}

	p := c.session.player
	id := c.session.id

	// A suspended process will not act on SIGTERM until continued.
	if c.paused {
		_ = p.Resume()
	}
	if err := p.Terminate(); err != nil {
		logger.Debug("terminate failed", logger.String("sessionId", id), logger.ErrorField(err))
	}

	done := make(chan error, 1)
	go func() { done <- p.Wait() }()
	select {
	case <-done:
	case <-time.After(c.stopTimeout):
		logger.Warn("player did not exit in time, killing",
			logger.String("sessionId", id),
			logger.Duration("timeout", c.stopTimeout))
		_ = p.Kill()
		<-done
	}

	c.clearSession()
	logger.Info("playback stopped", logger.String("sessionId", id))
}

// Next advances the cursor by one, wrapping past the end of the queue, and
// restarts playback there. No-op on an empty queue.
func (c *Controller) Next() error {
	if len(c.queue) == 0 {
		return nil
	}
	c.cursor = (c.cursor + 1) % len(c.queue)
	return c.Play(nil)
}

// Previous moves the cursor back by one, wrapping to the last track, and
// restarts playback there. No-op on an empty queue.
func (c *Controller) Previous() error {
	if len(c.queue) == 0 {
		return nil
	}
	c.cursor = (c.cursor - 1 + len(c.queue)) % len(c.queue)
	return c.Play(nil)
}

// Shuffle randomly permutes the queue. The cursor is not adjusted, so the
// track considered current can change silently mid-playback; flagged for
// product review rather than fixed here.
func (c *Controller) Shuffle() {
	if len(c.queue) == 0 {
		return
	}
	rand.Shuffle(len(c.queue), func(i, j int) {
		c.queue[i], c.queue[j] = c.queue[j], c.queue[i]
	})
	logger.Info("queue shuffled", logger.Int("tracks", len(c.queue)))
}

// Status reports the current playback state.
func (c *Controller) Status() Status {
	status := Status{
		State:       StateIdle,
		QueueLength: len(c.queue),
		Cursor:      c.cursor,
	}
	if c.playing {
		status.State = StatePlaying
	}
	if c.paused {
		status.State = StatePaused
	}
	if len(c.queue) > 0 {
		track := c.queue[c.cursor]
		status.Current = &track
	}
	return status
}

func (c *Controller) clearSession() {
	c.session = nil
	c.playing = false
	c.paused = false
}

// Package player drives playback of cataloged tracks through an external
// player process, controlled only via POSIX signals and exit waiting.
package player

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
)

// ErrNoProcess is returned when signaling a player that has no live process.
var ErrNoProcess = errors.New("no player process")

// Player is the boundary to one external playback process. An implementation
// owns at most one process for its lifetime: Start spawns it, the signal
// methods control it, Wait reaps it.
type Player interface {
	Start(path string) error
	Suspend() error
	Resume() error
	Terminate() error
	Kill() error
	Wait() error
}

// Launcher creates a fresh Player for each play transition. Tests substitute
// a fake so no real subprocess is spawned.
type Launcher func() Player

// NewProcessLauncher returns a Launcher spawning the given player binary,
// mpv by default.
func NewProcessLauncher(binary string) Launcher {
	return func() Player {
		return &processPlayer{binary: binary}
	}
}

// processPlayer implements Player over an os/exec subprocess.
type processPlayer struct {
	binary string
	cmd    *exec.Cmd
}

// Start spawns the player against the given audio file. Video output and the
// player's own terminal UI are disabled; standard streams stay detached from
// the session (os/exec connects them to the null device when unset).
func (p *processPlayer) Start(path string) error {
	cmd := exec.Command(p.binary, path, "--no-video", "--terminal=no")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player process: %w", err)
	}
	p.cmd = cmd
	return nil
}

func (p *processPlayer) signal(sig syscall.Signal) error {
	if p.cmd == nil || p.cmd.Process == nil {
		return ErrNoProcess
	}
	if err := p.cmd.Process.Signal(sig); err != nil {
		return fmt.Errorf("failed to signal player process: %w", err)
	}
	return nil
}

func (p *processPlayer) Suspend() error {
	return p.signal(syscall.SIGSTOP)
}

func (p *processPlayer) Resume() error {
	return p.signal(syscall.SIGCONT)
}

func (p *processPlayer) Terminate() error {
	return p.signal(syscall.SIGTERM)
}

func (p *processPlayer) Kill() error {
	if p.cmd == nil || p.cmd.Process == nil {
		return ErrNoProcess
	}
	return p.cmd.Process.Kill()
}

func (p *processPlayer) Wait() error {
	if p.cmd == nil {
		return ErrNoProcess
	}
	return p.cmd.Wait()
}

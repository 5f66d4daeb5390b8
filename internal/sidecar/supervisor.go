package sidecar

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// ErrSpawn indicates the backend process could not be started.
var ErrSpawn = errors.New("backend spawn failed")

// ErrAlreadyRunning indicates a backend child is already supervised.
var ErrAlreadyRunning = errors.New("backend already running")

// ErrStopped indicates Stop has already run and the supervisor will not
// launch another backend.
var ErrStopped = errors.New("supervisor stopped")

// ShellInfo carries the optional paths a shell can provide at startup.
type ShellInfo struct {
	ResourceDir string // bundled resources directory, empty when unavailable
	AppDataDir  string // per-user application data directory, empty when unavailable
}

// Supervisor owns at most one backend child process. Start fills the handle
// slot once; Stop takes the handle back, kills the child, and latches the
// supervisor shut, so a Start still in flight discards its child instead of
// installing one nothing would ever kill. The mutex guards only the slot and
// the latch, never the spawn or kill syscalls, so a slow spawn cannot stall
// shell shutdown.
type Supervisor struct {
	log *slog.Logger

	mu      sync.Mutex
	stopped bool
	child   *childHandle
}

// childHandle pairs the live child with the launch ID its log lines carry.
type childHandle struct {
	cmd      *exec.Cmd
	launchID string
}

// New returns a Supervisor logging through logger.
func New(logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Supervisor{log: logger}
}

// Start resolves the backend script and interpreter, builds the launch
// configuration, and spawns the child. Shells call it once from their
// startup hook; any error leaves the shell running with no backend attached.
// The returned LaunchConfig tells the shell where the backend listens.
// After Stop has run, Start fails with ErrStopped.
func (s *Supervisor) Start(info ShellInfo) (LaunchConfig, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return LaunchConfig{}, ErrStopped
	}
	if s.child != nil {
		s.mu.Unlock()
		return LaunchConfig{}, ErrAlreadyRunning
	}
	s.mu.Unlock()

	script, err := ResolveScript(info.ResourceDir)
	if err != nil {
		return LaunchConfig{}, err
	}
	root := ProjectRoot(script)
	interpreter, err := ResolveInterpreter(root)
	if err != nil {
		return LaunchConfig{}, err
	}
	cfg, err := BuildConfig(root, info.AppDataDir)
	if err != nil {
		return LaunchConfig{}, err
	}
	cfg.Interpreter = interpreter
	cfg.Script = script

	launchID := uuid.NewString()
	cmd := launchCommand(cfg)
	s.log.Info("starting backend",
		"launch_id", launchID,
		"interpreter", cfg.Interpreter,
		"script", cfg.Script,
		"url", cfg.URL(),
		"data_dir", cfg.DataDir,
	)
	if err := cmd.Start(); err != nil {
		return LaunchConfig{}, fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	s.mu.Lock()
	if s.stopped || s.child != nil {
		stopped := s.stopped
		s.mu.Unlock()
		_ = cmd.Process.Kill()
		go s.reap(cmd, launchID)
		if stopped {
			return LaunchConfig{}, ErrStopped
		}
		return LaunchConfig{}, ErrAlreadyRunning
	}
	s.child = &childHandle{cmd: cmd, launchID: launchID}
	s.mu.Unlock()

	s.log.Info("backend started", "launch_id", launchID, "pid", cmd.Process.Pid)
	go s.reap(cmd, launchID)
	return cfg, nil
}

// Stop kills the supervised backend, if any, and shuts the supervisor for
// good. It is safe to call repeatedly and from exit paths that fire more than
// once; kill errors are swallowed because the process may already be gone.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	s.stopped = true
	child := s.child
	s.child = nil
	s.mu.Unlock()
	if child == nil {
		return
	}
	s.log.Info("stopping backend", "launch_id", child.launchID, "pid", child.cmd.Process.Pid)
	if err := child.cmd.Process.Kill(); err != nil {
		s.log.Debug("kill backend", "launch_id", child.launchID, "err", err)
	}
}

// reap is the sole caller of Wait for the child, so its process table entry
// is always released even though Stop never waits for exit.
func (s *Supervisor) reap(cmd *exec.Cmd, launchID string) {
	if err := cmd.Wait(); err != nil {
		s.log.Info("backend exited", "launch_id", launchID, "err", err)
		return
	}
	s.log.Info("backend exited", "launch_id", launchID)
}

// launchCommand builds the child invocation: interpreter and script with the
// bind flags, working directory at the project root, and the resolved values
// mirrored into the environment so the backend can read either source. All
// three stdio streams stay discarded.
func launchCommand(cfg LaunchConfig) *exec.Cmd {
	port := strconv.Itoa(int(cfg.Port))
	cmd := exec.Command(cfg.Interpreter, cfg.Script, "--host", cfg.Host, "--port", port)
	cmd.Dir = cfg.Root
	cmd.Env = append(os.Environ(),
		envDataDir+"="+cfg.DataDir,
		envHost+"="+cfg.Host,
		envPort+"="+port,
	)
	return cmd
}

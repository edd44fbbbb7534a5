// Package session owns the kernel lifecycle and drives the two-phase
// traversal over a root entity set.
//
// The kernel is a single-writer, non-reentrant, process-global resource,
// so at most one session is live per process and all traversal is strictly
// sequential. The central ordering guarantee lives here: every phase-1
// action for every root completes before the one global synchronize, and
// no phase-2 action runs before it.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tessellate-dev/planemesh/internal/geom"
	"github.com/tessellate-dev/planemesh/internal/kernel"
	"github.com/tessellate-dev/planemesh/internal/mesh"
)

// Lifecycle errors. These are caller bugs in session handling, distinct
// from kernel failures which propagate unmodified.
var (
	// ErrNotOpen is returned by Generate/Write/Close outside the Open state.
	ErrNotOpen = errors.New("session: not open")

	// ErrAlreadyOpen is returned when a live session already exists; the
	// kernel is one logical instance per process.
	ErrAlreadyOpen = errors.New("session: a session is already open")
)

// State is the session's lifecycle position.
type State int

const (
	Unopened State = iota
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Unopened:
		return "unopened"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "invalid"
	}
}

// live guards the one-session-per-process rule. The kernel has no
// per-session identity, so this is process state by construction.
var (
	liveMu sync.Mutex
	live   bool
)

// Option configures a session.
type Option func(*Session)

// WithImporter sets the collaborator that translates the kernel's
// post-generation state into a mesh value. Without one, Generate returns
// a nil mesh (useful for dry runs and export-only flows).
func WithImporter(imp mesh.Importer) Option {
	return func(s *Session) { s.importer = imp }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// Session drives one kernel session from acquisition to release.
//
// Usage is strictly sequential and single-goroutine:
//
//	s, err := session.Start(k)
//	if err != nil { ... }
//	defer s.Close()
//	m, err := s.Generate(surface)
type Session struct {
	k        kernel.Kernel
	state    State
	importer mesh.Importer
	logger   *slog.Logger
}

// Start acquires the kernel session and returns an Open session. It fails
// with ErrAlreadyOpen while another session is live. The caller must
// Close the session on every path; Close is safe after failures.
func Start(k kernel.Kernel, opts ...Option) (*Session, error) {
	liveMu.Lock()
	defer liveMu.Unlock()
	if live {
		return nil, ErrAlreadyOpen
	}

	s := &Session{k: k, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	if err := k.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize kernel: %w", err)
	}
	live = true
	s.state = Open
	s.logger.Info("session opened")
	return s, nil
}

// State returns the session's lifecycle position.
func (s *Session) State() State { return s.state }

// Generate realizes the root entities against the kernel and produces the
// model's mesh.
//
// Order of effects, always: Construct over every root in caller order,
// one global Synchronize, Refine over every root in the same order, then
// kernel mesh generation. Shared entities are visited once regardless of
// how many roots reach them; re-running Generate with already-realized
// roots re-issues no creation calls.
//
// On any failure the error propagates unretried; the session stays Open
// so the caller decides whether to Close or inspect.
func (s *Session) Generate(roots ...geom.Entity) (*mesh.Mesh, error) {
	if s.state != Open {
		return nil, fmt.Errorf("%w: generate in state %s", ErrNotOpen, s.state)
	}

	s.logger.Info("construction phase starting", "roots", len(roots))
	for i, root := range roots {
		if err := root.Construct(s.k); err != nil {
			return nil, fmt.Errorf("construct root %d: %w", i, err)
		}
	}

	if err := s.k.Synchronize(); err != nil {
		return nil, fmt.Errorf("synchronize: %w", err)
	}
	s.logger.Info("model synchronized")

	for i, root := range roots {
		if err := root.Refine(s.k); err != nil {
			return nil, fmt.Errorf("refine root %d: %w", i, err)
		}
	}
	s.logger.Info("refinement phase done")

	if err := s.k.GenerateMesh(); err != nil {
		return nil, fmt.Errorf("generate mesh: %w", err)
	}
	s.logger.Info("mesh generated")

	if s.importer == nil {
		return nil, nil
	}
	m, err := s.importer.Import()
	if err != nil {
		return nil, fmt.Errorf("import mesh: %w", err)
	}
	return m, nil
}

// Write exports the generated mesh through the kernel's own exporter.
// Valid only while Open.
func (s *Session) Write(path string) error {
	if s.state != Open {
		return fmt.Errorf("%w: write in state %s", ErrNotOpen, s.state)
	}
	if err := s.k.Write(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Info("mesh written", "path", path)
	return nil
}

// Close releases the kernel session unconditionally and marks the session
// Closed. It must run on every exit path, including failed runs, so the
// kernel session never dangles. Closing twice is a no-op.
func (s *Session) Close() error {
	if s.state != Open {
		return nil
	}
	err := s.k.Finalize()

	liveMu.Lock()
	live = false
	liveMu.Unlock()

	s.state = Closed
	s.logger.Info("session closed")
	if err != nil {
		return fmt.Errorf("finalize kernel: %w", err)
	}
	return nil
}

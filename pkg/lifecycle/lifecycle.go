package lifecycle

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/pageflow/pkg/common/clock"
)

// Phase is the load phase of the page.
type Phase int8

const (
	// PhaseLoading means the page has not been marked ready yet.
	PhaseLoading Phase = iota

	// PhaseReady means the page has finished its initial load.
	PhaseReady
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseReady {
		return "ready"
	}
	return "loading"
}

// Visibility is whether the page is currently visible to the user.
type Visibility int8

const (
	// VisibilityVisible means the page is in the foreground. Pages start
	// visible.
	VisibilityVisible Visibility = iota

	// VisibilityHidden means the page is backgrounded or minimized.
	VisibilityHidden
)

// String returns the visibility name.
func (v Visibility) String() string {
	if v == VisibilityHidden {
		return "hidden"
	}
	return "visible"
}

// State tracks the page's load lifecycle: a one-way ready latch, a one-way
// fonts-loaded latch, and the current visibility. Latches expose closed
// channels so consumers can select on them; marking is idempotent.
type State interface {
	// MarkReady latches the page as ready. It reports whether this call
	// performed the transition; later calls return false and change
	// nothing.
	MarkReady() bool

	// Ready returns a channel that is closed once the page is ready.
	Ready() <-chan struct{}

	// Phase returns the current load phase.
	Phase() Phase

	// ReadyElapsed returns the time from construction to MarkReady,
	// zero while the page is still loading.
	ReadyElapsed() time.Duration

	// MarkFontsLoaded latches fonts as loaded. It reports whether this
	// call performed the transition.
	MarkFontsLoaded() bool

	// Fonts returns a channel that is closed once fonts are loaded.
	Fonts() <-chan struct{}

	// FontsLoaded reports whether fonts have been marked loaded.
	FontsLoaded() bool

	// SetVisibility records a visibility change. It reports whether the
	// value actually changed.
	SetVisibility(v Visibility) bool

	// Visibility returns the current visibility.
	Visibility() Visibility

	// Uptime returns the time since construction.
	Uptime() time.Duration
}

// Config holds configuration options for creating a new State.
type Config struct {
	// Clock provides time. If nil, SystemClock is used.
	Clock clock.Clock

	// Logger receives transition logs. If nil, logging is disabled.
	Logger *zerolog.Logger

	// OnReady runs once, synchronously, when the page is marked ready.
	OnReady func()

	// OnFontsLoaded runs once, synchronously, when fonts are marked loaded.
	OnFontsLoaded func()

	// OnVisibilityChange runs on every visibility flip with the new value.
	OnVisibilityChange func(Visibility)
}

type state struct {
	clock  clock.Clock
	logger zerolog.Logger

	onReady            func()
	onFontsLoaded      func()
	onVisibilityChange func(Visibility)

	mu         sync.Mutex
	start      time.Time
	readyAt    time.Time
	ready      bool
	fonts      bool
	visibility Visibility
	readyCh    chan struct{}
	fontsCh    chan struct{}
}

// New creates a page State with default configuration.
func New() State {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a page State with the specified configuration.
// No configuration is invalid, so there is no Safe variant.
func NewWithConfig(config Config) State {
	if config.Clock == nil {
		config.Clock = clock.SystemClock{}
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = config.Logger.With().Str("component", "lifecycle").Logger()
	}

	return &state{
		clock:              config.Clock,
		logger:             logger,
		onReady:            config.OnReady,
		onFontsLoaded:      config.OnFontsLoaded,
		onVisibilityChange: config.OnVisibilityChange,
		start:              config.Clock.Now(),
		visibility:         VisibilityVisible,
		readyCh:            make(chan struct{}),
		fontsCh:            make(chan struct{}),
	}
}

func (s *state) MarkReady() bool {
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return false
	}
	s.ready = true
	s.readyAt = s.clock.Now()
	elapsed := s.readyAt.Sub(s.start)
	close(s.readyCh)
	s.mu.Unlock()

	s.logger.Info().Dur("elapsed", elapsed).Msg("page ready")
	if s.onReady != nil {
		s.onReady()
	}
	return true
}

func (s *state) Ready() <-chan struct{} {
	return s.readyCh
}

func (s *state) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return PhaseReady
	}
	return PhaseLoading
}

func (s *state) ReadyElapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return 0
	}
	return s.readyAt.Sub(s.start)
}

func (s *state) MarkFontsLoaded() bool {
	s.mu.Lock()
	if s.fonts {
		s.mu.Unlock()
		return false
	}
	s.fonts = true
	elapsed := s.clock.Now().Sub(s.start)
	close(s.fontsCh)
	s.mu.Unlock()

	s.logger.Info().Dur("elapsed", elapsed).Msg("fonts loaded")
	if s.onFontsLoaded != nil {
		s.onFontsLoaded()
	}
	return true
}

func (s *state) Fonts() <-chan struct{} {
	return s.fontsCh
}

func (s *state) FontsLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fonts
}

func (s *state) SetVisibility(v Visibility) bool {
	s.mu.Lock()
	if s.visibility == v {
		s.mu.Unlock()
		return false
	}
	s.visibility = v
	s.mu.Unlock()

	s.logger.Info().Str("visibility", v.String()).Msg("visibility changed")
	if s.onVisibilityChange != nil {
		s.onVisibilityChange(v)
	}
	return true
}

func (s *state) Visibility() Visibility {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibility
}

func (s *state) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Now().Sub(s.start)
}

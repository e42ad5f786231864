package typewriter

import (
	"fmt"
	"sync"
	"time"

	"github.com/vnykmshr/pageflow/pkg/common/clock"
	"github.com/vnykmshr/pageflow/pkg/common/errors"
	"github.com/vnykmshr/pageflow/pkg/common/validation"
)

// Default animation pacing, applied by DefaultConfig and wherever a
// Config leaves a delay unset.
const (
	DefaultTypeDelay   = 120 * time.Millisecond
	DefaultDeleteDelay = 60 * time.Millisecond
	DefaultHoldDelay   = 1500 * time.Millisecond
)

// Phase identifies what the animation is doing at a given frame.
type Phase int8

const (
	// PhaseTyping means runes of the current word are being revealed.
	PhaseTyping Phase = iota

	// PhaseHolding means the fully typed word is on display.
	PhaseHolding

	// PhaseDeleting means runes of the current word are being erased.
	PhaseDeleting
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseTyping:
		return "typing"
	case PhaseHolding:
		return "holding"
	case PhaseDeleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// Frame is one rendered state of the animation.
type Frame struct {
	// Text is the visible prefix of the current word.
	Text string

	// Word is the index of the current word in Config.Words.
	Word int

	// Phase reports what the animation is doing at this frame.
	Phase Phase
}

// Writer animates a list of words as typewriter frames: each word is
// typed out rune by rune, held on display, erased, and followed by the
// next word.
type Writer interface {
	// Start resets the animation to the first word and emits the first
	// frame (empty text, word zero) on the calling goroutine. Later
	// frames arrive on the scheduler's timer goroutine. It returns
	// ErrAlreadyRunning if the animation is already running.
	Start() error

	// Stop halts the animation and reports whether it was running.
	// A stopped writer can be started again from a clean first frame.
	Stop() bool

	// Running reports whether the frame chain is active.
	Running() bool

	// Text returns the text of the most recently emitted frame.
	Text() string
}

// Config holds configuration options for creating a new Writer.
type Config struct {
	// Words is the list of words to animate. It must contain at least
	// one word and no empty words.
	Words []string

	// OnFrame receives every emitted frame. Required. It runs outside
	// the writer's lock, so it may call back into the writer.
	OnFrame func(Frame)

	// TypeDelay is the pause before each revealed rune. Zero means the
	// default of 120ms. Must not be negative.
	TypeDelay time.Duration

	// DeleteDelay is the pause before each erased rune. Zero means the
	// default of 60ms. Must not be negative.
	DeleteDelay time.Duration

	// HoldDelay is how long a fully typed word stays on display before
	// erasing begins. Zero means the default of 1.5s. Must not be
	// negative.
	HoldDelay time.Duration

	// Loop, when true, wraps from the last word back to the first.
	// When false the animation ends once the last word is fully typed,
	// leaving the complete word on display. DefaultConfig enables
	// looping.
	Loop bool

	// Scheduler provides timers. If nil, SystemScheduler is used.
	Scheduler clock.Scheduler
}

// DefaultConfig returns a Config with typical animation pacing and
// looping enabled.
func DefaultConfig() Config {
	return Config{
		TypeDelay:   DefaultTypeDelay,
		DeleteDelay: DefaultDeleteDelay,
		HoldDelay:   DefaultHoldDelay,
		Loop:        true,
	}
}

// writer implements Writer. Frames are driven by a chain of scheduler
// timers; each frame callback returns before the next timer is armed,
// so frames never overlap. The generation counter lets a callback from
// a stopped chain detect that it is stale, since a system timer may
// already be firing when Stop is called.
type writer struct {
	mu          sync.Mutex
	words       []string
	onFrame     func(Frame)
	typeDelay   time.Duration
	deleteDelay time.Duration
	holdDelay   time.Duration
	loop        bool
	scheduler   clock.Scheduler

	running bool
	gen     uint64
	timer   clock.Timer
	word    int
	runes   []rune
	shown   int
	phase   Phase
	text    string
}

// New creates a Writer that animates words with default pacing and
// looping enabled. It panics if the configuration is invalid.
func New(words []string, onFrame func(Frame)) Writer {
	config := DefaultConfig()
	config.Words = words
	config.OnFrame = onFrame
	return NewWithConfig(config)
}

// NewSafe is like New but returns an error instead of panicking.
func NewSafe(words []string, onFrame func(Frame)) (Writer, error) {
	config := DefaultConfig()
	config.Words = words
	config.OnFrame = onFrame
	return NewWithConfigSafe(config)
}

// NewWithConfig creates a Writer with the specified configuration.
// It panics if the configuration is invalid.
func NewWithConfig(config Config) Writer {
	w, err := NewWithConfigSafe(config)
	if err != nil {
		panic(err)
	}
	return w
}

// NewWithConfigSafe creates a Writer with the specified configuration,
// returning an error if the configuration is invalid.
func NewWithConfigSafe(config Config) (Writer, error) {
	if len(config.Words) == 0 {
		return nil, errors.NewValidationError("typewriter", "words", config.Words, "cannot be empty").
			WithHint("provide at least one word to animate")
	}
	for i, word := range config.Words {
		if word == "" {
			return nil, errors.NewValidationError("typewriter", fmt.Sprintf("words[%d]", i), word, "cannot be empty").
				WithHint("remove or fill the empty entry")
		}
	}
	if config.OnFrame == nil {
		return nil, errors.NewValidationError("typewriter", "onFrame", nil, "cannot be nil").
			WithHint("provide the frame rendering callback")
	}
	if err := validation.ValidateNonNegativeDuration("typewriter", "typeDelay", config.TypeDelay); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegativeDuration("typewriter", "deleteDelay", config.DeleteDelay); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegativeDuration("typewriter", "holdDelay", config.HoldDelay); err != nil {
		return nil, err
	}
	if config.TypeDelay == 0 {
		config.TypeDelay = DefaultTypeDelay
	}
	if config.DeleteDelay == 0 {
		config.DeleteDelay = DefaultDeleteDelay
	}
	if config.HoldDelay == 0 {
		config.HoldDelay = DefaultHoldDelay
	}
	if config.Scheduler == nil {
		config.Scheduler = clock.SystemScheduler{}
	}

	return &writer{
		words:       append([]string(nil), config.Words...),
		onFrame:     config.OnFrame,
		typeDelay:   config.TypeDelay,
		deleteDelay: config.DeleteDelay,
		holdDelay:   config.HoldDelay,
		loop:        config.Loop,
		scheduler:   config.Scheduler,
	}, nil
}

func (w *writer) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.ErrAlreadyRunning
	}
	w.running = true
	w.gen++
	gen := w.gen
	w.word = 0
	w.runes = []rune(w.words[0])
	w.shown = 0
	w.phase = PhaseTyping
	w.text = ""
	frame := w.frameLocked()
	w.mu.Unlock()

	w.onFrame(frame)

	w.arm(w.typeDelay, gen)
	return nil
}

func (w *writer) Stop() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return false
	}
	w.running = false
	w.gen++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	return true
}

func (w *writer) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *writer) Text() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.text
}

// step advances the animation by one frame. It runs on the scheduler's
// timer goroutine.
func (w *writer) step(gen uint64) {
	w.mu.Lock()
	if !w.running || gen != w.gen {
		w.mu.Unlock()
		return
	}
	delay, last := w.advanceLocked()
	frame := w.frameLocked()
	if last {
		w.running = false
		w.timer = nil
	}
	w.mu.Unlock()

	w.onFrame(frame)

	if !last {
		w.arm(delay, gen)
	}
}

// arm schedules the next step unless the chain was stopped or
// restarted while the frame callback ran.
func (w *writer) arm(delay time.Duration, gen uint64) {
	w.mu.Lock()
	if w.running && gen == w.gen {
		w.timer = w.scheduler.AfterFunc(delay, func() { w.step(gen) })
	}
	w.mu.Unlock()
}

func (w *writer) frameLocked() Frame {
	return Frame{Text: w.text, Word: w.word, Phase: w.phase}
}

// advanceLocked mutates the writer to its next frame and returns the
// delay until the frame after it, along with whether this frame ends
// the animation.
func (w *writer) advanceLocked() (time.Duration, bool) {
	switch w.phase {
	case PhaseTyping:
		return w.typeRuneLocked()

	case PhaseHolding:
		w.phase = PhaseDeleting

	case PhaseDeleting:
		if w.shown == 0 {
			// The current word is fully erased; start typing the next.
			w.word = (w.word + 1) % len(w.words)
			w.runes = []rune(w.words[w.word])
			w.phase = PhaseTyping
			return w.typeRuneLocked()
		}
	}

	w.shown--
	w.text = string(w.runes[:w.shown])
	if w.shown == 0 {
		return w.typeDelay, false
	}
	return w.deleteDelay, false
}

// typeRuneLocked reveals one more rune. Completing a word switches to
// the holding phase; completing the last word ends the animation when
// looping is disabled.
func (w *writer) typeRuneLocked() (time.Duration, bool) {
	w.shown++
	w.text = string(w.runes[:w.shown])
	if w.shown < len(w.runes) {
		return w.typeDelay, false
	}
	w.phase = PhaseHolding
	if !w.loop && w.word == len(w.words)-1 {
		return 0, true
	}
	return w.holdDelay, false
}

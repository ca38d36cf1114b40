// Package bowling implements the mini-game: one lane per visitor, a random
// roll per click and a timed strike celebration.
package bowling

import (
	"log/slog"
	"sync"
	"time"

	"metrobowling/pkg/realtime"
)

const (
	// MaxPins is the best possible roll; rolling it is a strike.
	MaxPins = 10
	// PinCount is the number of pins drawn by the pin-fall animation.
	PinCount = 10
	// MaxTilt bounds each animated pin's rotation, in degrees.
	MaxTilt = 20

	BannerDuration = 1500 * time.Millisecond
	PinsDuration   = 2000 * time.Millisecond
)

// Flag identifies one of the two celebration effects.
type Flag int

const (
	FlagBanner Flag = iota + 1
	FlagPins
)

func (f Flag) String() string {
	switch f {
	case FlagBanner:
		return "banner"
	case FlagPins:
		return "pins"
	default:
		return "unknown"
	}
}

// Cue is the strike sound. Play is fire-and-forget: the lane ignores errors.
type Cue interface {
	Play() error
}

// CueFunc adapts a function to Cue.
type CueFunc func() error

func (f CueFunc) Play() error { return f() }

// Options configures a Lane. Zero values pick production defaults.
type Options struct {
	Source    Source
	Decor     Source // pin tilt angles; kept apart so Source alone decides scores
	Scheduler realtime.Scheduler
	Cue       Cue
	Logger    *slog.Logger

	// OnCelebrationEnd runs after a scheduled reset has cleared flag. It is
	// called without the lane lock held.
	OnCelebrationEnd func(flag Flag)
}

// RollResult describes one roll. BannerReset and PinsReset are the handles
// of the resets scheduled by a strike and are nil otherwise.
type RollResult struct {
	Pins        int
	Score       int
	Roll        int
	Strike      bool
	BannerReset realtime.Timer
	PinsReset   realtime.Timer
}

// Celebration is a snapshot of the strike effects.
type Celebration struct {
	Banner bool
	Pins   bool
	Tilts  []int
}

// Active reports whether any effect is showing.
func (c Celebration) Active() bool {
	return c.Banner || c.Pins
}

// State is a consistent snapshot of a lane.
type State struct {
	Score       int
	Rolls       int
	LastPins    int
	Celebration Celebration
}

// Lane owns the cumulative score and celebration flags of one visitor.
type Lane struct {
	mu        sync.Mutex
	source    Source
	decor     Source
	scheduler realtime.Scheduler
	cue       Cue
	logger    *slog.Logger
	onEnd     func(Flag)

	score    int
	rolls    int
	lastPins int
	banner   bool
	pins     bool
	tilts    []int
}

// NewLane creates a lane with a zero score and no celebration showing.
func NewLane(opts Options) *Lane {
	l := &Lane{
		source:    opts.Source,
		decor:     opts.Decor,
		scheduler: opts.Scheduler,
		cue:       opts.Cue,
		logger:    opts.Logger,
		onEnd:     opts.OnCelebrationEnd,
		lastPins:  -1,
	}
	if l.source == nil {
		l.source = NewRandomSource()
	}
	if l.decor == nil {
		l.decor = NewRandomSource()
	}
	if l.scheduler == nil {
		l.scheduler = realtime.SystemClock{}
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Roll draws a score in [0, MaxPins], adds it to the total and, on a strike,
// raises both celebration flags and schedules their resets. Resets from
// earlier strikes are left running; whichever fires clears its flag.
func (l *Lane) Roll() RollResult {
	l.mu.Lock()
	pins := l.source.Intn(MaxPins + 1)
	l.score += pins
	l.rolls++
	l.lastPins = pins
	result := RollResult{Pins: pins, Score: l.score, Roll: l.rolls}
	if pins != MaxPins {
		l.mu.Unlock()
		return result
	}
	l.banner = true
	l.pins = true
	l.tilts = drawTilts(l.decor)
	result.Strike = true
	result.BannerReset = l.scheduler.AfterFunc(BannerDuration, func() { l.clear(FlagBanner) })
	result.PinsReset = l.scheduler.AfterFunc(PinsDuration, func() { l.clear(FlagPins) })
	l.mu.Unlock()

	l.playCue()
	return result
}

func (l *Lane) playCue() {
	if l.cue == nil {
		return
	}
	if err := l.cue.Play(); err != nil {
		l.logger.Debug("strike cue failed", slog.Any("error", err))
	}
}

func (l *Lane) clear(flag Flag) {
	l.mu.Lock()
	switch flag {
	case FlagBanner:
		l.banner = false
	case FlagPins:
		l.pins = false
		l.tilts = nil
	}
	l.mu.Unlock()
	if l.onEnd != nil {
		l.onEnd(flag)
	}
}

// Score returns the cumulative score.
func (l *Lane) Score() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.score
}

// Rolls returns how many rolls were made.
func (l *Lane) Rolls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rolls
}

// Celebration returns the current strike effects.
func (l *Lane) Celebration() Celebration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.celebrationLocked()
}

func (l *Lane) celebrationLocked() Celebration {
	return Celebration{
		Banner: l.banner,
		Pins:   l.pins,
		Tilts:  append([]int(nil), l.tilts...),
	}
}

// Snapshot returns the whole lane state. LastPins is -1 before the first roll.
func (l *Lane) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return State{
		Score:       l.score,
		Rolls:       l.rolls,
		LastPins:    l.lastPins,
		Celebration: l.celebrationLocked(),
	}
}

func drawTilts(src Source) []int {
	tilts := make([]int, PinCount)
	for i := range tilts {
		tilts[i] = src.Intn(2*MaxTilt+1) - MaxTilt
	}
	return tilts
}

// Package reveal animates per-test-case outcomes, exposing them one at a
// time with a fixed delay so the terminal can stage the reveal the same way
// for every operation.
package reveal

import (
	"sync"
	"time"

	"github.com/Avadhutgiri/judge-cli/api"
)

// DefaultDelay is the inter-item reveal delay.
const DefaultDelay = 800 * time.Millisecond

// State of the animation sequence.
type State int

const (
	Idle State = iota
	Revealing
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Revealing:
		return "revealing"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// Item is one revealed test-case outcome. Index is 1-based and stable. An
// empty status means the outcome is unknown (test never reached).
type Item struct {
	Index  int
	Status api.Status
}

// Animator reveals a status sequence step by step. Start during an active
// reveal restarts from scratch; a generation counter guarantees that timers
// belonging to a superseded sequence never touch the current one.
type Animator struct {
	mu sync.Mutex

	delay      time.Duration
	generation uint64
	state      State
	statuses   []api.Status
	revealed   []Item
	timer      *time.Timer

	onReveal   func(Item)
	onComplete func()
}

// Option configures an Animator.
type Option func(*Animator)

// WithDelay overrides the inter-item delay.
func WithDelay(d time.Duration) Option {
	return func(a *Animator) { a.delay = d }
}

// WithOnReveal registers a callback invoked for each revealed item, outside
// the animator's lock.
func WithOnReveal(fn func(Item)) Option {
	return func(a *Animator) { a.onReveal = fn }
}

// WithOnComplete registers a callback invoked once the sequence completes.
func WithOnComplete(fn func()) Option {
	return func(a *Animator) { a.onComplete = fn }
}

func New(opts ...Option) *Animator {
	a := &Animator{delay: DefaultDelay, state: Idle}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start begins revealing the given sequence. The first item is revealed
// immediately, each following item after the configured delay. An empty
// sequence completes immediately with nothing revealed. Calling Start while
// a reveal is in progress discards it and begins anew.
func (a *Animator) Start(statuses []api.Status) {
	a.mu.Lock()
	a.generation++
	a.stopTimerLocked()
	a.statuses = statuses
	a.revealed = a.revealed[:0]

	if len(statuses) == 0 {
		a.state = Complete
		done := a.onComplete
		a.mu.Unlock()
		if done != nil {
			done()
		}
		return
	}

	a.state = Revealing
	gen := a.generation
	a.mu.Unlock()

	a.step(gen, 0)
}

// Stop cancels any pending reveals and marks the sequence complete. Already
// revealed items stay visible.
func (a *Animator) Stop() {
	a.mu.Lock()
	a.generation++
	a.stopTimerLocked()
	if a.state == Revealing {
		a.state = Complete
	}
	a.mu.Unlock()
}

// Snapshot returns the revealed items so far and the current state.
func (a *Animator) Snapshot() ([]Item, State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	items := make([]Item, len(a.revealed))
	copy(items, a.revealed)
	return items, a.state
}

// Remaining reports the number of not-yet-revealed slots against a declared
// total, used to render placeholders while revealing.
func (a *Animator) Remaining(declaredTotal int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Revealing {
		return 0
	}
	n := declaredTotal - len(a.revealed)
	if n < 0 {
		return 0
	}
	return n
}

func (a *Animator) step(gen uint64, idx int) {
	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		return
	}

	if idx >= len(a.statuses) {
		a.state = Complete
		a.timer = nil
		done := a.onComplete
		a.mu.Unlock()
		if done != nil {
			done()
		}
		return
	}

	item := Item{Index: idx + 1, Status: a.statuses[idx]}
	a.revealed = append(a.revealed, item)
	a.timer = time.AfterFunc(a.delay, func() { a.step(gen, idx+1) })
	reveal := a.onReveal
	a.mu.Unlock()

	if reveal != nil {
		reveal(item)
	}
}

func (a *Animator) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

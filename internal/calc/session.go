package calc

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// flashDuration is how long the rejected-entry flash stays raised before it
// clears itself.
const flashDuration = 200 * time.Millisecond

// PersistFunc receives the state and display after every applied key. It is
// called on its own goroutine and must tolerate being invoked out of band;
// the store layer treats writes as last-write-wins.
type PersistFunc func(ctx context.Context, state State, display string)

// View is what the UI polls: the display projection plus the transient
// pressed-key highlight and the rejected-entry flash.
type View struct {
	Snapshot
	PressedKey string `json:"pressed_key,omitempty"`
	Flash      bool   `json:"flash"`
}

// Session owns the single mutable calculator state cell. All writers funnel
// through Apply, so direct UI presses and scheduler-driven presses serialize
// on the same lock; readers only ever see immutable snapshots.
type Session struct {
	mu         sync.Mutex
	state      State
	pressed    Key
	flash      bool
	flashTimer *time.Timer

	persist PersistFunc
	logger  *zap.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPersist installs the fire-and-forget persistence hook.
func WithPersist(fn PersistFunc) SessionOption {
	return func(s *Session) { s.persist = fn }
}

// NewSession returns a session at the power-on state.
func NewSession(logger *zap.Logger, opts ...SessionOption) *Session {
	s := &Session{
		state:  NewState(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore replaces the session state with one loaded from the store. Meant
// for startup, before any writer is running.
func (s *Session) Restore(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Apply presses one key against the engine and returns the resulting
// projection. Rejected digit or decimal entry raises the flash signal, which
// clears itself after flashDuration.
func (s *Session) Apply(ctx context.Context, k Key) Snapshot {
	start := time.Now()

	s.mu.Lock()
	old := s.state
	next := PressKey(old, k)
	s.state = next
	rejected := RejectsEntry(old, k)
	if rejected {
		s.raiseFlashLocked()
	}
	s.mu.Unlock()

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms
	attrs := metric.WithAttributes(attribute.String("key", string(k)))
	keyCounter.Add(ctx, 1, attrs)
	applyHistogram.Record(ctx, elapsed, attrs)
	if rejected {
		rejectCounter.Add(ctx, 1, attrs)
	}
	if next.IsError && !old.IsError {
		errorCounter.Add(ctx, 1, attrs)
		s.logger.Warn("calculator error latched",
			zap.String("key", string(k)),
			zap.String("display", old.Display),
		)
	}

	snap := Project(next)

	if s.persist != nil {
		// Persistence is off the critical path; the request may finish first.
		go s.persist(context.WithoutCancel(ctx), next, snap.Display)
	}

	return snap
}

// State returns a copy of the current engine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View returns the current display projection with UI signals attached.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Snapshot:   Project(s.state),
		PressedKey: string(s.pressed),
		Flash:      s.flash,
	}
}

// SetPressed marks k as visually held down. It never touches engine state.
func (s *Session) SetPressed(k Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed = k
}

// ClearPressed releases the visual highlight.
func (s *Session) ClearPressed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed = ""
}

func (s *Session) raiseFlashLocked() {
	s.flash = true
	if s.flashTimer != nil {
		s.flashTimer.Stop()
	}
	s.flashTimer = time.AfterFunc(flashDuration, func() {
		s.mu.Lock()
		s.flash = false
		s.mu.Unlock()
	})
}

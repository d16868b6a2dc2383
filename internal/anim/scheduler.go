package anim

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/evgenyvinnik/MCPlator-sub000/internal/calc"
)

// tracer is the scheduler's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("anim")

const (
	defaultKeyDelay    = 250 * time.Millisecond
	defaultSettleDelay = 50 * time.Millisecond
)

// Target is the calculator surface the scheduler drives. *calc.Session
// satisfies it; tests wrap it to record call order.
type Target interface {
	Apply(ctx context.Context, k calc.Key) calc.Snapshot
	SetPressed(k calc.Key)
	ClearPressed()
	View() calc.View
}

// CompletionFunc receives the final display text of a finished sequence.
type CompletionFunc func(display string)

// Scheduler drains queued sequences one at a time against a Target. It keeps
// the ordering guarantees the UI depends on: FIFO between sequences, strict
// command order within a sequence, at most one sequence running. There is no
// cancellation once a sequence starts; shutting down the run context stops
// the loop between commands.
type Scheduler struct {
	target Target
	logger *zap.Logger

	keyDelay    time.Duration
	settleDelay time.Duration

	mu        sync.Mutex
	queue     []Sequence
	running   bool
	callbacks map[string]CompletionFunc

	wake chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithKeyDelay sets the press hold time used when a command carries none.
func WithKeyDelay(d time.Duration) Option {
	return func(s *Scheduler) { s.keyDelay = d }
}

// WithSettleDelay sets the pause between releasing a key and applying it.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Scheduler) { s.settleDelay = d }
}

// NewScheduler returns an idle scheduler. Run must be started for queued
// sequences to play.
func NewScheduler(target Target, logger *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		target:      target,
		logger:      logger,
		keyDelay:    defaultKeyDelay,
		settleDelay: defaultSettleDelay,
		callbacks:   make(map[string]CompletionFunc),
		wake:        make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enqueue appends seq to the queue. It never blocks and never rejects;
// sequences are short and user-originated, so the queue is unbounded.
func (s *Scheduler) Enqueue(seq Sequence) {
	s.mu.Lock()
	s.queue = append(s.queue, seq)
	depth := len(s.queue)
	s.mu.Unlock()

	queueDepth.Record(context.Background(), int64(depth))
	s.logger.Info("sequence enqueued",
		zap.String("sequence_id", seq.ID),
		zap.Int("commands", len(seq.Commands)),
		zap.Int("queue_depth", depth),
	)

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// RegisterCompletion associates a one-shot callback with a sequence id. The
// callback fires with the final display text once that sequence finishes and
// is then discarded. Register before enqueueing to avoid missing a fast
// sequence.
func (s *Scheduler) RegisterCompletion(id string, fn CompletionFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks[id] = fn
}

// Running reports whether a sequence is mid-flight.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// QueueDepth returns the number of sequences waiting (not counting a running
// one).
func (s *Scheduler) QueueDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Run is the scheduler's single drain loop. It owns every scheduler-originated
// engine call, which is what makes the at-most-one-writer contract hold
// without locking inside the engine. Run blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}

		for {
			seq, ok := s.next()
			if !ok {
				break
			}
			s.play(ctx, seq)
			if ctx.Err() != nil {
				return
			}
		}
	}
}

// next pops the queue head and flips the running flag in one step.
func (s *Scheduler) next() (Sequence, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		s.running = false
		return Sequence{}, false
	}
	seq := s.queue[0]
	s.queue = s.queue[1:]
	s.running = true
	return seq, true
}

func (s *Scheduler) play(ctx context.Context, seq Sequence) {
	ctx, span := tracer.Start(ctx, "anim.sequence",
		trace.WithAttributes(
			attribute.String("sequence.id", seq.ID),
			attribute.Int("sequence.commands", len(seq.Commands)),
		),
	)
	defer span.End()

	start := time.Now()

	for i, cmd := range seq.Commands {
		if ctx.Err() != nil {
			span.SetStatus(codes.Error, "interrupted by shutdown")
			s.finish(seq.ID, false)
			return
		}
		s.runCommand(ctx, seq.ID, i, cmd)
	}

	sequenceHistogram.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(attribute.Int("commands", len(seq.Commands))))
	span.SetStatus(codes.Ok, "")

	s.finish(seq.ID, true)
}

func (s *Scheduler) runCommand(ctx context.Context, seqID string, index int, cmd Command) {
	switch cmd.Type {
	case CommandPressKey:
		hold := s.keyDelay
		if cmd.DelayMs > 0 {
			hold = time.Duration(cmd.DelayMs) * time.Millisecond
		}

		s.target.SetPressed(cmd.Key)
		s.pause(ctx, hold)
		s.target.ClearPressed()
		s.pause(ctx, s.settleDelay)

		snap := s.target.Apply(ctx, cmd.Key)
		commandCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("type", string(CommandPressKey)),
			attribute.String("key", string(cmd.Key)),
		))
		s.logger.Debug("sequence key applied",
			zap.String("sequence_id", seqID),
			zap.Int("index", index),
			zap.String("key", string(cmd.Key)),
			zap.String("display", snap.Display),
		)

	case CommandSleep:
		s.pause(ctx, time.Duration(cmd.DurationMs)*time.Millisecond)
		commandCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("type", string(CommandSleep)),
		))

	case CommandSetDisplay:
		// Reserved override hook; nothing observable yet.

	default:
		// A malformed command must not kill the sequence (the producer is a
		// possibly-imperfect external actor): skip and continue.
		s.logger.Warn("skipping unknown sequence command",
			zap.String("sequence_id", seqID),
			zap.Int("index", index),
			zap.String("type", string(cmd.Type)),
		)
	}
}

// finish reads the final display, fires the registered callback exactly once,
// and marks the scheduler idle.
func (s *Scheduler) finish(id string, completed bool) {
	display := s.target.View().Display

	s.mu.Lock()
	fn := s.callbacks[id]
	delete(s.callbacks, id)
	s.running = false
	s.mu.Unlock()

	sequenceCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.Bool("completed", completed),
	))
	s.logger.Info("sequence finished",
		zap.String("sequence_id", id),
		zap.Bool("completed", completed),
		zap.String("display", display),
	)

	if fn != nil && completed {
		fn(display)
	}
}

// pause sleeps for d, returning early only when ctx is cancelled.
func (s *Scheduler) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

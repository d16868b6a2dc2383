// Package calcapi exposes the calculator session and the animation scheduler
// over JSON/HTTP. Direct UI clicks hit the key endpoint; the chat/LLM layer
// submits whole key sequences and reads back the resulting display.
package calcapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/evgenyvinnik/MCPlator-sub000/internal/anim"
	"github.com/evgenyvinnik/MCPlator-sub000/internal/calc"
	"github.com/evgenyvinnik/MCPlator-sub000/internal/handlers"
	"github.com/evgenyvinnik/MCPlator-sub000/internal/observability"
)

// tracer is the API's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calcapi")

// API bundles the handlers' collaborators: the owned session state cell, the
// sequence scheduler, and the scripted sequence library.
type API struct {
	Session   *calc.Session
	Scheduler *anim.Scheduler
	Library   *anim.Library
}

// PressKey handles POST /calculator/keys: apply a single key immediately and
// return the new view. Unknown keys are applied as engine no-ops, not
// rejected, so an imperfect producer still gets a coherent snapshot back.
func (a *API) PressKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calcapi.press_key",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req PressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press_key", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	if req.Key == "" {
		observability.RecordError(ctx, span, logger, errorCounter, "press_key", "missing key", fmt.Errorf("empty key field"), http.StatusBadRequest, w)
		return
	}

	key := calc.Key(req.Key)
	span.SetAttributes(
		attribute.String("calc.key", req.Key),
		attribute.Bool("calc.key_known", key.Known()),
	)

	a.Session.Apply(ctx, key)
	view := a.Session.View()

	span.SetAttributes(attribute.String("calc.display", view.Display))
	span.SetStatus(codes.Ok, "")

	logger.Info("key applied",
		zap.String("key", req.Key),
		zap.String("display", view.Display),
		zap.String("request_id", requestID),
	)

	writeJSON(w, http.StatusOK, view)
}

// Display handles GET /calculator/display: the UI poll surface, returning the
// display text, indicator lamps, pressed-key highlight and flash signal.
func (a *API) Display(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Session.View())
}

// PlaySequence handles POST /calculator/sequences. The sequence is enqueued
// on the scheduler; with ?wait=true the response blocks until playback
// finishes and carries the final display, which is the chat layer's single
// "play this and tell me the result" operation.
func (a *API) PlaySequence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calcapi.play_sequence",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req SequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "play_sequence", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	seq := buildSequence(req)
	if len(seq.Commands) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "play_sequence", "empty sequence", fmt.Errorf("no keys or commands provided"), http.StatusBadRequest, w)
		return
	}

	a.play(ctx, w, r, span, logger, seq)
}

// PlayNamed handles POST /calculator/sequences/{name}/play using the scripted
// sequence library.
func (a *API) PlayNamed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	name := chi.URLParam(r, "name")

	ctx, span := tracer.Start(ctx, "calcapi.play_named",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
			attribute.String("sequence.name", name),
		),
	)
	defer span.End()

	seq, ok := a.Library.Sequence(name)
	if !ok {
		span.SetStatus(codes.Error, "unknown sequence name")
		logger.Warn("unknown sequence name",
			zap.String("name", name),
			zap.String("request_id", requestID),
		)
		handlers.WriteError(w, http.StatusNotFound, fmt.Sprintf("unknown sequence %q", name))
		return
	}

	a.play(ctx, w, r, span, logger, seq)
}

// Sequences handles GET /calculator/sequences: the library's names, so the
// chat layer can discover what is scripted.
func (a *API) Sequences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sequences": a.Library.Names()})
}

// play enqueues seq and answers either immediately (202 + queue position) or,
// with ?wait=true, once the scheduler's completion callback delivers the
// final display.
func (a *API) play(ctx context.Context, w http.ResponseWriter, r *http.Request, span trace.Span, logger *zap.Logger, seq anim.Sequence) {
	wait := r.URL.Query().Get("wait") == "true"

	span.SetAttributes(
		attribute.String("sequence.id", seq.ID),
		attribute.Int("sequence.commands", len(seq.Commands)),
		attribute.Bool("sequence.wait", wait),
	)

	if !wait {
		a.Scheduler.Enqueue(seq)
		span.SetStatus(codes.Ok, "")
		writeJSON(w, http.StatusAccepted, QueuedResponse{
			ID:       seq.ID,
			Queued:   true,
			Position: a.Scheduler.QueueDepth(),
		})
		return
	}

	// Register before enqueueing so a fast sequence cannot finish first.
	done := make(chan string, 1)
	a.Scheduler.RegisterCompletion(seq.ID, func(display string) {
		done <- display
	})
	a.Scheduler.Enqueue(seq)

	select {
	case display := <-done:
		span.SetAttributes(attribute.String("calc.display", display))
		span.SetStatus(codes.Ok, "")
		logger.Info("sequence played",
			zap.String("sequence_id", seq.ID),
			zap.Int("commands", len(seq.Commands)),
			zap.String("display", display),
		)
		writeJSON(w, http.StatusOK, ResultResponse{ID: seq.ID, Display: display})
	case <-ctx.Done():
		// Client went away; the sequence still runs to completion and the
		// buffered callback is dropped with it.
		span.SetStatus(codes.Error, "client cancelled while waiting")
	}
}

// buildSequence turns a request into a playable sequence, preferring an
// explicit command list over the flat key shorthand.
func buildSequence(req SequenceRequest) anim.Sequence {
	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}
	if len(req.Commands) > 0 {
		return anim.Sequence{ID: id, Commands: req.Commands}
	}
	keys := make([]calc.Key, 0, len(req.Keys))
	for _, k := range req.Keys {
		keys = append(keys, calc.Key(k))
	}
	return anim.FromKeys(id, keys, req.KeyDelayMs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-calculator/internal/calc"
	"go-calculator/internal/handlers"
	"go-calculator/internal/input"
	"go-calculator/internal/observability"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// maxBodyBytes bounds request bodies; a key script of this size is already absurd.
const maxBodyBytes = 64 << 10

// Handler serves the calculator session API.
type Handler struct {
	store     *Store
	formatter *calc.Formatter
	validator *Validator
}

// NewHandler wires the session API over store, rendering with formatter.
func NewHandler(store *Store, formatter *calc.Formatter) (*Handler, error) {
	if err := InitMetrics(); err != nil {
		return nil, err
	}
	validator, err := NewActionValidator()
	if err != nil {
		return nil, err
	}
	return &Handler{store: store, formatter: formatter, validator: validator}, nil
}

// ---------------------------------------------------------------------------
// Handlers: session lifecycle
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.create")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	sess, err := h.store.Create()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create-session", "session limit reached", err, http.StatusServiceUnavailable, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.session.id", sess.ID))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", sess.ID),
		zap.Int("live_sessions", h.store.Len()),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, h.response(sess.ID, sess.State(), nil))
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.get")
	defer span.End()

	sess, ok := h.lookup(ctx, span, w, r, "get-session")
	if !ok {
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, h.response(sess.ID, sess.State(), nil))
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.delete")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	if err := h.store.Delete(id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "delete-session", "session not found", err, http.StatusNotFound, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers: input
// ---------------------------------------------------------------------------

// PostAction handles POST /calculator/sessions/{id}/actions
func (h *Handler) PostAction(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.action")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	sess, ok := h.lookup(ctx, span, w, r, "action")
	if !ok {
		return
	}

	// --- 1. Validate and decode the body ---
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "action", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	if err := h.validator.ValidateBytes(body); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "action", "invalid action", err, http.StatusBadRequest, w)
		return
	}

	var req ActionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "action", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	action, err := req.Action()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "action", "invalid action", err, http.StatusBadRequest, w)
		return
	}

	// --- 2. Reduce ---
	state, steps, err := h.dispatch(ctx, sess, action)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "action", "action rejected", err, http.StatusUnprocessableEntity, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	changed := anyChanged(steps)
	handlers.WriteJSON(w, http.StatusOK, h.response(sess.ID, state, &changed))
}

// PostKeys handles POST /calculator/sessions/{id}/keys
func (h *Handler) PostKeys(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.keys")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	sess, ok := h.lookup(ctx, span, w, r, "keys")
	if !ok {
		return
	}

	var req KeysRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	keys := req.Keys
	if req.Script != "" {
		scripted, err := input.Sequence(req.Script)
		if err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "keys", "invalid key script", err, http.StatusBadRequest, w)
			return
		}
		keys = append(keys, scripted...)
	}

	actions := make([]calc.Action, 0, len(keys))
	for _, key := range keys {
		if a, ok := input.Translate(key); ok {
			actions = append(actions, a)
		}
	}
	span.SetAttributes(
		attribute.Int("calculator.keys.count", len(keys)),
		attribute.Int("calculator.actions.count", len(actions)),
	)

	state, steps, err := h.dispatch(ctx, sess, actions...)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "action rejected", err, http.StatusUnprocessableEntity, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	changed := anyChanged(steps)
	handlers.WriteJSON(w, http.StatusOK, h.response(sess.ID, state, &changed))
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// lookup resolves the {id} URL parameter, writing a 404 when it is unknown.
func (h *Handler) lookup(ctx context.Context, span trace.Span, w http.ResponseWriter, r *http.Request, opName string) (*Session, bool) {
	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	sess, err := h.store.Get(id)
	if err != nil {
		logger := observability.LoggerWithTrace(ctx)
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session not found", err, http.StatusNotFound, w)
		return nil, false
	}
	return sess, true
}

// dispatch reduces actions on sess, recording a child span, metrics and a
// debug log line per action.
func (h *Handler) dispatch(ctx context.Context, sess *Session, actions ...calc.Action) (calc.State, []Step, error) {
	logger := observability.LoggerWithTrace(ctx)

	start := time.Now()
	state, steps, err := sess.Dispatch(actions...)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	per := elapsed
	if len(actions) > 0 {
		per = elapsed / float64(len(actions))
	}

	for i, step := range steps {
		kind := string(step.Action.Kind())
		outcome := outcomeNoop
		if step.Changed {
			outcome = outcomeChanged
		}

		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.reduce.%s", kind),
			trace.WithAttributes(
				attribute.Int("calculator.step.index", i),
				attribute.String("calculator.action", kind),
				attribute.Bool("calculator.changed", step.Changed),
			),
		)
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		attrs := metric.WithAttributes(
			attribute.String("action", kind),
			attribute.String("outcome", outcome),
		)
		actionsCounter.Add(ctx, 1, attrs)
		actionDuration.Record(ctx, per, metric.WithAttributes(attribute.String("action", kind)))

		logger.Debug("calculator action applied",
			zap.String("session_id", sess.ID),
			zap.String("action", kind),
			zap.Bool("changed", step.Changed),
			zap.String("current", step.After.Current.String()),
		)
	}

	if err != nil {
		rejected := actions[len(steps)]
		kind := "unknown"
		if rejected != nil {
			kind = string(rejected.Kind())
		}
		actionsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("action", kind),
			attribute.String("outcome", outcomeRejected),
		))
		return state, steps, err
	}
	return state, steps, nil
}

func (h *Handler) response(id string, s calc.State, changed *bool) SessionResponse {
	return SessionResponse{
		SessionID: id,
		State:     newStateView(h.formatter.Render(s)),
		Changed:   changed,
	}
}

func anyChanged(steps []Step) bool {
	for _, s := range steps {
		if s.Changed {
			return true
		}
	}
	return false
}

package calculator

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"go-calculator/internal/calc"
	"go-calculator/internal/input"
	"go-calculator/internal/observability"
)

const (
	writeWait    = 5 * time.Second
	maxFrameSize = 4 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Key pads are served from anywhere; sessions are unguessable ids.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Stream handles GET /calculator/sessions/{id}/ws. Every client frame is one
// key or one action; every reply is the session state after applying it, or
// an ErrorFrame when the frame was rejected.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.stream")
	logger := observability.LoggerWithTrace(ctx)

	sess, ok := h.lookup(ctx, span, w, r, "stream")
	if !ok {
		span.End()
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		span.RecordError(err)
		span.SetStatus(codes.Error, "upgrade failed")
		span.End()
		logger.Warn("websocket upgrade failed", zap.String("session_id", sess.ID), zap.Error(err))
		return
	}
	span.SetStatus(codes.Ok, "")
	span.End()

	defer conn.Close()
	conn.SetReadLimit(maxFrameSize)

	logger.Info("calculator stream opened", zap.String("session_id", sess.ID))

	if err := h.writeFrame(conn, h.response(sess.ID, sess.State(), nil)); err != nil {
		return
	}

	frames := 0
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			logger.Info("calculator stream closed",
				zap.String("session_id", sess.ID),
				zap.Int("frames", frames),
				zap.Error(err),
			)
			return
		}
		frames++

		action, err := h.frameAction(message)
		if err != nil {
			if err := h.writeFrame(conn, ErrorFrame{Error: err.Error()}); err != nil {
				return
			}
			continue
		}

		frameCtx, frameSpan := tracer.Start(ctx, "calculator.session.frame")
		frameSpan.SetAttributes(
			attribute.String("calculator.session.id", sess.ID),
			attribute.String("calculator.action", string(action.Kind())),
		)
		state, steps, err := h.dispatch(frameCtx, sess, action)
		if err != nil {
			frameSpan.RecordError(err)
			frameSpan.SetStatus(codes.Error, "action rejected")
			frameSpan.End()
			if err := h.writeFrame(conn, ErrorFrame{Error: err.Error()}); err != nil {
				return
			}
			continue
		}
		frameSpan.SetStatus(codes.Ok, "")
		frameSpan.End()

		changed := anyChanged(steps)
		if err := h.writeFrame(conn, h.response(sess.ID, state, &changed)); err != nil {
			return
		}
	}
}

// frameAction decodes one client frame. A key takes precedence over the
// action fields; key names without a binding are rejected.
func (h *Handler) frameAction(message []byte) (calc.Action, error) {
	var frame StreamFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		return nil, err
	}

	if frame.Key != "" {
		a, ok := input.Translate(frame.Key)
		if !ok {
			return nil, &unboundKeyError{key: frame.Key}
		}
		return a, nil
	}

	body, err := json.Marshal(frame.ActionRequest)
	if err != nil {
		return nil, err
	}
	if err := h.validator.ValidateBytes(body); err != nil {
		return nil, err
	}
	return frame.ActionRequest.Action()
}

func (h *Handler) writeFrame(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

type unboundKeyError struct {
	key string
}

func (e *unboundKeyError) Error() string {
	return "no binding for key " + e.key
}

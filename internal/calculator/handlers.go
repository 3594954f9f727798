package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"calc-weather/internal/handlers"
	"calc-weather/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// errorKind classifies engine errors for metrics and logs.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrDomain):
		return "domain"
	case errors.Is(err, ErrUnknownButton):
		return "unknown_button"
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	}
	return "request"
}

func kindAttr(err error) attribute.KeyValue {
	return attribute.String("kind", errorKind(err))
}

// ---------------------------------------------------------------------------
// Handlers: binary operations
// ---------------------------------------------------------------------------

// Add handles POST /calculator/add
func Add(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "add", OpAdd)
}

// Subtract handles POST /calculator/subtract
func Subtract(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "subtract", OpSubtract)
}

// Multiply handles POST /calculator/multiply
func Multiply(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "multiply", OpMultiply)
}

// Divide handles POST /calculator/divide
func Divide(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "divide", OpDivide)
}

// handleBinaryOp is the shared implementation for all binary calculator operations.
func handleBinaryOp(w http.ResponseWriter, r *http.Request, opName string, op Operator) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w, kindAttr(err))
		return
	}

	if math.IsNaN(req.A) || math.IsInf(req.A, 0) || math.IsNaN(req.B) || math.IsInf(req.B, 0) {
		err := fmt.Errorf("a=%g b=%g", req.A, req.B)
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid numeric input", err, http.StatusBadRequest, w, kindAttr(err))
		return
	}

	span.SetAttributes(
		attribute.Float64("calculator.operand.a", req.A),
		attribute.Float64("calculator.operand.b", req.B),
	)

	start := time.Now()
	result, err := Apply(req.A, req.B, op)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w, kindAttr(err))
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.Float64("a", req.A),
		zap.Float64("b", req.B),
		zap.Float64("result", result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, CalcResponse{
		Operation: opName,
		A:         req.A,
		B:         req.B,
		Result:    result,
		Display:   Format(result),
	})
}

// ---------------------------------------------------------------------------
// Handlers: button sequences
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate. It feeds a button sequence through
// a fresh engine, creating a child span for every press.
func Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w, kindAttr(err))
		return
	}

	if len(req.Buttons) == 0 {
		err := errors.New("buttons array is empty")
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "no buttons provided", err, http.StatusBadRequest, w, kindAttr(err))
		return
	}

	span.SetAttributes(attribute.Int("evaluate.presses", len(req.Buttons)))

	state := NewState()
	steps := make([]EvaluateStep, 0, len(req.Buttons))

	for i, raw := range req.Buttons {
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.press.%d", i),
			trace.WithAttributes(
				attribute.Int("press.index", i),
				attribute.String("press.button", raw),
				attribute.String("press.display.before", state.Display),
			),
		)

		step := EvaluateStep{Button: raw}

		start := time.Now()
		b, err := ParseButton(raw)
		if err == nil {
			state, err = Step(state, b)
		}
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0

		recordPress(ctx, b, state, elapsed, err)

		if err != nil {
			step.Error = err.Error()
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, errorKind(err))
			logger.Warn("press failed",
				zap.Int("step", i),
				zap.String("button", raw),
				zap.String("kind", errorKind(err)),
				zap.Error(err),
				zap.String("request_id", requestID),
			)
		} else {
			stepSpan.SetStatus(codes.Ok, "")
		}
		step.Display = state.Display

		stepSpan.SetAttributes(attribute.String("press.display.after", state.Display))
		stepSpan.End()

		steps = append(steps, step)
	}

	span.SetAttributes(attribute.String("evaluate.display", state.Display))
	span.SetStatus(codes.Ok, "")

	logger.Info("button sequence evaluated",
		zap.Int("presses", len(req.Buttons)),
		zap.String("display", state.Display),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{Steps: steps, State: state})
}

// recordPress updates the press instruments for one engine step.
func recordPress(ctx context.Context, b Button, state State, elapsedMS float64, err error) {
	attrs := metric.WithAttributes(attribute.String("category", string(b.Category())))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsedMS, attrs)

	if err != nil {
		errorCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "press"),
			kindAttr(err),
		))
		return
	}
	if v, perr := ParseDisplay(state.Display); perr == nil {
		resultGauge.Record(ctx, v)
	}
}

// ---------------------------------------------------------------------------
// Handlers: sessions
// ---------------------------------------------------------------------------

// Handler serves the stateful session endpoints.
type Handler struct {
	sessions *Sessions
}

// NewHandler returns a Handler backed by sessions.
func NewHandler(sessions *Sessions) *Handler {
	return &Handler{sessions: sessions}
}

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, state := h.sessions.Create()

	observability.LoggerWithTrace(ctx).Info("calculator session created",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, SessionResponse{ID: id, State: state})
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := h.sessions.Get(id)
	if err != nil {
		handlers.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: id, State: state})
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		handlers.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PressButton handles POST /calculator/sessions/{id}/press
func (h *Handler) PressButton(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.press",
		trace.WithAttributes(
			attribute.String("calculator.session", id),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req PressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press", "invalid request body", err, http.StatusBadRequest, w, kindAttr(err))
		return
	}

	b, err := ParseButton(req.Button)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press", "unknown button", err, http.StatusBadRequest, w, kindAttr(err))
		return
	}
	span.SetAttributes(attribute.String("press.button", string(b)))

	start := time.Now()
	state, err := h.sessions.Press(id, b)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if errors.Is(err, ErrSessionNotFound) {
		observability.RecordError(ctx, span, logger, errorCounter, "press", "session not found", err, http.StatusNotFound, w, kindAttr(err))
		return
	}

	recordPress(ctx, b, state, elapsed, err)

	if err != nil {
		// The engine shows ErrorMarker; the press itself succeeded.
		span.AddEvent("display.error", trace.WithAttributes(kindAttr(err)))
		logger.Warn("press produced error display",
			zap.String("session_id", id),
			zap.String("button", string(b)),
			zap.String("kind", errorKind(err)),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
	}

	span.SetAttributes(attribute.String("press.display", state.Display))
	span.SetStatus(codes.Ok, "")

	logger.Debug("button pressed",
		zap.String("session_id", id),
		zap.String("button", string(b)),
		zap.String("display", state.Display),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: id, Button: string(b), State: state})
}

// KeypadLayout handles GET /calculator/keypad
func KeypadLayout(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, KeypadResponse{Rows: Keypad()})
}

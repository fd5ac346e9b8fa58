// Package v1handler implements the version 1 HTTP API on top of lookup.Service.
package v1handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"proplookup/internal/lookup"
	"proplookup/pkg/logger"
	"proplookup/pkg/serrors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Deps are the services the handlers delegate to.
type Deps struct {
	Lookup lookup.Service
}

type Handler struct {
	deps     Deps
	validate *validator.Validate
}

func New(deps Deps) *Handler {
	return &Handler{
		deps:     deps,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes returns the v1 routes, relative to the /v1 prefix.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /lookup", h.Lookup)
	mux.HandleFunc("POST /lookups/batch", h.RunBatch)
	mux.HandleFunc("POST /lookups/csv", h.RunCSVBatch)
	mux.HandleFunc("POST /phones/validate", h.ValidatePhone)

	return mux
}

// Error is the body of every non-2xx response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorStatusCode pairs an Error with the HTTP status it is sent with.
type ErrorStatusCode struct {
	StatusCode int
	Response   Error
}

var kindStatus = map[string]int{ //nolint: gochecknoglobals
	serrors.ErrNotFound.Error():      http.StatusNotFound,
	serrors.ErrUnauthorized.Error():  http.StatusUnauthorized,
	serrors.ErrForbidden.Error():     http.StatusForbidden,
	serrors.ErrBadRequest.Error():    http.StatusBadRequest,
	serrors.ErrInvalidFormat.Error(): http.StatusBadRequest,
	serrors.ErrConflict.Error():      http.StatusConflict,
	serrors.ErrTimeout.Error():       http.StatusGatewayTimeout,
	serrors.ErrUnavailable.Error():   http.StatusServiceUnavailable,
	serrors.ErrNetwork.Error():       http.StatusServiceUnavailable,
	serrors.ErrRateLimited.Error():   http.StatusTooManyRequests,
	serrors.ErrProvider.Error():      http.StatusBadGateway,
}

var kindMessage = map[string]string{ //nolint: gochecknoglobals
	serrors.ErrNotFound.Error():      "resource not found",
	serrors.ErrUnauthorized.Error():  "unauthorized",
	serrors.ErrForbidden.Error():     "forbidden",
	serrors.ErrBadRequest.Error():    "bad request",
	serrors.ErrInvalidFormat.Error(): "address is not in a recognized format",
	serrors.ErrConflict.Error():      "conflict",
	serrors.ErrTimeout.Error():       "request timed out",
	serrors.ErrUnavailable.Error():   "service unavailable",
	serrors.ErrNetwork.Error():       "provider unreachable",
	serrors.ErrRateLimited.Error():   "too many requests",
	serrors.ErrProvider.Error():      "provider error",
}

// StatusOf returns the HTTP status for an serrors kind name.
func StatusOf(kind string) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// NewError converts err into an API error. Internal errors never expose their
// message; semantic errors carry their own message or the kind's default.
func (h *Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	kind := serrors.KindOf(err).Error()
	status := StatusOf(kind)

	msg := kindMessage[kind]
	var se *serrors.Error
	if status != http.StatusInternalServerError && errors.As(err, &se) && se.Message() != "" {
		msg = se.Message()
	}
	if status == http.StatusInternalServerError {
		kind = serrors.ErrInternal.Error()
		msg = "internal error"
		logger.Error(ctx, "request failed", zap.Error(err))
	} else {
		logger.Debug(ctx, "request rejected", zap.String("kind", kind), zap.Error(err))
	}

	return &ErrorStatusCode{
		StatusCode: status,
		Response:   Error{Code: kind, Message: msg},
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	res := h.NewError(ctx, err)
	writeJSON(ctx, w, res.StatusCode, res.Response)
}

// writeJSON encodes v before sending the status, so an encoding failure
// still reaches the client as a 500.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error(ctx, "could not encode response", zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(Error{Code: serrors.ErrInternal.Error(), Message: "internal error"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Warn(ctx, "could not write response", zap.Error(err))
	}
}

// decode reads a JSON request body into v and validates it.
func (h *Handler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return serrors.Wrap(serrors.ErrBadRequest, err, "request body too large")
		}

		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid payload: %s", err.Error())
	}
	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return serrors.Wrap(serrors.ErrBadRequest, err, "invalid payload: %s failed on %s",
				verrs[0].Field(), verrs[0].Tag())
		}

		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid payload")
	}

	return nil
}

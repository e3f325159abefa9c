package handlers

import (
	"courier-delivery-service/internal/api/dto"
	"courier-delivery-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	actorHeader  = "X-User-Id"
	maxBodyBytes = 1 << 20
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

// writeServiceError maps service errors to HTTP statuses. Unknown errors are
// logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var rej *domain.Rejection
	switch {
	case errors.As(err, &rej):
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   rej.Error(),
			Code:    string(rej.Reason),
			Details: verdictResponse(domain.Reject(rej)),
		})
	case errors.Is(err, domain.ErrEditWindowClosed):
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error(), Code: "EDIT_WINDOW_CLOSED"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, r, http.StatusNotFound, dto.ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"})
	case errors.Is(err, domain.ErrNotCourier):
		writeJSON(w, r, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Code: "NOT_A_COURIER"})
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, r, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Code: "INVALID_INPUT"})
	case errors.Is(err, domain.ErrInvalidTransition):
		writeJSON(w, r, http.StatusConflict, dto.ErrorResponse{Error: err.Error(), Code: "INVALID_TRANSITION"})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, r, http.StatusConflict, dto.ErrorResponse{Error: err.Error(), Code: "CONFLICT"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, r, http.StatusForbidden, dto.ErrorResponse{Error: err.Error(), Code: "FORBIDDEN"})
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads exactly one JSON object into v and validates it. On failure
// it writes the 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	if err := getValidator().Struct(v); err != nil {
		writeJSON(w, r, http.StatusBadRequest, dto.ErrorResponse{
			Error: validationMessage(err),
			Code:  "INVALID_INPUT",
		})
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// actorID reads the acting user from X-User-Id. A missing header yields 0.
func actorID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(actorHeader))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, actorHeader)
	}
	return id, nil
}

// pathID parses the named path wildcard as a positive id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: path parameter %s must be a positive integer", domain.ErrInvalidInput, name)
	}
	return id, nil
}

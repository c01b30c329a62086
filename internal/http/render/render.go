package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/backup"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
	"github.com/MrJamesThe3rd/pocket/internal/persist"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err with the status its sentinel maps to. Unknown errors are
// logged and reported as internal errors.
func Error(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		JSON(w, status, errorResponse{Error: "internal error"})

		return
	}

	JSON(w, status, errorResponse{Error: err.Error()})
}

func StatusOf(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrIndexOutOfRange),
		errors.Is(err, matching.ErrNotFound),
		errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, backup.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, persist.ErrMalformed),
		errors.Is(err, persist.ErrInvalidBackup),
		errors.Is(err, backup.ErrNotJSON):
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

// Decode reads the JSON request body into v.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrInvalidInput, err)
	}

	return nil
}

// IntParam parses the named URL parameter as an int.
func IntParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ledger.ErrInvalidInput, name)
	}

	return v, nil
}

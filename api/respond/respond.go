// Package respond writes JSON responses and maps domain errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/energycore/auth"
	"github.com/kilianp07/energycore/core/geo"
	"github.com/kilianp07/energycore/core/model"
)

// ErrBadRequest marks malformed input detected by a handler.
var ErrBadRequest = errors.New("bad request")

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes payload with the given status code.
func JSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
	_, _ = w.Write([]byte("\n"))
}

// Error writes an error payload.
func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, ErrorBody{Error: msg})
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, geo.ErrInvalidCoordinate),
		errors.Is(err, model.ErrInvalidEnergyState),
		errors.Is(err, model.ErrInvalidEnergyLog),
		errors.Is(err, model.ErrInvalidStationType),
		errors.Is(err, model.ErrInvalidStation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorRecorder is implemented by response writers that keep the cause of
// an internal error for logging.
type ErrorRecorder interface {
	RecordError(err error)
}

// Err writes err with the status chosen by Status. Internal errors are not
// echoed to the client; the cause goes to w when it is an ErrorRecorder.
func Err(w http.ResponseWriter, err error) {
	code := Status(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		if rec, ok := w.(ErrorRecorder); ok {
			rec.RecordError(err)
		}
		msg = "internal error"
	}
	Error(w, code, msg)
}

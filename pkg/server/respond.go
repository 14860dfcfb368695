package server

import (
	"encoding/json"
	"errors"
	"net/http"

	nderrors "github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/notes"
)

// envelope is the JSON shape of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeList[T any](w http.ResponseWriter, items []T) {
	n := len(items)
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: items, Count: &n})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Error: msg})
}

// writeErr maps err to a status code. fallback is the message used for
// unexpected errors so internals do not leak to clients.
func writeErr(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, notes.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, notes.ErrExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		code := nderrors.GetCode(err)
		status := statusFor(code)
		msg := fallback
		if status < http.StatusInternalServerError {
			msg = nderrors.UserMessage(err)
		}
		writeJSON(w, status, envelope{Error: msg, Code: string(code)})
	}
}

func statusFor(code nderrors.Code) int {
	switch code {
	case nderrors.ErrCodeConfiguration, nderrors.ErrCodeInvalidInput,
		nderrors.ErrCodeInvalidFormat, nderrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case nderrors.ErrCodeNotFound:
		return http.StatusNotFound
	case nderrors.ErrCodeAlreadyExists:
		return http.StatusConflict
	case nderrors.ErrCodeRenderFailure:
		return http.StatusUnprocessableEntity
	case nderrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

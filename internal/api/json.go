package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/memopad/internal/apperr"
)

// maxBodyBytes caps command request bodies; note content travels inline.
const maxBodyBytes = 32 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// statusOf maps a command error kind to its HTTP status.
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindFileNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidFolder, apperr.KindInvalidFileName, apperr.KindNotMarkdownFile:
		return http.StatusBadRequest
	case apperr.KindAccessDenied:
		return http.StatusForbidden
	case apperr.KindUnsupportedFontFormat:
		return http.StatusUnsupportedMediaType
	case apperr.KindFileTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err as a {kind, message} body. Errors outside the command
// taxonomy are reported as io_error.
func writeError(w http.ResponseWriter, command string, err error) {
	e := apperr.As(err)
	status := statusOf(e.Kind)
	if status == http.StatusInternalServerError {
		slog.Error(command+" failed", slog.String("kind", string(e.Kind)), slog.String("error", err.Error()))
	} else {
		slog.Debug(command+" rejected", slog.String("kind", string(e.Kind)), slog.String("error", err.Error()))
	}
	writeJSON(w, status, e)
}

// decode reads a JSON command body into dst and validates it. An empty body
// decodes as {}. It writes the 400 response itself and reports false on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	if v, ok := dst.(validation.Validatable); ok {
		if err := v.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return false
		}
	}
	return true
}

package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperr "github.com/baharkarakas/recipe-api/internal/errors"
)

// MaxBodyBytes caps request bodies read by DecodeObject.
const MaxBodyBytes = 1 << 20

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// WriteErr maps a domain error onto its status and body. Anything that is not
// a client error is logged and answered with a generic 500.
func WriteErr(w http.ResponseWriter, log *slog.Logger, err error) {
	var e *apperr.Error
	if !apperr.As(err, &e) || e.HTTPStatus() >= http.StatusInternalServerError {
		log.Error("request failed", "err", err)
		WriteError(w, http.StatusInternalServerError, string(apperr.CodeInternal), "internal error", nil)
		return
	}
	WriteError(w, e.HTTPStatus(), string(e.Code), e.Message, e.Details)
}

// DecodeObject reads a JSON object body and returns its members undecoded.
func DecodeObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var obj map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.Validation("request body too large")
		}
		return nil, apperr.Validation("malformed JSON body")
	}
	if obj == nil {
		return nil, apperr.Validation("expected a JSON object")
	}
	return obj, nil
}

package http

import (
	"encoding/json"
	"net/http"

	apperrors "rentwheels/pkg/errors"
)

// Envelope is the flat response body shape used by every API endpoint:
// {"success": bool, ...payload} on success, {"success": false, "message": ...}
// on failure. Logical failures are reported in the payload, not the HTTP
// status line, so the status is 200 either way.
type Envelope map[string]any

func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func WriteSuccess(w http.ResponseWriter, payload Envelope) {
	body := Envelope{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	WriteJSON(w, http.StatusOK, body)
}

func WriteMessage(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, Envelope{"success": true, "message": message})
}

func WriteFailure(w http.ResponseWriter, err error) {
	appErr := apperrors.AsAppError(err)
	WriteJSON(w, http.StatusOK, Envelope{"success": false, "message": appErr.Message})
}

func WriteHTML(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

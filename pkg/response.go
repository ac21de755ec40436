package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
}{
	JSON: "application/json",
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Path    string `json:"path,omitempty"`
}

func WriteResponse(w http.ResponseWriter, contentType, message string, statusCode int) {
	WriteResponseBytes(w, contentType, []byte(message), statusCode)
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, statusCode int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(statusCode)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%s]: %s", message, err)
	}
}

// WriteJSON marshals v and writes it with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	respBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		WriteResponse(w, ContentType.JSON, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	WriteResponseBytes(w, ContentType.JSON, respBytes, statusCode)
}

func WriteJSONResponseOK(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, v)
}

func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// ErrorWriter writes internal errors. Error text is only exposed in development.
type ErrorWriter struct {
	ExposeDetails bool
}

func NewErrorWriter(environment string) ErrorWriter {
	return ErrorWriter{ExposeDetails: IsDevelopment(environment)}
}

func (ew ErrorWriter) Internal(w http.ResponseWriter, message string, err error) {
	resp := ErrorResponse{Error: message}
	if ew.ExposeDetails && err != nil {
		resp.Details = err.Error()
	}
	WriteJSON(w, http.StatusInternalServerError, resp)
}

func IsDevelopment(environment string) bool {
	switch environment {
	case "dev", "development", "ddev", "dockerdev":
		return true
	default:
		return false
	}
}

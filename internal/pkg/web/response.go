package web

import (
	"log/slog"
	"net/http"

	"github.com/ferdiebergado/gopherkit/http/response"
)

// OKResponse represents the structure of a JSON-encoded success response.
//
// It includes an optional message and optional data payload. The generic type
// parameter T allows OKResponse to carry arbitrary response data.
type OKResponse[T any] struct {
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// ErrorResponse represents the structure of a JSON-encoded error response.
//
// It includes a general error message and, optionally, a map of field-level
// validation errors. The Errors field is omitted from the response if empty.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OK writes a JSON-encoded success response to w with the provided HTTP status code.
//
// If msg is non-nil, its value is included in the response under the "message"
// field. If data is non-nil, it is included under the "data" field.
func OK[T any](w http.ResponseWriter, status int, msg *string, data *T) {
	payload := &OKResponse[*T]{}
	if msg != nil {
		payload.Message = *msg
	}

	if data != nil {
		payload.Data = data
	}

	response.JSON(w, status, payload)
}

// Fail writes a JSON-encoded error response to w with the provided HTTP
// status code. The reason is logged using slog at Error level with the key
// "reason"; only msg and errs reach the client.
func Fail(w http.ResponseWriter, status int, reason error, msg string, errs map[string]string) {
	slog.Error("request failed", "reason", reason)
	payload := &ErrorResponse{
		Message: msg,
		Errors:  errs,
	}
	response.JSON(w, status, payload)
}

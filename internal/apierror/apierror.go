// Package apierror provides the error response envelopes used across the API.
// The item endpoints preserve the exact wire shapes of the original service:
// some failures report under an "error" key, others under "message".
package apierror

// APIError is the {"error": ...} envelope.
type APIError struct {
	Error string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Error: msg}
}

// Message is the {"message": ...} envelope used by the update/delete paths.
type Message struct {
	Message string `json:"message"`
}

func NewMessage(msg string) *Message {
	return &Message{Message: msg}
}

// Internal is the 500 envelope for the update/delete paths: a generic message
// plus the underlying error text for diagnostics.
type Internal struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func NewInternal(err error) *Internal {
	return &Internal{Message: "Internal Server Error", Error: err.Error()}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Error: "Validation failed", Fields: fields}
}

// Package apierror defines the error envelopes every 4xx/5xx response uses.
// Clients always get the same shape and never see internal detail such as
// store responses or stack traces.
package apierror

// APIError is the single-message envelope.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries per-field messages for rejected request input.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

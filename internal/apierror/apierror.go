// Package apierror holds the JSON envelopes returned on 4xx/5xx responses.
// Handlers never write raw error strings from the database layer.
package apierror

// APIError is the canonical error envelope.
type APIError struct {
	Detail string `json:"detail"`
	// Code is a stable machine-readable identifier ("no_encontrado", "referencia_en_uso", ...)
	Code string `json:"code,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func WithCode(code, msg string) *APIError {
	return &APIError{Detail: msg, Code: code}
}

// ValidationError is returned when a payload violates the schema.
type ValidationError struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validación", Code: "schema_violation", Fields: fields}
}

package commerce7

import (
	"fmt"
	"net/http"
	"strings"

	"clubsignup/internal/domain"
)

// FieldError is one entry of a Commerce7 validation error body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response from Commerce7.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Type       string
	Message    string
	Errors     []FieldError
	Body       string
}

type errorBody struct {
	StatusCode int          `json:"statusCode"`
	Type       string       `json:"type"`
	Message    string       `json:"message"`
	Errors     []FieldError `json:"errors"`
}

func (e *APIError) Error() string {
	msg := e.PublicMessage()
	if e.Body != "" && e.Message == "" {
		msg = e.Body
	}
	return fmt.Sprintf("commerce7 %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// Unwrap maps a 404 onto domain.ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return nil
}

// PublicMessage is the upstream explanation without request paths or ids.
func (e *APIError) PublicMessage() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if len(e.Errors) == 0 {
		return msg
	}
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		field := fe.Field
		if field == "" {
			field = "unknown field"
		}
		detail := fe.Message
		if detail == "" {
			detail = "invalid value"
		}
		fields = append(fields, field+": "+detail)
	}
	return msg + " (" + strings.Join(fields, "; ") + ")"
}

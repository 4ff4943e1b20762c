package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnreachable  = errors.New("server unreachable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrClient       = errors.New("request rejected")
	ErrServer       = errors.New("server error")
	ErrBadResponse  = errors.New("unexpected response")
)

// FieldError is one per-field validation message returned with a 4xx.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the classified failure of one gateway call.
type Error struct {
	Kind    error
	Status  int
	Message string
	Fields  []FieldError
	Method  string
	Path    string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Method != "" {
		fmt.Fprintf(&b, " (%s %s", e.Method, e.Path)
		if e.Status != 0 {
			fmt.Fprintf(&b, " -> %d", e.Status)
		}
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// errorBody is the part of a failure envelope used for classification.
type errorBody struct {
	Message string       `json:"message"`
	Error   string       `json:"error"`
	Errors  []FieldError `json:"errors"`
}

// classify maps a non-2xx status and its body to an *Error.
func classify(status int, body []byte) *Error {
	e := &Error{Status: status}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = ErrUnauthorized
	case status == http.StatusForbidden:
		e.Kind = ErrForbidden
	case status >= 400 && status < 500:
		e.Kind = ErrClient
	case status >= 500:
		e.Kind = ErrServer
	default:
		e.Kind = ErrBadResponse
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		e.Message = eb.Message
		if e.Message == "" {
			e.Message = eb.Error
		}
		if e.Kind == ErrClient {
			e.Fields = eb.Errors
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// Message renders err for the user. Server-provided messages win; field
// errors are appended as "field: message".
func Message(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	if errors.Is(apiErr.Kind, ErrUnreachable) {
		return "Unable to reach the server. Check your connection and try again."
	}

	msg := apiErr.Message
	if msg == "" {
		msg = apiErr.Kind.Error()
	}
	if len(apiErr.Fields) == 0 {
		return msg
	}

	parts := make([]string, 0, len(apiErr.Fields))
	for _, f := range apiErr.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}

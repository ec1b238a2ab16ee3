// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing responses, and
// maps pipeline errors to status codes.

package http

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"mime"
	"net/http"

	"findash/internal/core"
)

// ResponseBuilder provides a fluent API for building responses.
type ResponseBuilder struct {
	statusCode int
	body       []byte
	headers    map[string]string
	err        error
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON encodes v as the response body.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	body, err := json.Marshal(v)
	if err != nil {
		b.err = err
		return b
	}
	b.headers["Content-Type"] = "application/json; charset=utf-8"
	b.body = body
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *ResponseBuilder) BodyHTML(html string) *ResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Attachment sends body as a download named filename.
func (b *ResponseBuilder) Attachment(filename, contentType string, body []byte) *ResponseBuilder {
	b.headers["Content-Type"] = contentType
	b.headers["Content-Disposition"] = mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	b.body = body
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	if b.err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// apiError is the JSON body of every failed API call.
type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error codes returned to clients.
const (
	codeSourceNotFound = "source_not_found"
	codeSchema         = "schema_error"
	codeInvalidQuery   = "invalid_query"
	codeTimeout        = "timeout"
	codeInternal       = "internal_error"
	codeUnavailable    = "unavailable"
)

// classifyError maps a pipeline error to a status code and client code.
// A missing source is an availability problem, a broken header a server one.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		return http.StatusBadRequest, codeInvalidQuery
	case errors.Is(err, core.ErrSourceNotFound):
		return http.StatusServiceUnavailable, codeSourceNotFound
	case errors.Is(err, core.ErrSchema):
		return http.StatusInternalServerError, codeSchema
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, codeTimeout
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// ErrorJSON creates the JSON error response for err.
func ErrorJSON(err error) *ResponseBuilder {
	status, code := classifyError(err)
	return NewResponse().Status(status).JSON(apiError{Error: err.Error(), Code: code})
}

// ErrorHTML creates an HTML error fragment. The message is HTML-escaped.
func ErrorHTML(statusCode int, message string) *ResponseBuilder {
	return NewResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError(allowedMethods string) *ResponseBuilder {
	return NewResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"findash/internal/core"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"source not found", fmt.Errorf("load: %w", &core.SourceNotFoundError{Source: "x.xlsx"}), http.StatusServiceUnavailable, codeSourceNotFound},
		{"schema", &core.SchemaError{Sheet: "Dados", Missing: []string{"Conta Contábil"}}, http.StatusInternalServerError, codeSchema},
		{"invalid query", fmt.Errorf("%w: month 13", ErrInvalidQuery), http.StatusBadRequest, codeInvalidQuery},
		{"timeout", fmt.Errorf("read: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, codeTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError, codeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classifyError(tt.err)
			if status != tt.status || code != tt.code {
				t.Errorf("classifyError() = (%d, %s), want (%d, %s)", status, code, tt.status, tt.code)
			}
		})
	}
}

func TestErrorJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorJSON(&core.SourceNotFoundError{Source: "missing.xlsx"}).Write(rr)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body apiError
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != codeSourceNotFound {
		t.Errorf("code = %q", body.Code)
	}
}

func TestResponseBuilder_Attachment(t *testing.T) {
	rr := httptest.NewRecorder()
	NewResponse().Attachment("dados filtrados.csv", "text/csv", []byte("a,b\n")).Write(rr)

	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="dados filtrados.csv"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if rr.Body.String() != "a,b\n" {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestErrorHTML_Escapes(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorHTML(http.StatusBadRequest, "<b>bad</b>").Write(rr)
	if rr.Body.String() != `<div class="error">&lt;b&gt;bad&lt;/b&gt;</div>` {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestResponseBuilder_JSONEncodeFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	NewResponse().JSON(make(chan int)).Write(rr)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rr.Code)
	}
}

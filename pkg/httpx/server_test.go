package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteErrorMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorMessage(rec, http.StatusConflict, "no dataset loaded")

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"no dataset loaded"}` {
		t.Errorf("body = %s", got)
	}
}

func TestWriteAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteAttachment(rec, "text/csv", "data.csv", func(w io.Writer) error {
		_, err := io.WriteString(w, "a,b\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteAttachment() error = %v", err)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=data.csv" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if rec.Body.String() != "a,b\n" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHealthHandlerWithCheck(t *testing.T) {
	tests := []struct {
		name   string
		check  func(context.Context) error
		status int
	}{
		{name: "healthy", check: func(context.Context) error { return nil }, status: http.StatusOK},
		{name: "unhealthy", check: func(context.Context) error { return errors.New("redis down") }, status: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthHandlerWithCheck(tt.check)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"outer", "inner", "handler"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), LoggingMiddleware(discardLogger()), RecoveryMiddleware(discardLogger()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestServer_StartTLSWithoutConfig(t *testing.T) {
	s := NewServer("127.0.0.1:0", http.NewServeMux(), discardLogger())
	if err := s.StartTLS(); err == nil {
		t.Error("StartTLS() without config should fail")
	}
}

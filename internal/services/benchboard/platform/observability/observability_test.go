package observability

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLoggerLogsMethodAndPath(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	logger := log.New(&buffer, "", 0)
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/fragments/leaderboard", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	logLine := buffer.String()
	for _, marker := range []string{"method=GET", "path=/fragments/leaderboard", "status=204", "request_id=req-123"} {
		if !strings.Contains(logLine, marker) {
			t.Fatalf("log line missing marker %q: %q", marker, logLine)
		}
	}
}

func TestRequestLoggerCapturesImplicitStatusOKAndBytes(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	logger := log.New(&buffer, "", 0)
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/up", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	logLine := buffer.String()
	for _, marker := range []string{"method=GET", "path=/up", "status=200", "bytes=2", "latency=", "request_id=-"} {
		if !strings.Contains(logLine, marker) {
			t.Fatalf("log line missing marker %q: %q", marker, logLine)
		}
	}
}

func TestRequestLoggerKeepsFirstStatus(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	h := RequestLogger(log.New(&buffer, "", 0))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.WriteHeader(http.StatusOK)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	if !strings.Contains(buffer.String(), "status=404") {
		t.Fatalf("unexpected log line %q", buffer.String())
	}
}

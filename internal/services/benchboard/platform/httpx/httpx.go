// Package httpx provides the HTTP middleware and response helpers used by benchboard.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/a-h/templ"
	apperrors "github.com/louisbranch/benchboard/internal/services/benchboard/platform/errors"
)

const (
	htmxHeader      = "HX-Request"
	requestIDHeader = "X-Request-ID"
)

// Middleware wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

var requestIDCounter atomic.Uint64

// Chain applies middleware in declaration order.
func Chain(handler http.Handler, middleware ...Middleware) http.Handler {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	wrapped := handler
	for idx := len(middleware) - 1; idx >= 0; idx-- {
		if middleware[idx] == nil {
			continue
		}
		wrapped = middleware[idx](wrapped)
	}
	return wrapped
}

// AllowMethods rejects requests whose method is not listed, answering 405
// with an Allow header. GET implies HEAD.
func AllowMethods(methods ...string) Middleware {
	allowed := make(map[string]bool, len(methods)+1)
	for _, method := range methods {
		allowed[method] = true
		if method == http.MethodGet {
			allowed[http.MethodHead] = true
		}
	}
	allow := strings.Join(methods, ", ")
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed[r.Method] {
				w.Header().Set("Allow", allow)
				WriteError(w, apperrors.E(apperrors.KindMethodNotAllowed, "method not allowed"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID injects and echoes a request id for correlation.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if requestID == "" {
				requestID = fmt.Sprintf("bb-%d-%d", time.Now().UnixNano(), requestIDCounter.Add(1))
				r.Header.Set(requestIDHeader, requestID)
			}
			w.Header().Set(requestIDHeader, requestID)
			next.ServeHTTP(w, r)
		})
	}
}

// RecoverPanic converts panics into HTTP 500 responses.
func RecoverPanic() Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				method, path, requestID := "-", "-", "-"
				if r != nil {
					method = r.Method
					path = r.URL.Path
					if rid := strings.TrimSpace(r.Header.Get(requestIDHeader)); rid != "" {
						requestID = rid
					}
				}
				log.Printf(
					"panic recovered method=%s path=%s request_id=%s panic=%v stack=%s",
					method, path, requestID, recovered, strings.TrimSpace(string(debug.Stack())),
				)
				w.WriteHeader(http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NoStore marks responses as uncacheable.
func NoStore() Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}

// IsHTMXRequest reports whether the request asked for a partial swap.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get(htmxHeader)), "true")
}

// RequestContext returns r.Context() with a nil-safe fallback to context.Background().
func RequestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}

// WriteJSON writes a JSON response with the provided status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return fmt.Errorf("response writer is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		WriteError(w, apperrors.Wrap(apperrors.KindRender, "encode json", err))
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(append(body, '\n'))
	return err
}

// WriteComponent renders c into a buffer and writes it as HTML. A render
// failure is answered with 500 and nothing partial reaches the client.
func WriteComponent(w http.ResponseWriter, r *http.Request, status int, c templ.Component) error {
	if w == nil {
		return fmt.Errorf("response writer is required")
	}
	var buf bytes.Buffer
	if err := c.Render(RequestContext(r), &buf); err != nil {
		err = apperrors.Wrap(apperrors.KindRender, "render component", err)
		WriteError(w, err)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r != nil && r.Method == http.MethodHead {
		return nil
	}
	_, err := buf.WriteTo(w)
	return err
}

// WriteError writes a plain-text error response using typed status mapping.
func WriteError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Error(w, apperrors.PublicMessage(err), apperrors.HTTPStatus(err))
}

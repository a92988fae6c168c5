// Package benchboard hosts the leaderboard HTTP service.
package benchboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/benchboard/internal/leaderboard/snapshot"
	"github.com/louisbranch/benchboard/internal/platform/i18n"
	"github.com/louisbranch/benchboard/internal/platform/timeouts"
	"github.com/louisbranch/benchboard/internal/services/benchboard/platform/httpx"
	"github.com/louisbranch/benchboard/internal/services/benchboard/platform/observability"
	"github.com/louisbranch/benchboard/internal/services/benchboard/routepath"
	bbstatic "github.com/louisbranch/benchboard/internal/services/benchboard/static"
	"github.com/louisbranch/benchboard/internal/services/benchboard/templates"
)

// SnapshotSource supplies the bundle currently on display.
type SnapshotSource interface {
	Current() snapshot.Snapshot
}

// Config defines startup inputs for the benchboard service.
type Config struct {
	HTTPAddr         string
	Snapshots        SnapshotSource
	Chrome           templates.Chrome
	SanitizeRichText bool
	// Languages defaults to the embedded catalogs.
	Languages *i18n.Languages
	// Logger receives access and render logs; nil uses the standard logger.
	Logger *log.Logger
}

// Server hosts the benchboard HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds the root handler with the default middleware stack.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Snapshots == nil {
		return nil, errors.New("snapshot source is required")
	}
	if cfg.Languages == nil {
		langs, err := i18n.Load()
		if err != nil {
			return nil, fmt.Errorf("load languages: %w", err)
		}
		cfg.Languages = langs
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	h := &handlers{
		snapshots: cfg.Snapshots,
		chrome:    cfg.Chrome,
		blocks:    templates.NewBlockOptions(cfg.SanitizeRichText),
		langs:     cfg.Languages,
		logger:    logger,
	}

	mux := http.NewServeMux()
	get := httpx.AllowMethods(http.MethodGet)
	mux.Handle(routepath.Root, get(http.HandlerFunc(h.page)))
	mux.Handle(routepath.FragmentLeaderboard, get(http.HandlerFunc(h.fragment)))
	mux.Handle(routepath.Data, httpx.Chain(http.HandlerFunc(h.data), get, httpx.NoStore()))
	mux.Handle(routepath.Health, get(http.HandlerFunc(h.health)))
	mux.Handle(routepath.StaticPrefix, get(http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(bbstatic.FS)))))
	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		observability.RequestLogger(logger),
	), nil
}

// NewServer validates config and constructs a benchboard server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose benchboard handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.httpAddr
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("benchboard server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown benchboard http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve benchboard http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}

// Package provider loads leaderboard bundles from their sources.
package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/benchboard/internal/leaderboard/bundle"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/benchboard/internal/leaderboard/provider"

// Provider loads one bundle. Failures are reported as *bundle.DataLoadError.
type Provider interface {
	Load(ctx context.Context) (bundle.Bundle, error)
}

// Func adapts a function to Provider.
type Func func(ctx context.Context) (bundle.Bundle, error)

// Load calls f.
func (f Func) Load(ctx context.Context) (bundle.Bundle, error) {
	return f(ctx)
}

// Static serves a fixed bundle.
type Static struct {
	Bundle bundle.Bundle
}

// Load returns the fixed bundle.
func (s Static) Load(ctx context.Context) (bundle.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return bundle.Bundle{}, bundle.LoadError("static", err)
	}
	return s.Bundle, nil
}

// File reads a bundle from a local file, choosing the decoder by extension.
type File struct {
	Path string
}

// FormatForPath maps a file extension to a bundle format.
func FormatForPath(path string) (bundle.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return bundle.FormatJSON, nil
	case ".yaml", ".yml":
		return bundle.FormatYAML, nil
	case ".js":
		return bundle.FormatScript, nil
	default:
		return "", fmt.Errorf("unsupported bundle extension %q", filepath.Ext(path))
	}
}

// Load reads and decodes the file.
func (f File) Load(ctx context.Context) (bundle.Bundle, error) {
	ctx, span := StartLoadSpan(ctx, "file", f.Path)
	defer span.End()

	b, err := f.load(ctx)
	if err != nil {
		err = bundle.LoadError(f.Path, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "bundle load failed")
		return bundle.Bundle{}, err
	}
	span.SetAttributes(
		attribute.Int("bundle.datasets", len(b.Leaderboard)),
		attribute.Int("bundle.sections", len(b.Sections)),
	)
	return b, nil
}

func (f File) load(ctx context.Context) (bundle.Bundle, error) {
	path := strings.TrimSpace(f.Path)
	if path == "" {
		return bundle.Bundle{}, errors.New("bundle path is required")
	}
	format, err := FormatForPath(path)
	if err != nil {
		return bundle.Bundle{}, err
	}
	if err := ctx.Err(); err != nil {
		return bundle.Bundle{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return bundle.Bundle{}, fmt.Errorf("read bundle: %w", err)
	}
	b, err := bundle.Decode(format, data)
	if err != nil {
		return bundle.Bundle{}, err
	}
	if err := ctx.Err(); err != nil {
		return bundle.Bundle{}, err
	}
	return b, nil
}

// StartLoadSpan opens the bundle.load span shared by all providers.
func StartLoadSpan(ctx context.Context, kind string, source string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "bundle.load", trace.WithAttributes(
		attribute.String("bundle.provider", kind),
		attribute.String("bundle.source", source),
	))
}

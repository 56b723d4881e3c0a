// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

package nixexpr

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"go.jetify.com/nixgen/nixfmt"
)

// Renderer turns values into formatted Nix source. The zero value is valid and
// uses [nixfmt.Default].
type Renderer struct {
	// Formatter lays out the encoded source. If nil, it defaults to
	// [nixfmt.Default].
	Formatter nixfmt.Formatter

	// Logger logs sizes of the encoded and formatted source at
	// [slog.LevelDebug]. If nil, it defaults to [slog.Default].
	Logger *slog.Logger
}

// DefaultRenderer is the renderer used by [Render] and [RenderString].
var DefaultRenderer = &Renderer{}

// Render calls [Renderer.Render] on the default renderer.
func Render(ctx context.Context, v Value) ([]byte, error) {
	return DefaultRenderer.Render(ctx, v)
}

// RenderString is like [Render] but returns a string.
func RenderString(ctx context.Context, v Value) (string, error) {
	b, err := DefaultRenderer.Render(ctx, v)
	return string(b), err
}

// Render encodes v and runs the result through the formatter exactly once.
// Formatter failures are returned as a [*FormatError] and are never retried.
func (r *Renderer) Render(ctx context.Context, v Value) ([]byte, error) {
	raw, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	out, err := r.formatter().Format(ctx, raw)
	if err != nil {
		return nil, errors.WithStack(&FormatError{Err: err})
	}
	r.logger().DebugContext(ctx, "rendered nix source", "raw_bytes", len(raw), "formatted_bytes", len(out))
	return out, nil
}

func (r *Renderer) formatter() nixfmt.Formatter {
	if r.Formatter == nil {
		return nixfmt.Default
	}
	return r.Formatter
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

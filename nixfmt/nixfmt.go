// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

// Package nixfmt formats Nix source code.
//
// It doesn't implement any layout rules itself. The [Tool] formatter runs an
// existing formatter such as nixpkgs-fmt, nixfmt or alejandra and returns its
// output.
package nixfmt

import (
	"bytes"
	"context"
)

// Formatter rewrites syntactically valid Nix source into an equivalent,
// canonically laid out form.
type Formatter interface {
	Format(ctx context.Context, src []byte) ([]byte, error)
}

// Default is the formatter used when none is configured. It runs nixpkgs-fmt
// from $PATH.
var Default = &Tool{}

// Format formats src with the [Default] formatter.
func Format(ctx context.Context, src []byte) ([]byte, error) {
	return Default.Format(ctx, src)
}

// Func adapts an ordinary function to a [Formatter].
type Func func(ctx context.Context, src []byte) ([]byte, error)

func (f Func) Format(ctx context.Context, src []byte) ([]byte, error) {
	return f(ctx, src)
}

// Passthrough is a [Formatter] that leaves the layout of its input alone. It
// only makes sure the output ends with exactly one newline, like a formatted
// file would.
var Passthrough Formatter = Func(passthrough)

func passthrough(_ context.Context, src []byte) ([]byte, error) {
	out := bytes.TrimRight(src, "\n")
	return append(bytes.Clone(out), '\n'), nil
}

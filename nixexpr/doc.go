// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

// Package nixexpr builds Nix expressions in memory and writes them out as Nix
// source.
//
// A [Value] is either a [StringLiteral] or an [AttributeSet]. Values are
// immutable: an attribute set keeps its entries sorted by key and every
// modifying method returns a new set.
//
//	pkgs := nixexpr.NewAttributeSet(
//		nixexpr.Entry{Key: "go", Value: nixexpr.String("1.22")},
//		nixexpr.Entry{Key: "nodejs", Value: nixexpr.String("20")},
//	)
//	src, err := nixexpr.Render(ctx, nixexpr.Attrs("name", "demo").With("packages", pkgs))
//
// [Encode] and [Marshal] emit syntactically valid but unformatted source.
// [Render] additionally pipes that source through a [nixfmt.Formatter] so the
// result is laid out the way a human would write it.
//
// String contents are emitted verbatim. Text containing a double quote, a
// backslash or the "${" interpolation sequence produces invalid Nix.
package nixexpr

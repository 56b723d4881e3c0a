// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

package nixexpr

// WriteError is returned when the destination of [Encode] rejects a write.
// Emission stops at the first failed write.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return "nixexpr: write nix source: " + e.Err.Error()
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// FormatError is returned by [Renderer.Render] when the formatter fails. The
// encoder only produces valid source, so a FormatError usually points at a bug
// in the encoder or a misconfigured formatter.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return "nixexpr: format nix source: " + e.Err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

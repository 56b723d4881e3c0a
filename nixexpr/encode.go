// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

package nixexpr

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Encode writes v to w as Nix source. The output is valid Nix but isn't
// laid out for humans; use [Render] for that.
//
// Attribute set entries are written in ascending key order and separated by
// single spaces. An empty set is written as "{}".
func Encode(w io.Writer, v Value) error {
	e := &encoder{w: w}
	e.value(v)
	if e.err != nil {
		return errors.WithStack(&WriteError{Err: e.err})
	}
	return nil
}

// Marshal returns the Nix source for v as written by [Encode].
func Marshal(v Value) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := Encode(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encoder holds the first write error. Once err is set every further write
// is a no-op.
type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) value(v Value) {
	switch v := v.(type) {
	case StringLiteral:
		e.string(v.text)
	case AttributeSet:
		e.attrs(v)
	default:
		panic(fmt.Sprintf("nixexpr: cannot encode value of type %T", v))
	}
}

func (e *encoder) string(s string) {
	e.write(`"`)
	e.write(s)
	e.write(`"`)
}

func (e *encoder) attrs(a AttributeSet) {
	if a.Len() == 0 {
		e.write("{}")
		return
	}
	e.write("{")
	for k, v := range a.All() {
		if e.err != nil {
			return
		}
		e.write(" ")
		e.string(k)
		e.write(" = ")
		e.value(v)
		e.write(";")
	}
	e.write(" }")
}

func (e *encoder) write(s string) {
	if e.err != nil {
		return
	}
	n, err := io.WriteString(e.w, s)
	if err == nil && n < len(s) {
		err = io.ErrShortWrite
	}
	e.err = err
}

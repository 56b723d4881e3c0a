// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

package nixexpr

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{
			name:  "EmptyString",
			value: String(""),
			want:  `""`,
		},
		{
			name:  "String",
			value: String("hello"),
			want:  `"hello"`,
		},
		{
			name:  "EmptySet",
			value: AttributeSet{},
			want:  `{}`,
		},
		{
			name:  "EmptySetFromConstructor",
			value: NewAttributeSet(),
			want:  `{}`,
		},
		{
			name:  "SingleEntry",
			value: Attrs("foo", "bar"),
			want:  `{ "foo" = "bar"; }`,
		},
		{
			name:  "SortedEntries",
			value: Attrs("b", "2", "a", "1"),
			want:  `{ "a" = "1"; "b" = "2"; }`,
		},
		{
			name:  "Nested",
			value: NewAttributeSet(Entry{Key: "a", Value: Attrs("b", "c")}),
			want:  `{ "a" = { "b" = "c"; }; }`,
		},
		{
			name:  "NestedEmpty",
			value: NewAttributeSet(Entry{Key: "a", Value: AttributeSet{}}),
			want:  `{ "a" = {}; }`,
		},
		{
			name:  "KeyNeedsQuoting",
			value: Attrs("with space", "x", "x86_64-linux", "y"),
			want:  `{ "with space" = "x"; "x86_64-linux" = "y"; }`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Marshal(test.value)
			require.NoError(t, err)
			assert.Equal(t, test.want, string(got))
		})
	}
}

func TestMarshalDepthThree(t *testing.T) {
	v := NewAttributeSet(Entry{
		Key: "a",
		Value: NewAttributeSet(Entry{
			Key:   "b",
			Value: Attrs("c", "d"),
		}),
	})
	got, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(got), "{"))
	assert.Equal(t, 3, strings.Count(string(got), "}"))
	assert.Equal(t, `{ "a" = { "b" = { "c" = "d"; }; }; }`, string(got))
}

func TestMarshalDuplicateKeyEmittedOnce(t *testing.T) {
	v := NewAttributeSet(
		Entry{Key: "k", Value: String("first")},
		Entry{Key: "k", Value: String("second")},
	)
	got, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(got), `"k"`))
	assert.Equal(t, `{ "k" = "second"; }`, string(got))
}

func TestMarshalNilValuePanics(t *testing.T) {
	assert.PanicsWithValue(t, "nixexpr: cannot encode value of type <nil>", func() { _, _ = Marshal(nil) })
}

// limitWriter accepts n bytes and then fails every write.
type limitWriter struct {
	n   int
	buf strings.Builder
	err error
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		w.buf.Write(p[:w.n])
		written := w.n
		w.n = 0
		return written, w.err
	}
	w.n -= len(p)
	return w.buf.Write(p)
}

func TestEncodeWriteFailure(t *testing.T) {
	errClosed := errors.New("sink closed")
	v := Attrs("a", "1", "b", "2", "c", "3")
	full, err := Marshal(v)
	require.NoError(t, err)

	for n := 0; n < len(full); n++ {
		w := &limitWriter{n: n, err: errClosed}
		err := Encode(w, v)

		var writeErr *WriteError
		require.ErrorAs(t, err, &writeErr, "limit %d", n)
		assert.ErrorIs(t, err, errClosed)
		assert.Equal(t, string(full[:n]), w.buf.String(), "limit %d", n)
	}
}

// shortWriter reports success but drops the last byte of every write.
type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return len(p) - 1, nil
}

func TestEncodeShortWrite(t *testing.T) {
	err := Encode(shortWriter{}, String("x"))
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

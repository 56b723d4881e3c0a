// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

package nixexpr

import (
	"fmt"
	"iter"

	"github.com/tidwall/btree"
)

// Value is a Nix value that can be written as source. The set of
// implementations is closed: [StringLiteral] and [AttributeSet].
type Value interface {
	nixValue()
}

// StringLiteral is a double-quoted Nix string.
type StringLiteral struct {
	text string
}

// String returns a string literal containing s.
func String(s string) StringLiteral {
	return StringLiteral{text: s}
}

// Text returns the unquoted contents of the literal.
func (s StringLiteral) Text() string { return s.text }

func (StringLiteral) nixValue() {}

// Entry is a single key-value pair of an attribute set.
type Entry struct {
	Key   string
	Value Value
}

// AttributeSet is a Nix attribute set. Keys are unique and always iterate in
// ascending order, no matter the order they were added in. The zero value is
// an empty set.
type AttributeSet struct {
	// tree is never modified after the set is returned to a caller.
	tree *btree.Map[string, Value]
}

// NewAttributeSet returns a set containing entries. When two entries have the
// same key the later one wins. It panics if an entry has a nil Value.
func NewAttributeSet(entries ...Entry) AttributeSet {
	tree := &btree.Map[string, Value]{}
	for _, e := range entries {
		mustValue("NewAttributeSet", e.Key, e.Value)
		tree.Set(e.Key, e.Value)
	}
	return AttributeSet{tree: tree}
}

// AttrsFromMap returns a set with the same entries as m. It panics if m
// holds a nil Value.
func AttrsFromMap(m map[string]Value) AttributeSet {
	tree := &btree.Map[string, Value]{}
	for k, v := range m {
		mustValue("AttrsFromMap", k, v)
		tree.Set(k, v)
	}
	return AttributeSet{tree: tree}
}

// Attrs returns a set of string literals from alternating key and value
// arguments. It panics if given an odd number of arguments.
//
//	Attrs("name", "hello", "version", "2.12")
//	// { "name" = "hello"; "version" = "2.12"; }
func Attrs(kv ...string) AttributeSet {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("nixexpr.Attrs: odd number of arguments (%d)", len(kv)))
	}
	tree := &btree.Map[string, Value]{}
	for i := 0; i < len(kv); i += 2 {
		tree.Set(kv[i], String(kv[i+1]))
	}
	return AttributeSet{tree: tree}
}

// With returns a copy of a with key set to v, replacing any existing value
// for key. It does not modify a. It panics if v is nil.
func (a AttributeSet) With(key string, v Value) AttributeSet {
	mustValue("AttributeSet.With", key, v)

	// Map.Copy writes to the source map, so a lazy copy would race with
	// concurrent readers of a. Copy the entries instead.
	tree := &btree.Map[string, Value]{}
	for k, old := range a.All() {
		tree.Set(k, old)
	}
	tree.Set(key, v)
	return AttributeSet{tree: tree}
}

// Get returns the value for key and whether it exists.
func (a AttributeSet) Get(key string) (Value, bool) {
	if a.tree == nil {
		return nil, false
	}
	return a.tree.Get(key)
}

// Len returns the number of entries in a.
func (a AttributeSet) Len() int {
	if a.tree == nil {
		return 0
	}
	return a.tree.Len()
}

// Keys returns the keys of a in ascending order.
func (a AttributeSet) Keys() []string {
	if a.tree == nil {
		return nil
	}
	return a.tree.Keys()
}

// All iterates over the entries of a in ascending key order.
func (a AttributeSet) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if a.tree == nil {
			return
		}
		a.tree.Scan(yield)
	}
}

func (AttributeSet) nixValue() {}

// mustValue panics if v is nil, so a set never holds a value that can't be
// encoded.
func mustValue(fn, key string, v Value) {
	if v == nil {
		panic(fmt.Sprintf("nixexpr.%s: nil value for key %q", fn, key))
	}
}

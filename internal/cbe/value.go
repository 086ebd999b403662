// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cbe implements the compact self-delimiting binary encoding
// used on the wire between the client and a cluster node: a small,
// CBOR-compatible tagged-union form for unsigned/negative integers,
// floats, byte and text strings, sequences, mappings, booleans, null,
// and tagged values.
package cbe

// Kind discriminates the variant held by a Value.
type Kind uint8

const (
	KindUint Kind = iota
	KindNegInt
	KindFloat
	KindBytes
	KindText
	KindSeq
	KindMap
	KindBool
	KindNull
	KindTagged
)

// MapEntry is one key/value pair of a Map value. Producer-chosen order
// is preserved on encode; two Map values with the same entries in a
// different order are equal for the purposes of this package.
type MapEntry struct {
	Key Value
	Val Value
}

// Value is a CBE value. Exactly one set of fields is meaningful,
// selected by Kind; the zero Value is Uint(0).
type Value struct {
	Kind Kind

	Uint   uint64
	NegInt int64 // holds the (negative) integer value itself, not a magnitude
	Float  float64
	Bytes  []byte
	Text   string
	Seq    []Value
	Map    []MapEntry
	Bool   bool

	Tag   uint64
	Inner *Value
}

func Null() Value                { return Value{Kind: KindNull} }
func Uint(v uint64) Value        { return Value{Kind: KindUint, Uint: v} }
func NegInt(v int64) Value       { return Value{Kind: KindNegInt, NegInt: v} }
func Float(v float64) Value      { return Value{Kind: KindFloat, Float: v} }
func Bytes(v []byte) Value       { return Value{Kind: KindBytes, Bytes: v} }
func Text(v string) Value        { return Value{Kind: KindText, Text: v} }
func Seq(v ...Value) Value       { return Value{Kind: KindSeq, Seq: v} }
func Bool(v bool) Value          { return Value{Kind: KindBool, Bool: v} }
func Map(entries ...MapEntry) Value {
	return Value{Kind: KindMap, Map: entries}
}
func Tagged(tag uint64, inner Value) Value {
	return Value{Kind: KindTagged, Tag: tag, Inner: &inner}
}

// Entry is a convenience constructor for MapEntry.
func Entry(key, val Value) MapEntry {
	return MapEntry{Key: key, Val: val}
}

// MapGet looks up a text key in a Map value.
func MapGet(v Value, key string) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	for _, e := range v.Map {
		if e.Key.Kind == KindText && e.Key.Text == key {
			return e.Val, true
		}
	}
	return Value{}, false
}

// Equal reports deep equality between two Values. Map entry order is
// not significant; every other field is compared structurally.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindUint:
		return a.Uint == b.Uint
	case KindNegInt:
		return a.NegInt == b.NegInt
	case KindFloat:
		return a.Float == b.Float
	case KindBytes:
		return string(a.Bytes) == string(b.Bytes)
	case KindText:
		return a.Text == b.Text
	case KindBool:
		return a.Bool == b.Bool
	case KindNull:
		return true
	case KindSeq:
		if len(a.Seq) != len(b.Seq) {
			return false
		}
		for i := range a.Seq {
			if !Equal(a.Seq[i], b.Seq[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.Map) != len(b.Map) {
			return false
		}
		for _, ea := range a.Map {
			found := false
			for _, eb := range b.Map {
				if Equal(ea.Key, eb.Key) && Equal(ea.Val, eb.Val) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case KindTagged:
		if a.Tag != b.Tag {
			return false
		}
		if (a.Inner == nil) != (b.Inner == nil) {
			return false
		}
		if a.Inner == nil {
			return true
		}
		return Equal(*a.Inner, *b.Inner)
	default:
		return false
	}
}

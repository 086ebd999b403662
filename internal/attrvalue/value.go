// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package attrvalue bridges the user-facing attribute-value model
// ({S: ...}, {N: ...}, {BOOL: ...}, ...) and the CBE value domain. It
// is the one place the core looks inside that otherwise-opaque
// nested data, and it looks only far enough to recognize the
// discriminator key and, for sets, route to the tagged encodings.
package attrvalue

// Kind discriminates the attribute-value variant held by a Value. It
// mirrors cbe.Kind's one-constructor-per-variant shape so the bridge
// is a straightforward pattern match between the two tagged unions.
type Kind uint8

const (
	KindS Kind = iota
	KindN
	KindB
	KindBOOL
	KindNULL
	KindSS
	KindNS
	KindBS
	KindL
	KindM
	// KindDocumentPathOrdinal is receive-only: it is produced by
	// FromCBE when decoding tag 3324 and is never emitted by ToCBE.
	KindDocumentPathOrdinal
)

// Value is a single attribute value. Exactly one group of fields is
// meaningful, selected by Kind.
type Value struct {
	Kind Kind

	S    string
	N    string // numeric, kept as the original decimal text
	B    []byte
	Bool bool

	SS []string
	NS []string
	BS [][]byte

	L []Value
	M map[string]Value

	// Ordinal holds the payload of a decoded document-path-ordinal tag.
	Ordinal uint64
}

const (
	TagStringSet           = 3321
	TagNumberSet           = 3322
	TagBinarySet           = 3323
	TagDocumentPathOrdinal = 3324
)

func S(v string) Value  { return Value{Kind: KindS, S: v} }
func N(v string) Value  { return Value{Kind: KindN, N: v} }
func B(v []byte) Value  { return Value{Kind: KindB, B: v} }
func Bool(v bool) Value { return Value{Kind: KindBOOL, Bool: v} }
func Null() Value       { return Value{Kind: KindNULL} }
func SS(v []string) Value   { return Value{Kind: KindSS, SS: v} }
func NS(v []string) Value   { return Value{Kind: KindNS, NS: v} }
func BS(v [][]byte) Value   { return Value{Kind: KindBS, BS: v} }
func L(v []Value) Value     { return Value{Kind: KindL, L: v} }
func M(v map[string]Value) Value { return Value{Kind: KindM, M: v} }

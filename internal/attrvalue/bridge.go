// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package attrvalue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nhr-fau/dax-client-go/internal/cbe"
)

// ToCBE converts an attribute Value into its CBE wire form. Sets
// become tagged sequences (tags 3321/3322/3323); every other variant
// becomes a single-entry CBE mapping keyed by its discriminator,
// recursing into L/M children.
func ToCBE(v Value) cbe.Value {
	switch v.Kind {
	case KindSS:
		return cbe.Tagged(TagStringSet, textSeq(v.SS))
	case KindNS:
		return cbe.Tagged(TagNumberSet, textSeq(v.NS))
	case KindBS:
		seq := make([]cbe.Value, len(v.BS))
		for i, b := range v.BS {
			seq[i] = cbe.Bytes(b)
		}
		return cbe.Tagged(TagBinarySet, cbe.Value{Kind: cbe.KindSeq, Seq: seq})
	case KindS:
		return discriminated("S", cbe.Text(v.S))
	case KindN:
		return discriminated("N", cbe.Text(v.N))
	case KindB:
		return discriminated("B", cbe.Bytes(v.B))
	case KindBOOL:
		return discriminated("BOOL", cbe.Bool(v.Bool))
	case KindNULL:
		return discriminated("NULL", cbe.Bool(true))
	case KindL:
		seq := make([]cbe.Value, len(v.L))
		for i, e := range v.L {
			seq[i] = ToCBE(e)
		}
		return discriminated("L", cbe.Value{Kind: cbe.KindSeq, Seq: seq})
	case KindM:
		entries := make([]cbe.MapEntry, 0, len(v.M))
		for name, e := range v.M {
			entries = append(entries, cbe.Entry(cbe.Text(name), ToCBE(e)))
		}
		return discriminated("M", cbe.Value{Kind: cbe.KindMap, Map: entries})
	default:
		return cbe.Null()
	}
}

func discriminated(key string, val cbe.Value) cbe.Value {
	return cbe.Map(cbe.Entry(cbe.Text(key), val))
}

func textSeq(ss []string) cbe.Value {
	seq := make([]cbe.Value, len(ss))
	for i, s := range ss {
		seq[i] = cbe.Text(s)
	}
	return cbe.Value{Kind: cbe.KindSeq, Seq: seq}
}

// FromCBE converts a CBE value produced by the wire back into an
// attribute Value. Tags 3321/3322/3323 become SS/NS/BS; tag 3324
// becomes an opaque document-path-ordinal Value; a single-entry
// mapping whose key is a known discriminator is interpreted per the
// attribute-value table; anything else is an error, since the bridge
// is only ever asked to decode values shaped like attribute data.
func FromCBE(v cbe.Value) (Value, error) {
	if v.Kind == cbe.KindTagged {
		return fromTagged(v)
	}
	if v.Kind != cbe.KindMap {
		return Value{}, fmt.Errorf("attrvalue: expected a tagged set or a discriminated map, got %v", v.Kind)
	}
	if len(v.Map) != 1 {
		return Value{}, fmt.Errorf("attrvalue: discriminated map must have exactly one entry, got %d", len(v.Map))
	}
	entry := v.Map[0]
	if entry.Key.Kind != cbe.KindText {
		return Value{}, fmt.Errorf("attrvalue: discriminator key must be text")
	}

	switch entry.Key.Text {
	case "S":
		if entry.Val.Kind != cbe.KindText {
			return Value{}, fmt.Errorf("attrvalue: S value must be text")
		}
		return S(entry.Val.Text), nil
	case "N":
		if entry.Val.Kind != cbe.KindText {
			return Value{}, fmt.Errorf("attrvalue: N value must be text")
		}
		return N(entry.Val.Text), nil
	case "B":
		if entry.Val.Kind != cbe.KindBytes {
			return Value{}, fmt.Errorf("attrvalue: B value must be bytes")
		}
		return B(entry.Val.Bytes), nil
	case "BOOL":
		if entry.Val.Kind != cbe.KindBool {
			return Value{}, fmt.Errorf("attrvalue: BOOL value must be boolean")
		}
		return Bool(entry.Val.Bool), nil
	case "NULL":
		return Null(), nil
	case "L":
		if entry.Val.Kind != cbe.KindSeq {
			return Value{}, fmt.Errorf("attrvalue: L value must be a sequence")
		}
		out := make([]Value, len(entry.Val.Seq))
		for i, e := range entry.Val.Seq {
			conv, err := FromCBE(e)
			if err != nil {
				return Value{}, err
			}
			out[i] = conv
		}
		return L(out), nil
	case "M":
		if entry.Val.Kind != cbe.KindMap {
			return Value{}, fmt.Errorf("attrvalue: M value must be a mapping")
		}
		out := make(map[string]Value, len(entry.Val.Map))
		for _, me := range entry.Val.Map {
			if me.Key.Kind != cbe.KindText {
				return Value{}, fmt.Errorf("attrvalue: M keys must be attribute names")
			}
			conv, err := FromCBE(me.Val)
			if err != nil {
				return Value{}, err
			}
			out[me.Key.Text] = conv
		}
		return M(out), nil
	default:
		return Value{}, fmt.Errorf("attrvalue: unknown discriminator %q", entry.Key.Text)
	}
}

func fromTagged(v cbe.Value) (Value, error) {
	if v.Inner == nil {
		return Value{}, fmt.Errorf("attrvalue: tagged value %d has no payload", v.Tag)
	}
	switch v.Tag {
	case TagStringSet:
		ss, err := textSeqFromCBE(*v.Inner)
		if err != nil {
			return Value{}, err
		}
		return SS(ss), nil
	case TagNumberSet:
		ns, err := textSeqFromCBE(*v.Inner)
		if err != nil {
			return Value{}, err
		}
		return NS(ns), nil
	case TagBinarySet:
		if v.Inner.Kind != cbe.KindSeq {
			return Value{}, fmt.Errorf("attrvalue: binary set payload must be a sequence")
		}
		bs := make([][]byte, len(v.Inner.Seq))
		for i, e := range v.Inner.Seq {
			if e.Kind != cbe.KindBytes {
				return Value{}, fmt.Errorf("attrvalue: binary set element must be bytes")
			}
			bs[i] = e.Bytes
		}
		return BS(bs), nil
	case TagDocumentPathOrdinal:
		if v.Inner.Kind != cbe.KindUint {
			return Value{}, fmt.Errorf("attrvalue: document path ordinal payload must be an unsigned integer")
		}
		return Value{Kind: KindDocumentPathOrdinal, Ordinal: v.Inner.Uint}, nil
	default:
		return Value{}, fmt.Errorf("attrvalue: unrecognized tag %d", v.Tag)
	}
}

func textSeqFromCBE(v cbe.Value) ([]string, error) {
	if v.Kind != cbe.KindSeq {
		return nil, fmt.Errorf("attrvalue: set payload must be a sequence")
	}
	out := make([]string, len(v.Seq))
	for i, e := range v.Seq {
		if e.Kind != cbe.KindText {
			return nil, fmt.Errorf("attrvalue: set element must be text")
		}
		out[i] = e.Text
	}
	return out, nil
}

// Number parses the N scalar's original decimal text into an int64 or
// a float64, matching the wire's "integer when no decimal point, else
// float" rule. The original text is always available via v.N; this is
// a convenience for callers that want a native Go number.
func (v Value) Number() (interface{}, error) {
	if v.Kind != KindN {
		return nil, fmt.Errorf("attrvalue: Number() called on a %v value", v.Kind)
	}
	if !strings.ContainsAny(v.N, ".eE") {
		if i, err := strconv.ParseInt(v.N, 10, 64); err == nil {
			return i, nil
		}
	}
	f, err := strconv.ParseFloat(v.N, 64)
	if err != nil {
		return nil, fmt.Errorf("attrvalue: %q is not numeric: %w", v.N, err)
	}
	return f, nil
}

// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbe

import "math"

const (
	majorUint  = 0
	majorNeg   = 1
	majorBytes = 2
	majorText  = 3
	majorSeq   = 4
	majorMap   = 5
	majorTag   = 6
	majorSimple = 7
)

// Encode produces the self-delimiting byte representation of v.
// Encode is total over the Value domain: every well-formed Value
// encodes to some byte string.
func Encode(v Value) []byte {
	var buf []byte
	return appendValue(buf, v)
}

func appendValue(buf []byte, v Value) []byte {
	switch v.Kind {
	case KindUint:
		return appendHead(buf, majorUint, v.Uint)
	case KindNegInt:
		// Stored as the actual (negative) value; the wire magnitude is -1-v.
		mag := uint64(-1 - v.NegInt)
		return appendHead(buf, majorNeg, mag)
	case KindFloat:
		buf = append(buf, byte(majorSimple<<5)|infoFloat64)
		bits := math.Float64bits(v.Float)
		return appendBE(buf, bits, 8)
	case KindBytes:
		buf = appendHead(buf, majorBytes, uint64(len(v.Bytes)))
		return append(buf, v.Bytes...)
	case KindText:
		buf = appendHead(buf, majorText, uint64(len(v.Text)))
		return append(buf, v.Text...)
	case KindSeq:
		buf = appendHead(buf, majorSeq, uint64(len(v.Seq)))
		for _, e := range v.Seq {
			buf = appendValue(buf, e)
		}
		return buf
	case KindMap:
		buf = appendHead(buf, majorMap, uint64(len(v.Map)))
		for _, e := range v.Map {
			buf = appendValue(buf, e.Key)
			buf = appendValue(buf, e.Val)
		}
		return buf
	case KindBool:
		info := byte(infoFalse)
		if v.Bool {
			info = infoTrue
		}
		return append(buf, byte(majorSimple<<5)|info)
	case KindNull:
		return append(buf, byte(majorSimple<<5)|infoNull)
	case KindTagged:
		buf = appendHead(buf, majorTag, v.Tag)
		if v.Inner != nil {
			buf = appendValue(buf, *v.Inner)
		}
		return buf
	default:
		// Unreachable for values constructed through this package's
		// constructors; treat unknown kinds as null rather than panic.
		return append(buf, byte(majorSimple<<5)|infoNull)
	}
}

// appendHead writes the major-type prefix byte (and, for majors whose
// meaning needs it, the following length/value bytes) choosing the
// shortest of the five forms that can hold n.
func appendHead(buf []byte, major byte, n uint64) []byte {
	form, width := DetermineTagComponents(n)
	if form == formImmediate {
		return append(buf, (major<<5)|byte(n))
	}
	info := byte(infoU8)
	switch form {
	case formU16:
		info = infoU16
	case formU32:
		info = infoU32
	case formU64:
		info = infoU64
	}
	buf = append(buf, (major<<5)|info)
	return appendBE(buf, n, width)
}

func appendBE(buf []byte, n uint64, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		buf = append(buf, byte(n>>(uint(i)*8)))
	}
	return buf
}

// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbe

import (
	"math"
	"unicode/utf8"
)

// Decode reads one top-level CBE value from b and returns it along
// with whatever bytes remain unconsumed. Decode is greedy: framing
// protocols that concatenate several top-level values call Decode
// repeatedly on the returned remainder.
func Decode(b []byte) (Value, []byte, error) {
	return decodeOne(b)
}

func decodeOne(b []byte) (Value, []byte, error) {
	if len(b) == 0 {
		return Value{}, b, errShortBuffer
	}

	head := b[0]
	major := head >> 5
	info := head & 0x1F
	rest := b[1:]

	switch major {
	case majorUint:
		n, rest, err := readLen(info, rest)
		if err != nil {
			return Value{}, b, err
		}
		return Uint(n), rest, nil

	case majorNeg:
		n, rest, err := readLen(info, rest)
		if err != nil {
			return Value{}, b, err
		}
		return NegInt(-1 - int64(n)), rest, nil

	case majorBytes:
		length, rest, err := readLen(info, rest)
		if err != nil {
			return Value{}, b, err
		}
		if uint64(len(rest)) < length {
			return Value{}, b, errShortBuffer
		}
		data := make([]byte, length)
		copy(data, rest[:length])
		return Bytes(data), rest[length:], nil

	case majorText:
		length, rest, err := readLen(info, rest)
		if err != nil {
			return Value{}, b, err
		}
		if uint64(len(rest)) < length {
			return Value{}, b, errShortBuffer
		}
		data := rest[:length]
		if !utf8.Valid(data) {
			return Value{}, b, ErrMalformedEncoding
		}
		return Text(string(data)), rest[length:], nil

	case majorSeq:
		count, rest, err := readLen(info, rest)
		if err != nil {
			return Value{}, b, err
		}
		seq := make([]Value, 0, count)
		for i := uint64(0); i < count; i++ {
			var elem Value
			elem, rest, err = decodeOne(rest)
			if err != nil {
				return Value{}, b, err
			}
			seq = append(seq, elem)
		}
		return Value{Kind: KindSeq, Seq: seq}, rest, nil

	case majorMap:
		count, rest, err := readLen(info, rest)
		if err != nil {
			return Value{}, b, err
		}
		entries := make([]MapEntry, 0, count)
		for i := uint64(0); i < count; i++ {
			var key, val Value
			key, rest, err = decodeOne(rest)
			if err != nil {
				return Value{}, b, err
			}
			val, rest, err = decodeOne(rest)
			if err != nil {
				return Value{}, b, err
			}
			entries = append(entries, MapEntry{Key: key, Val: val})
		}
		return Value{Kind: KindMap, Map: entries}, rest, nil

	case majorTag:
		tag, rest, err := readLen(info, rest)
		if err != nil {
			return Value{}, b, err
		}
		var inner Value
		inner, rest, err = decodeOne(rest)
		if err != nil {
			return Value{}, b, err
		}
		return Tagged(tag, inner), rest, nil

	case majorSimple:
		switch info {
		case infoFalse:
			return Bool(false), rest, nil
		case infoTrue:
			return Bool(true), rest, nil
		case infoNull:
			return Null(), rest, nil
		case infoFloat32:
			if len(rest) < 4 {
				return Value{}, b, errShortBuffer
			}
			bits := beToUint(rest[:4])
			return Float(float64(math.Float32frombits(uint32(bits)))), rest[4:], nil
		case infoFloat64: // shares its numeric value with infoU64; major disambiguates
			if len(rest) < 8 {
				return Value{}, b, errShortBuffer
			}
			bits := beToUint(rest[:8])
			return Float(math.Float64frombits(bits)), rest[8:], nil
		default:
			return Value{}, b, ErrMalformedEncoding
		}

	default:
		// major is 3 bits; all eight values are handled above.
		return Value{}, b, ErrMalformedEncoding
	}
}

func readLen(info byte, b []byte) (uint64, []byte, error) {
	if info < infoU8 {
		return uint64(info), b, nil
	}
	var width int
	switch info {
	case infoU8:
		width = 1
	case infoU16:
		width = 2
	case infoU32:
		width = 4
	case infoU64:
		width = 8
	default:
		return 0, b, ErrMalformedEncoding
	}
	if len(b) < width {
		return 0, b, errShortBuffer
	}
	return beToUint(b[:width]), b[width:], nil
}

func beToUint(b []byte) uint64 {
	var n uint64
	for _, c := range b {
		n = (n << 8) | uint64(c)
	}
	return n
}

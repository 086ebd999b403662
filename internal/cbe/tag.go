// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbe

// lengthForm identifies which of the five encodings (immediate, u8,
// u16, u32, u64) a head byte selects.
type lengthForm byte

const (
	formImmediate lengthForm = iota
	formU8
	formU16
	formU32
	formU64
)

const (
	infoU8  = 24
	infoU16 = 25
	infoU32 = 26
	infoU64 = 27

	infoFalse   = 20
	infoTrue    = 21
	infoNull    = 22
	infoFloat32 = 26
	infoFloat64 = 27
)

// DetermineTagComponents picks the shortest of the five length forms
// that can represent n, mirroring the selection Encode makes for
// unsigned integers, negative-integer magnitudes, tag numbers and
// container lengths. It is exported so the codec's tag-selection
// property is directly testable.
func DetermineTagComponents(n uint64) (form lengthForm, width int) {
	switch {
	case n < 24:
		return formImmediate, 0
	case n <= 0xFF:
		return formU8, 1
	case n <= 0xFFFF:
		return formU16, 2
	case n <= 0xFFFFFFFF:
		return formU32, 4
	default:
		return formU64, 8
	}
}

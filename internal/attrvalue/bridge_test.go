// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package attrvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhr-fau/dax-client-go/internal/cbe"
)

func TestRoundTripScalars(t *testing.T) {
	values := []Value{
		S("hello"),
		N("42"),
		N("3.14"),
		B([]byte{1, 2, 3}),
		Bool(true),
		Bool(false),
		Null(),
	}
	for _, v := range values {
		back, err := FromCBE(ToCBE(v))
		require.NoError(t, err)
		assert.Equal(t, v, back)
	}
}

func TestRoundTripSets(t *testing.T) {
	ss := SS([]string{"a", "b"})
	back, err := FromCBE(ToCBE(ss))
	require.NoError(t, err)
	assert.Equal(t, ss, back)

	empty := SS(nil)
	encoded := ToCBE(empty)
	assert.Equal(t, cbe.KindTagged, encoded.Kind)
	assert.Equal(t, uint64(TagStringSet), encoded.Tag)
	assert.Equal(t, cbe.KindSeq, encoded.Inner.Kind)
	assert.Empty(t, encoded.Inner.Seq)
}

func TestSetEncodingUsesDedicatedTags(t *testing.T) {
	cases := []struct {
		v   Value
		tag uint64
	}{
		{SS([]string{"a"}), TagStringSet},
		{NS([]string{"1"}), TagNumberSet},
		{BS([][]byte{{0x1}}), TagBinarySet},
	}
	for _, c := range cases {
		enc := ToCBE(c.v)
		require.Equal(t, cbe.KindTagged, enc.Kind)
		assert.Equal(t, c.tag, enc.Tag)
	}
}

func TestRoundTripNestedListAndMap(t *testing.T) {
	v := M(map[string]Value{
		"name": S("widget"),
		"tags": L([]Value{S("a"), S("b")}),
		"nested": M(map[string]Value{
			"count": N("7"),
		}),
	})
	back, err := FromCBE(ToCBE(v))
	require.NoError(t, err)
	assert.Equal(t, v, back)
}

func TestDocumentPathOrdinalIsReceiveOnly(t *testing.T) {
	encoded := cbe.Tagged(TagDocumentPathOrdinal, cbe.Uint(5))
	v, err := FromCBE(encoded)
	require.NoError(t, err)
	assert.Equal(t, KindDocumentPathOrdinal, v.Kind)
	assert.Equal(t, uint64(5), v.Ordinal)
}

func TestNumberInterpretsIntVsFloat(t *testing.T) {
	n, err := N("42").Number()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	f, err := N("3.14").Number()
	require.NoError(t, err)
	assert.Equal(t, 3.14, f)
}

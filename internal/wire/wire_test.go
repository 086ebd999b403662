// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhr-fau/dax-client-go/internal/attrvalue"
	"github.com/nhr-fau/dax-client-go/internal/cbe"
	"github.com/nhr-fau/dax-client-go/internal/daxerr"
	"github.com/nhr-fau/dax-client-go/internal/schema"
)

func TestSerializeGetItemWireShape(t *testing.T) {
	params := map[string]interface{}{
		"TableName": "T",
		"Key": map[string]attrvalue.Value{
			"id": attrvalue.S("x"),
		},
	}
	buf, err := Serialize("GetItem", params)
	require.NoError(t, err)

	require.True(t, len(buf) > 6)
	assert.Equal(t, byte(0x01), buf[0])
	assert.Equal(t, []byte{0x1A, 0x0F, 0xB0, 0xCC, 0x6A}, buf[1:6])

	mapValue, rest, err := cbe.Decode(buf[6:])
	require.NoError(t, err)
	assert.Empty(t, rest)
	require.Equal(t, cbe.KindMap, mapValue.Kind)
	require.Len(t, mapValue.Map, 2)

	keys := map[string]bool{}
	for _, e := range mapValue.Map {
		keys[e.Key.Text] = true
	}
	assert.True(t, keys["TableName"])
	assert.True(t, keys["Key"])
}

func TestSerializeUnsupportedOperation(t *testing.T) {
	_, err := Serialize("FrobnicateItem", map[string]interface{}{})
	var unsupported *daxerr.UnsupportedOperation
	assert.ErrorAs(t, err, &unsupported)
}

func TestDeserializeServerError(t *testing.T) {
	descriptor := cbe.Encode(cbe.Seq(cbe.Uint(1), cbe.Text("throttle")))
	body := cbe.Encode(cbe.Uint(999)) // must never be reached
	reply := append(append([]byte{}, descriptor...), body...)

	_, err := Deserialize(reply)
	var serverErr *daxerr.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, int64(1), serverErr.Status)
	assert.Equal(t, "throttle", serverErr.Message)
}

func TestDeserializeSuccessReturnsBody(t *testing.T) {
	descriptor := cbe.Encode(cbe.Seq())
	body := cbe.Encode(cbe.Text("ok"))
	reply := append(append([]byte{}, descriptor...), body...)

	v, err := Deserialize(reply)
	require.NoError(t, err)
	assert.Equal(t, cbe.KindText, v.Kind)
	assert.Equal(t, "ok", v.Text)
}

type fakeLookup struct {
	schemas map[string]schema.KeySchema
}

func (f fakeLookup) Get(table string) (schema.KeySchema, bool) {
	s, ok := f.schemas[table]
	return s, ok
}

func TestPrepareRequestMissingKey(t *testing.T) {
	lookup := fakeLookup{schemas: map[string]schema.KeySchema{
		"T": {Hash: schema.KeyElement{AttributeName: "id"}, Range: &schema.KeyElement{AttributeName: "sort"}},
	}}
	params := map[string]interface{}{
		"TableName": "T",
		"Key": map[string]attrvalue.Value{
			"id": attrvalue.S("x"),
		},
	}
	err := PrepareRequest("GetItem", params, lookup)
	var missing *daxerr.MissingKey
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "sort", missing.AttributeName)
}

func TestPrepareRequestExtraKey(t *testing.T) {
	lookup := fakeLookup{schemas: map[string]schema.KeySchema{
		"T": {Hash: schema.KeyElement{AttributeName: "id"}, Range: &schema.KeyElement{AttributeName: "sort"}},
	}}
	params := map[string]interface{}{
		"TableName": "T",
		"Key": map[string]attrvalue.Value{
			"id":    attrvalue.S("x"),
			"sort":  attrvalue.S("y"),
			"extra": attrvalue.S("z"),
		},
	}
	err := PrepareRequest("GetItem", params, lookup)
	var extra *daxerr.ExtraKey
	require.ErrorAs(t, err, &extra)
	assert.Equal(t, "extra", extra.AttributeName)
}

func TestPrepareRequestPutItemUnvalidatedWhenKeyPartial(t *testing.T) {
	lookup := fakeLookup{schemas: map[string]schema.KeySchema{
		"T": {Hash: schema.KeyElement{AttributeName: "id"}, Range: &schema.KeyElement{AttributeName: "sort"}},
	}}
	params := map[string]interface{}{
		"TableName": "T",
		"Item": map[string]attrvalue.Value{
			"id": attrvalue.S("x"),
			// "sort" missing: proceeds unvalidated, no error.
		},
	}
	err := PrepareRequest("PutItem", params, lookup)
	assert.NoError(t, err)
}

func TestPrepareRequestRequiresTableName(t *testing.T) {
	err := PrepareRequest("GetItem", map[string]interface{}{}, fakeLookup{})
	var missing *daxerr.MissingRequiredField
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "TableName", missing.Field)
}

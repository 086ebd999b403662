// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"

	"github.com/nhr-fau/dax-client-go/internal/attrvalue"
	"github.com/nhr-fau/dax-client-go/internal/cbe"
)

// Serialize builds the wire bytes for one request:
//
//	U(service_id=1) || U(method_id) || V(params)
func Serialize(op string, params map[string]interface{}) ([]byte, error) {
	methodID, err := MethodIDFor(op)
	if err != nil {
		return nil, err
	}

	paramsValue, err := ToValue(params)
	if err != nil {
		return nil, fmt.Errorf("dax: encoding %s parameters: %w", op, err)
	}

	buf := cbe.Encode(cbe.Uint(ServiceID))
	buf = append(buf, cbe.Encode(cbe.Uint(methodID))...)
	buf = append(buf, cbe.Encode(paramsValue)...)
	return buf, nil
}

// ToValue recursively converts a parameter tree built from plain Go
// values and attrvalue.Values into its CBE form. It is the bridge
// between the public facade's request maps and the codec.
func ToValue(x interface{}) (cbe.Value, error) {
	switch t := x.(type) {
	case nil:
		return cbe.Null(), nil
	case cbe.Value:
		return t, nil
	case attrvalue.Value:
		return attrvalue.ToCBE(t), nil
	case bool:
		return cbe.Bool(t), nil
	case string:
		return cbe.Text(t), nil
	case []byte:
		return cbe.Bytes(t), nil
	case int:
		return intToValue(int64(t)), nil
	case int64:
		return intToValue(t), nil
	case uint64:
		return cbe.Uint(t), nil
	case float64:
		return cbe.Float(t), nil
	case []interface{}:
		seq := make([]cbe.Value, len(t))
		for i, e := range t {
			v, err := ToValue(e)
			if err != nil {
				return cbe.Value{}, err
			}
			seq[i] = v
		}
		return cbe.Value{Kind: cbe.KindSeq, Seq: seq}, nil
	case map[string]interface{}:
		return mapToValue(t)
	case map[string]attrvalue.Value:
		m := make(map[string]interface{}, len(t))
		for k, v := range t {
			m[k] = v
		}
		return mapToValue(m)
	default:
		return cbe.Value{}, fmt.Errorf("dax: unsupported parameter type %T", x)
	}
}

func mapToValue(m map[string]interface{}) (cbe.Value, error) {
	entries := make([]cbe.MapEntry, 0, len(m))
	for k, v := range m {
		val, err := ToValue(v)
		if err != nil {
			return cbe.Value{}, err
		}
		entries = append(entries, cbe.Entry(cbe.Text(k), val))
	}
	return cbe.Value{Kind: cbe.KindMap, Map: entries}, nil
}

func intToValue(n int64) cbe.Value {
	if n < 0 {
		return cbe.NegInt(n)
	}
	return cbe.Uint(uint64(n))
}

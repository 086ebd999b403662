// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/nhr-fau/dax-client-go/internal/attrvalue"
	"github.com/nhr-fau/dax-client-go/internal/daxerr"
	"github.com/nhr-fau/dax-client-go/internal/schema"
)

// KeySchemaLookup is the read side of the key-schema cache, as seen
// by request preparation. It is satisfied by *cache.KeySchemaCache.
type KeySchemaLookup interface {
	Get(table string) (schema.KeySchema, bool)
}

// PrepareRequest runs the per-operation-family validation of §4.3
// before any bytes go on the wire: it requires the fields each
// operation family needs and, where a key schema is already cached,
// validates that key maps exactly match it. Params carries attribute
// key/item maps as map[string]attrvalue.Value; everything else is
// passed through to the codec unexamined.
func PrepareRequest(op string, params map[string]interface{}, lookup KeySchemaLookup) error {
	switch op {
	case "GetItem", "DeleteItem", "UpdateItem":
		table, err := requireTableName(params)
		if err != nil {
			return err
		}
		if key, ok := asAttributeMap(params["Key"]); ok {
			if ks, found := lookup.Get(table); found {
				if err := validateKeySet(key, ks); err != nil {
					return err
				}
			}
		}

	case "PutItem":
		table, err := requireTableName(params)
		if err != nil {
			return err
		}
		if item, ok := asAttributeMap(params["Item"]); ok {
			if ks, found := lookup.Get(table); found {
				if proj, bothPresent := keyProjection(item, ks); bothPresent {
					if err := validateKeySet(proj, ks); err != nil {
						return err
					}
				}
			}
		}

	case "BatchGetItem":
		requestItems, ok := params["RequestItems"].(map[string]interface{})
		if !ok {
			return &daxerr.MissingRequiredField{Field: "RequestItems"}
		}
		for table, raw := range requestItems {
			entry, _ := raw.(map[string]interface{})
			if entry == nil {
				continue
			}
			keysRaw, _ := entry["Keys"].([]interface{})
			ks, found := lookup.Get(table)
			for _, kr := range keysRaw {
				key, ok := asAttributeMap(kr)
				if !ok || !found {
					continue
				}
				if err := validateKeySet(key, ks); err != nil {
					return err
				}
			}
		}

	case "BatchWriteItem":
		requestItems, ok := params["RequestItems"].(map[string]interface{})
		if !ok {
			return &daxerr.MissingRequiredField{Field: "RequestItems"}
		}
		for table, raw := range requestItems {
			writeRequests, _ := raw.([]interface{})
			ks, found := lookup.Get(table)
			for _, wr := range writeRequests {
				wreq, _ := wr.(map[string]interface{})
				if wreq == nil {
					continue
				}
				if put, ok := wreq["PutRequest"].(map[string]interface{}); ok {
					if item, ok := asAttributeMap(put["Item"]); ok && found {
						if proj, bothPresent := keyProjection(item, ks); bothPresent {
							if err := validateKeySet(proj, ks); err != nil {
								return err
							}
						}
					}
				} else if del, ok := wreq["DeleteRequest"].(map[string]interface{}); ok {
					if key, ok := asAttributeMap(del["Key"]); ok && found {
						if err := validateKeySet(key, ks); err != nil {
							return err
						}
					}
				}
			}
		}

	case "Query", "Scan":
		if _, err := requireTableName(params); err != nil {
			return err
		}
		// ExclusiveStartKey is bridged to CBE at encode time like any
		// other attribute map; it carries no key-schema validation.

	case "DescribeTable":
		// Passed through unchanged.

	default:
		return &daxerr.UnsupportedOperation{Operation: op}
	}

	return nil
}

func requireTableName(params map[string]interface{}) (string, error) {
	name, ok := params["TableName"].(string)
	if !ok || name == "" {
		return "", &daxerr.MissingRequiredField{Field: "TableName"}
	}
	return name, nil
}

func asAttributeMap(x interface{}) (map[string]attrvalue.Value, bool) {
	m, ok := x.(map[string]attrvalue.Value)
	return m, ok
}

// keyProjection extracts the hash/range key attributes from an item,
// returning bothPresent=true only if every key attribute the schema
// names is present in item (PutItem proceeds unvalidated otherwise).
func keyProjection(item map[string]attrvalue.Value, ks schema.KeySchema) (map[string]attrvalue.Value, bool) {
	proj := make(map[string]attrvalue.Value, 2)
	for _, name := range ks.Names() {
		v, ok := item[name]
		if !ok {
			return nil, false
		}
		proj[name] = v
	}
	return proj, true
}

// validateKeySet checks that key's attribute names are exactly the
// schema's hash/range names: no fewer (MissingKey) and no more (ExtraKey).
func validateKeySet(key map[string]attrvalue.Value, ks schema.KeySchema) error {
	required := ks.Names()
	requiredSet := make(map[string]bool, len(required))
	for _, name := range required {
		requiredSet[name] = true
		if _, ok := key[name]; !ok {
			return &daxerr.MissingKey{AttributeName: name}
		}
	}
	for name := range key {
		if !requiredSet[name] {
			return &daxerr.ExtraKey{AttributeName: name}
		}
	}
	return nil
}

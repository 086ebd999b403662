// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package schema holds the shared key-schema shape used by the
// request-framing layer (to validate a request's key map) and the
// metadata cache (to store and expire it).
package schema

// KeyElement is one element of a table's key schema.
type KeyElement struct {
	AttributeName string
	AttributeType string
}

// KeySchema is a table's key schema: one mandatory hash key and an
// optional range key.
type KeySchema struct {
	Hash  KeyElement
	Range *KeyElement
}

// Names returns the set of attribute names this schema's key is made
// of: one name if there is no range key, two if there is.
func (s KeySchema) Names() []string {
	if s.Range == nil {
		return []string{s.Hash.AttributeName}
	}
	return []string{s.Hash.AttributeName, s.Range.AttributeName}
}

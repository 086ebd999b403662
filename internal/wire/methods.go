// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wire implements request/response framing: prepending the
// service and method id ahead of operation parameters, and splitting
// a reply into its error descriptor and method-specific body. The
// method ids below are wire-compatibility constants and must never
// change.
package wire

import "github.com/nhr-fau/dax-client-go/internal/daxerr"

// ServiceID is the first field of every request and of the
// authorize-connection frame.
const ServiceID = 1

// Method ids, exact per the wire protocol.
const (
	MethodGetItem                = 263244906
	MethodPutItem                = 20969
	MethodDeleteItem             = 7
	MethodUpdateItem             = 10
	MethodBatchGetItem           = 697851100
	MethodBatchWriteItem         = 116217951
	MethodQuery                  = 2
	MethodScan                   = 3
	MethodDescribeTable          = 4
	MethodDefineKeySchema        = 681
	MethodDefineAttributeList    = 656
	MethodDefineAttributeListId  = 657
	MethodAuthorizeConnection    = 1489122155
)

// methodIDs maps an operation name to its method id. Operation names
// are the same strings the public facade exposes (GetItem, PutItem, ...).
var methodIDs = map[string]uint64{
	"GetItem":                 MethodGetItem,
	"PutItem":                 MethodPutItem,
	"DeleteItem":              MethodDeleteItem,
	"UpdateItem":              MethodUpdateItem,
	"BatchGetItem":            MethodBatchGetItem,
	"BatchWriteItem":          MethodBatchWriteItem,
	"Query":                   MethodQuery,
	"Scan":                    MethodScan,
	"DescribeTable":           MethodDescribeTable,
	"DefineKeySchema":         MethodDefineKeySchema,
	"DefineAttributeList":     MethodDefineAttributeList,
	"DefineAttributeListId":   MethodDefineAttributeListId,
	"authorizeConnection":     MethodAuthorizeConnection,
}

// MethodIDFor returns the method id for an operation name, or
// *daxerr.UnsupportedOperation if op is not one of the fixed set above.
func MethodIDFor(op string) (uint64, error) {
	id, ok := methodIDs[op]
	if !ok {
		return 0, &daxerr.UnsupportedOperation{Operation: op}
	}
	return id, nil
}

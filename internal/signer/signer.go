// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package signer defines the abstract collaborator the connection
// layer authenticates through (§6 of the wire protocol) and ships one
// concrete adapter, SigV4Signer, built on the AWS SDK's credential
// provider and v4 request signer.
package signer

import "context"

// Credentials is what Sign returns: the material needed to build the
// seven-value authorize-connection frame.
type Credentials struct {
	AccessKey    string
	Signature    string // hex-encoded
	StringToSign []byte
	Token        string // empty if the credentials carry no session token
}

// Signer is the core's only dependency on request signing. The core
// never constructs signature material itself; it calls Sign and
// drops the result into the auth frame template.
type Signer interface {
	Sign(ctx context.Context) (Credentials, error)
}

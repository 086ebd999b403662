// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package conn implements one connection's lifecycle to one cluster
// node: the opening handshake, the authorize-connection frame,
// request/reply exchange over a self-delimited CBE stream, and
// health tracking consumed by the pool.
package conn

import "fmt"

// Scheme is a connection's transport: plain TCP or TLS.
type Scheme string

const (
	SchemePlain Scheme = "plain"
	SchemeTLS   Scheme = "tls"
)

// Endpoint identifies one cluster node to connect to.
type Endpoint struct {
	Scheme Scheme
	Host   string
	Port   int
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// Address is the dial target for net.Dial/tls.Dial.
func (e Endpoint) Address() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

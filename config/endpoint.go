// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"net/url"
	"strconv"

	"github.com/nhr-fau/dax-client-go/internal/conn"
	"github.com/nhr-fau/dax-client-go/internal/daxerr"
)

const (
	defaultPlainPort = 8111
	defaultTLSPort   = 9111
)

// ParseEndpointURL parses one endpoint_url entry: "dax://host[:port]"
// for a plain connection (default port 8111) or "daxs://host[:port]"
// for TLS (default port 9111). Any other scheme is rejected.
func ParseEndpointURL(raw string) (conn.Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return conn.Endpoint{}, &daxerr.InvalidConfig{Reason: "invalid endpoint url " + raw + ": " + err.Error()}
	}

	var scheme conn.Scheme
	var defaultPort int
	switch u.Scheme {
	case "dax":
		scheme = conn.SchemePlain
		defaultPort = defaultPlainPort
	case "daxs":
		scheme = conn.SchemeTLS
		defaultPort = defaultTLSPort
	default:
		return conn.Endpoint{}, &daxerr.InvalidConfig{Reason: "endpoint scheme must be dax:// or daxs://, got " + u.Scheme}
	}

	host := u.Hostname()
	if host == "" {
		return conn.Endpoint{}, &daxerr.InvalidConfig{Reason: "endpoint url " + raw + " has no host"}
	}

	port := defaultPort
	if p := u.Port(); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			return conn.Endpoint{}, &daxerr.InvalidConfig{Reason: "invalid port in endpoint url " + raw}
		}
		port = parsed
	}

	return conn.Endpoint{Scheme: scheme, Host: host, Port: port}, nil
}

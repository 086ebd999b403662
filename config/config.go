// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads and validates the closed set of client
// configuration keys (endpoint, timeouts, pool sizing, cache sizing,
// TLS posture) against a JSON schema, and resolves the parsed endpoint
// URLs into the internal Endpoint values the connection layer dials.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nhr-fau/dax-client-go/internal/conn"
	"github.com/nhr-fau/dax-client-go/internal/daxerr"
)

// ClientConfig is the closed set of keys a caller may set. JSON field
// names match the keys a config file uses.
type ClientConfig struct {
	// Exactly one of EndpointURL (singular) or Endpoints (plural) must
	// be set; Load rejects a document setting both or neither.
	EndpointURL string   `json:"endpoint_url"`
	Endpoints   []string `json:"endpoints"`
	Region      string   `json:"region"`

	ConnectTimeout                    time.Duration `json:"connect_timeout"`
	RequestTimeout                    time.Duration `json:"request_timeout"`
	MaxPendingConnectionsPerHost      int           `json:"max_pending_connections_per_host"`
	MaxConcurrentRequestsPerConn      int           `json:"max_concurrent_requests_per_connection"`
	IdleTimeout                       time.Duration `json:"idle_timeout"`
	SkipHostnameVerification          bool          `json:"skip_hostname_verification"`

	KeyCacheSize int           `json:"key_cache_size"`
	KeyCacheTTL  time.Duration `json:"key_cache_ttl"`
	AttrCacheSize int          `json:"attr_cache_size"`

	DebugLogging bool `json:"debug_logging"`
}

// Defaults mirrors the zero-config experience: sane timeouts and pool
// sizing, debug logging off.
func Defaults() ClientConfig {
	return ClientConfig{
		ConnectTimeout:               1 * time.Second,
		RequestTimeout:               60 * time.Second,
		MaxPendingConnectionsPerHost: 10,
		MaxConcurrentRequestsPerConn: 1000,
		IdleTimeout:                  30 * time.Second,
		KeyCacheSize:                 1000,
		KeyCacheTTL:                  60 * time.Second,
		AttrCacheSize:                1000,
	}
}

// jsonDoc is the wire shape ClientConfig is unmarshaled through:
// durations as Go duration strings ("1s"), matching how a caller would
// hand-write a config file.
type jsonDoc struct {
	EndpointURL                        string   `json:"endpoint_url"`
	Endpoints                          []string `json:"endpoints"`
	Region                             string   `json:"region"`
	ConnectTimeout                     string   `json:"connect_timeout"`
	RequestTimeout                     string   `json:"request_timeout"`
	MaxPendingConnectionsPerHost       int      `json:"max_pending_connections_per_host"`
	MaxConcurrentRequestsPerConnection int      `json:"max_concurrent_requests_per_connection"`
	IdleTimeout                        string   `json:"idle_timeout"`
	SkipHostnameVerification           bool     `json:"skip_hostname_verification"`
	KeyCacheSize                       int      `json:"key_cache_size"`
	KeyCacheTTL                        string   `json:"key_cache_ttl"`
	AttrCacheSize                      int      `json:"attr_cache_size"`
	DebugLogging                       bool     `json:"debug_logging"`
}

// Load reads a JSON config file, validates it against Schema, overlays
// it onto Defaults(), and loads the dotenv file at envPath (if given
// and present) into the process environment via godotenv.
func Load(path string, envPath string) (ClientConfig, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return ClientConfig{}, &daxerr.InvalidConfig{Reason: "loading " + envPath + ": " + err.Error()}
		}
	}

	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return ClientConfig{}, &daxerr.InvalidConfig{Reason: "reading " + path + ": " + err.Error()}
	}

	if err := validate(raw); err != nil {
		return ClientConfig{}, err
	}

	var doc jsonDoc
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return ClientConfig{}, &daxerr.InvalidConfig{Reason: "decoding " + path + ": " + err.Error()}
	}

	if len(doc.Endpoints) > 0 && doc.EndpointURL != "" {
		return ClientConfig{}, &daxerr.InvalidConfig{Reason: "endpoint_url and endpoints are mutually exclusive"}
	}
	if len(doc.Endpoints) > 0 {
		cfg.Endpoints = doc.Endpoints
		cfg.EndpointURL = ""
	}
	if doc.EndpointURL != "" {
		cfg.EndpointURL = doc.EndpointURL
		cfg.Endpoints = nil
	}
	if doc.Region != "" {
		cfg.Region = doc.Region
	}
	if doc.MaxPendingConnectionsPerHost > 0 {
		cfg.MaxPendingConnectionsPerHost = doc.MaxPendingConnectionsPerHost
	}
	if doc.MaxConcurrentRequestsPerConnection > 0 {
		cfg.MaxConcurrentRequestsPerConn = doc.MaxConcurrentRequestsPerConnection
	}
	if doc.KeyCacheSize > 0 {
		cfg.KeyCacheSize = doc.KeyCacheSize
	}
	if doc.AttrCacheSize > 0 {
		cfg.AttrCacheSize = doc.AttrCacheSize
	}
	cfg.SkipHostnameVerification = doc.SkipHostnameVerification
	cfg.DebugLogging = doc.DebugLogging

	for _, assign := range []struct {
		raw  string
		dest *time.Duration
	}{
		{doc.ConnectTimeout, &cfg.ConnectTimeout},
		{doc.RequestTimeout, &cfg.RequestTimeout},
		{doc.IdleTimeout, &cfg.IdleTimeout},
		{doc.KeyCacheTTL, &cfg.KeyCacheTTL},
	} {
		if assign.raw == "" {
			continue
		}
		d, err := time.ParseDuration(assign.raw)
		if err != nil {
			return ClientConfig{}, &daxerr.InvalidConfig{Reason: "invalid duration " + assign.raw + ": " + err.Error()}
		}
		*assign.dest = d
	}

	if len(cfg.Endpoints) == 0 && cfg.EndpointURL == "" {
		return ClientConfig{}, &daxerr.InvalidConfig{Reason: "exactly one of endpoint_url or endpoints is required"}
	}

	return cfg, nil
}

// ResolveEndpoints parses every configured endpoint URL (the singular
// endpoint_url, or the plural endpoints list) into a dialable
// conn.Endpoint.
func (c ClientConfig) ResolveEndpoints() ([]conn.Endpoint, error) {
	var raws []string
	if c.EndpointURL != "" {
		raws = append(raws, c.EndpointURL)
	}
	raws = append(raws, c.Endpoints...)

	out := make([]conn.Endpoint, 0, len(raws))
	for _, raw := range raws {
		ep, err := ParseEndpointURL(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, nil
}

func validate(raw []byte) error {
	sch, err := jsonschema.CompileString("dax-client-config.json", Schema)
	if err != nil {
		return &daxerr.InvalidConfig{Reason: "compiling config schema: " + err.Error()}
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return &daxerr.InvalidConfig{Reason: "parsing config json: " + err.Error()}
	}

	if err := sch.Validate(v); err != nil {
		return &daxerr.InvalidConfig{Reason: "config schema validation: " + err.Error()}
	}
	return nil
}

// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhr-fau/dax-client-go/internal/conn"
)

func TestParseEndpointURLDefaultsPorts(t *testing.T) {
	ep, err := ParseEndpointURL("dax://node-a")
	require.NoError(t, err)
	assert.Equal(t, conn.Endpoint{Scheme: conn.SchemePlain, Host: "node-a", Port: 8111}, ep)

	ep, err = ParseEndpointURL("daxs://node-a")
	require.NoError(t, err)
	assert.Equal(t, conn.Endpoint{Scheme: conn.SchemeTLS, Host: "node-a", Port: 9111}, ep)
}

func TestParseEndpointURLExplicitPort(t *testing.T) {
	ep, err := ParseEndpointURL("dax://node-a:8321")
	require.NoError(t, err)
	assert.Equal(t, 8321, ep.Port)
}

func TestParseEndpointURLRejectsUnknownScheme(t *testing.T) {
	_, err := ParseEndpointURL("http://node-a")
	assert.Error(t, err)
}

func TestLoadAppliesDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Defaults().MaxPendingConnectionsPerHost, cfg.MaxPendingConnectionsPerHost)
}

func TestLoadValidatesAgainstSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoints": ["dax://node-a"], "not_a_real_key": 1}`), 0o644))

	_, err := Load(path, "")
	assert.Error(t, err)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"endpoints": ["dax://node-a", "daxs://node-b"],
		"region": "eu-central-1",
		"connect_timeout": "2s",
		"key_cache_size": 500
	}`), 0o644))

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"dax://node-a", "daxs://node-b"}, cfg.Endpoints)
	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, 500, cfg.KeyCacheSize)
	assert.Equal(t, Defaults().AttrCacheSize, cfg.AttrCacheSize) // untouched key keeps its default

	endpoints, err := cfg.ResolveEndpoints()
	require.NoError(t, err)
	require.Len(t, endpoints, 2)
	assert.Equal(t, conn.SchemeTLS, endpoints[1].Scheme)
}

func TestLoadRejectsConfigWithNoEndpoints(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	_, err := Load(path, "")
	assert.Error(t, err)
}

func TestLoadAcceptsSingularEndpointURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint_url": "dax://node-a"}`), 0o644))

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "dax://node-a", cfg.EndpointURL)
	assert.Empty(t, cfg.Endpoints)

	endpoints, err := cfg.ResolveEndpoints()
	require.NoError(t, err)
	require.Len(t, endpoints, 1)
	assert.Equal(t, "node-a", endpoints[0].Host)
}

func TestLoadRejectsBothEndpointURLAndEndpoints(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"endpoint_url": "dax://node-a",
		"endpoints": ["dax://node-b"]
	}`), 0o644))

	_, err := Load(path, "")
	assert.Error(t, err)
}

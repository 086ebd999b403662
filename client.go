// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package dax is the public entry point: a thin facade over the
// connection pool, wire framing and metadata caches that the rest of
// this module implements. It builds request parameter maps, runs them
// through the core's validation and encoding, and hands back decoded
// values - the operations themselves carry no logic of their own
// beyond naming their method id and required fields.
package dax

import (
	"context"

	"github.com/nhr-fau/dax-client-go/config"
	"github.com/nhr-fau/dax-client-go/internal/attrvalue"
	"github.com/nhr-fau/dax-client-go/internal/cbe"
	"github.com/nhr-fau/dax-client-go/internal/cache"
	"github.com/nhr-fau/dax-client-go/internal/conn"
	"github.com/nhr-fau/dax-client-go/internal/daxerr"
	"github.com/nhr-fau/dax-client-go/internal/pool"
	"github.com/nhr-fau/dax-client-go/internal/schema"
	"github.com/nhr-fau/dax-client-go/internal/signer"
	"github.com/nhr-fau/dax-client-go/internal/wire"
	"github.com/nhr-fau/dax-client-go/pkg/log"
)

// Client is a connection to a DAX-style in-region cache cluster. It is
// safe for concurrent use by multiple goroutines.
type Client struct {
	pool        *pool.Pool
	keySchemas  *cache.KeySchemaCache
	attrNames   *cache.AttributeListCache
}

// New builds a Client over cfg, dialing no connections up front -
// Get/Put/... dial lazily through the pool on first use of each
// endpoint. signer is the caller's request-signing collaborator; see
// the signer package for SigV4 adapters.
func New(cfg config.ClientConfig, signer signer.Signer) (*Client, error) {
	endpoints, err := cfg.ResolveEndpoints()
	if err != nil {
		return nil, err
	}

	log.ApplyDebugLogging(cfg.DebugLogging)

	p, err := pool.New(endpoints, pool.Options{
		ConnOptions: conn.Options{
			ConnectTimeout:           cfg.ConnectTimeout,
			RequestTimeout:           cfg.RequestTimeout,
			SkipHostnameVerification: cfg.SkipHostnameVerification,
			UserAgent:                "dax-client-go",
			Signer:                   signer,
		},
		MaxPerHost:  cfg.MaxPendingConnectionsPerHost,
		IdleTimeout: cfg.IdleTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		pool:       p,
		keySchemas: cache.NewKeySchemaCache(cfg.KeyCacheSize, cfg.KeyCacheTTL),
		attrNames:  cache.NewAttributeListCache(cfg.AttrCacheSize),
	}, nil
}

// Close releases every pooled connection and stops the background
// janitor. The Client must not be used afterwards.
func (c *Client) Close() error {
	return c.pool.Close()
}

// ClientStats snapshots pool and cache state for diagnostics; see
// cmd/daxstats.
type ClientStats struct {
	Pool       map[string]pool.EndpointStats `json:"pool"`
	KeySchemas cache.KeySchemaStats          `json:"key_schemas"`
	AttrNames  cache.AttributeListStats      `json:"attr_names"`
}

// Stats reports the current pool and cache state.
func (c *Client) Stats() ClientStats {
	return ClientStats{
		Pool:       c.pool.Stats(),
		KeySchemas: c.keySchemas.Stats(),
		AttrNames:  c.attrNames.Stats(),
	}
}

// CacheKeySchema lets a caller that already knows a table's key schema
// (for example, from a prior DescribeTable) prime the cache so
// subsequent Get/Put/Delete/Update calls are validated client-side
// before a round trip.
func (c *Client) CacheKeySchema(table string, ks schema.KeySchema) {
	c.keySchemas.Put(table, ks)
}

func (c *Client) do(ctx context.Context, op string, params map[string]interface{}) (cbe.Value, error) {
	if err := wire.PrepareRequest(op, params, c.keySchemas); err != nil {
		return cbe.Value{}, err
	}

	cn, err := c.pool.Get(ctx)
	if err != nil {
		return cbe.Value{}, err
	}

	body, err := cn.Do(ctx, op, params)
	if err != nil {
		var serverErr *daxerr.ServerError
		if !isServerErr(err, &serverErr) {
			cn.MarkBad()
		}
		return cbe.Value{}, err
	}
	return body, nil
}

func isServerErr(err error, target **daxerr.ServerError) bool {
	se, ok := err.(*daxerr.ServerError)
	if ok {
		*target = se
	}
	return ok
}

// GetItem fetches one item by its primary key.
func (c *Client) GetItem(ctx context.Context, tableName string, key map[string]attrvalue.Value) (cbe.Value, error) {
	return c.do(ctx, "GetItem", map[string]interface{}{"TableName": tableName, "Key": key})
}

// PutItem writes a complete item, unconditionally replacing any item
// that already exists at the same key.
func (c *Client) PutItem(ctx context.Context, tableName string, item map[string]attrvalue.Value) (cbe.Value, error) {
	return c.do(ctx, "PutItem", map[string]interface{}{"TableName": tableName, "Item": item})
}

// DeleteItem deletes one item by its primary key.
func (c *Client) DeleteItem(ctx context.Context, tableName string, key map[string]attrvalue.Value) (cbe.Value, error) {
	return c.do(ctx, "DeleteItem", map[string]interface{}{"TableName": tableName, "Key": key})
}

// UpdateItem applies an update expression to one item.
func (c *Client) UpdateItem(ctx context.Context, tableName string, key map[string]attrvalue.Value, rest map[string]interface{}) (cbe.Value, error) {
	params := map[string]interface{}{"TableName": tableName, "Key": key}
	for k, v := range rest {
		params[k] = v
	}
	return c.do(ctx, "UpdateItem", params)
}

// BatchGetItem fetches items across one or more tables in a single round trip.
func (c *Client) BatchGetItem(ctx context.Context, requestItems map[string]interface{}) (cbe.Value, error) {
	return c.do(ctx, "BatchGetItem", map[string]interface{}{"RequestItems": requestItems})
}

// BatchWriteItem writes or deletes items across one or more tables in
// a single round trip.
func (c *Client) BatchWriteItem(ctx context.Context, requestItems map[string]interface{}) (cbe.Value, error) {
	return c.do(ctx, "BatchWriteItem", map[string]interface{}{"RequestItems": requestItems})
}

// Query runs a query against one table's primary key (and optional index).
func (c *Client) Query(ctx context.Context, params map[string]interface{}) (cbe.Value, error) {
	return c.do(ctx, "Query", params)
}

// Scan runs an unconditional scan over one table (and optional index).
func (c *Client) Scan(ctx context.Context, params map[string]interface{}) (cbe.Value, error) {
	return c.do(ctx, "Scan", params)
}

// DescribeTable returns a table's metadata, unvalidated and passed
// straight through to the cluster.
func (c *Client) DescribeTable(ctx context.Context, tableName string) (cbe.Value, error) {
	return c.do(ctx, "DescribeTable", map[string]interface{}{"TableName": tableName})
}

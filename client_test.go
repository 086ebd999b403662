// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dax

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhr-fau/dax-client-go/config"
	"github.com/nhr-fau/dax-client-go/internal/attrvalue"
	"github.com/nhr-fau/dax-client-go/internal/cbe"
	"github.com/nhr-fau/dax-client-go/internal/schema"
	"github.com/nhr-fau/dax-client-go/internal/signer"
)

type fakeSigner struct{}

func (fakeSigner) Sign(ctx context.Context) (signer.Credentials, error) {
	return signer.Credentials{AccessKey: "AK", Signature: "00", StringToSign: []byte("x")}, nil
}

// startItemServer answers the handshake and auth frames, then every
// GetItem-shaped request with a one-attribute item.
func startItemServer(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()

		var buf []byte
		readN := func(n int) bool {
			count := 0
			for count < n {
				for len(buf) > 0 {
					_, rest, err := cbe.Decode(buf)
					if err != nil {
						break
					}
					buf = rest
					count++
					if count == n {
						return true
					}
				}
				chunk := make([]byte, 1024)
				m, err := c.Read(chunk)
				if m > 0 {
					buf = append(buf, chunk[:m]...)
				}
				if err != nil {
					return false
				}
			}
			return true
		}

		if !readN(5) || !readN(7) {
			return
		}
		reply := append(cbe.Encode(cbe.Seq()), cbe.Encode(cbe.Null())...)
		c.Write(reply)

		for {
			if !readN(3) {
				return
			}
			item := cbe.Map(cbe.Entry(cbe.Text("Item"), cbe.Map(
				cbe.Entry(cbe.Text("id"), cbe.Map(cbe.Entry(cbe.Text("S"), cbe.Text("row-1")))),
			)))
			reply := append(cbe.Encode(cbe.Seq()), cbe.Encode(item)...)
			if _, err := c.Write(reply); err != nil {
				return
			}
		}
	}()

	return ln
}

func testConfig(ln net.Listener) config.ClientConfig {
	addr := ln.Addr().(*net.TCPAddr)
	return config.ClientConfig{
		Endpoints:                    []string{"dax://" + addr.IP.String() + ":" + strconv.Itoa(addr.Port)},
		ConnectTimeout:               time.Second,
		RequestTimeout:               time.Second,
		MaxPendingConnectionsPerHost: 10,
		KeyCacheSize:                 100,
		KeyCacheTTL:                  time.Minute,
		AttrCacheSize:                100,
	}
}

func TestGetItemRoundTrip(t *testing.T) {
	ln := startItemServer(t)
	defer ln.Close()

	client, err := New(testConfig(ln), fakeSigner{})
	require.NoError(t, err)
	defer client.Close()

	body, err := client.GetItem(context.Background(), "widgets", map[string]attrvalue.Value{
		"id": attrvalue.S("row-1"),
	})
	require.NoError(t, err)

	item, ok := cbe.MapGet(body, "Item")
	require.True(t, ok)
	idAttr, ok := cbe.MapGet(item, "id")
	require.True(t, ok)
	s, ok := cbe.MapGet(idAttr, "S")
	require.True(t, ok)
	require.Equal(t, "row-1", s.Text)
}

func TestGetItemRejectsKeyMismatchAgainstCachedSchema(t *testing.T) {
	ln := startItemServer(t)
	defer ln.Close()

	client, err := New(testConfig(ln), fakeSigner{})
	require.NoError(t, err)
	defer client.Close()

	client.CacheKeySchema("widgets", schema.KeySchema{Hash: schema.KeyElement{AttributeName: "id", AttributeType: "S"}})

	_, err = client.GetItem(context.Background(), "widgets", map[string]attrvalue.Value{
		"wrongName": attrvalue.S("row-1"),
	})
	require.Error(t, err)
}

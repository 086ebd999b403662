// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package conn

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhr-fau/dax-client-go/internal/cbe"
	"github.com/nhr-fau/dax-client-go/internal/signer"
)

// fakeSigner returns canned credentials without touching the network.
type fakeSigner struct{}

func (fakeSigner) Sign(ctx context.Context) (signer.Credentials, error) {
	return signer.Credentials{
		AccessKey:    "AKIAEXAMPLE",
		Signature:    "deadbeef",
		StringToSign: []byte("AWS4-HMAC-SHA256\n..."),
	}, nil
}

// startFakeServer accepts exactly one connection, reads the five
// handshake frames and the seven-value auth frame, answers the auth
// frame with an empty-error-descriptor/empty-body reply, then answers
// every subsequent request with the given body value.
func startFakeServer(t *testing.T, body cbe.Value) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()

		buf := make([]byte, 0, 4096)
		readFrames := func(n int) []cbe.Value {
			values := make([]cbe.Value, 0, n)
			for len(values) < n {
				for len(buf) > 0 {
					v, rest, err := cbe.Decode(buf)
					if err != nil {
						break
					}
					values = append(values, v)
					buf = rest
					if len(values) == n {
						return values
					}
				}
				chunk := make([]byte, 1024)
				m, err := c.Read(chunk)
				if m > 0 {
					buf = append(buf, chunk[:m]...)
				}
				if err != nil {
					return values
				}
			}
			return values
		}

		readFrames(5) // handshake: magic, uint, session id, user-agent map, uint
		readFrames(7) // auth frame: service id, method id, access key, signature, string-to-sign, token, user agent

		reply := append(cbe.Encode(cbe.Seq()), cbe.Encode(cbe.Null())...)
		c.Write(reply)

		for {
			vals := readFrames(3) // service id, method id, params
			if len(vals) < 3 {
				return
			}
			reply := append(cbe.Encode(cbe.Seq()), cbe.Encode(body)...)
			if _, err := c.Write(reply); err != nil {
				return
			}
		}
	}()

	return ln
}

func dialFakeServer(t *testing.T, ln net.Listener) *Connection {
	t.Helper()
	addr := ln.Addr().(*net.TCPAddr)
	ep := Endpoint{Scheme: SchemePlain, Host: addr.IP.String(), Port: addr.Port}

	c, err := Dial(context.Background(), ep, Options{
		ConnectTimeout: time.Second,
		RequestTimeout: time.Second,
		UserAgent:      "dax-client-go-test",
		Signer:         fakeSigner{},
	})
	require.NoError(t, err)
	return c
}

func TestDoAuthenticatesThenReturnsBody(t *testing.T) {
	ln := startFakeServer(t, cbe.Text("ok"))
	defer ln.Close()

	c := dialFakeServer(t, ln)
	defer c.Close()

	body, err := c.Do(context.Background(), "GetItem", map[string]interface{}{"TableName": "t"})
	require.NoError(t, err)
	require.Equal(t, cbe.KindText, body.Kind)
	require.Equal(t, "ok", body.Text)
	require.True(t, c.authenticated)
}

func TestDoReusesAuthWithinInterval(t *testing.T) {
	ln := startFakeServer(t, cbe.Uint(1))
	defer ln.Close()

	c := dialFakeServer(t, ln)
	defer c.Close()

	_, err := c.Do(context.Background(), "GetItem", map[string]interface{}{"TableName": "t"})
	require.NoError(t, err)
	firstAuth := c.lastAuthAt

	_, err = c.Do(context.Background(), "GetItem", map[string]interface{}{"TableName": "t"})
	require.NoError(t, err)
	require.Equal(t, firstAuth, c.lastAuthAt)
}

func TestDoFailsAfterClose(t *testing.T) {
	ln := startFakeServer(t, cbe.Uint(1))
	defer ln.Close()

	c := dialFakeServer(t, ln)
	require.NoError(t, c.Close())

	_, err := c.Do(context.Background(), "GetItem", map[string]interface{}{"TableName": "t"})
	require.Error(t, err)
}

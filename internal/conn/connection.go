// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package conn

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nhr-fau/dax-client-go/internal/cbe"
	"github.com/nhr-fau/dax-client-go/internal/daxerr"
	"github.com/nhr-fau/dax-client-go/internal/metrics"
	"github.com/nhr-fau/dax-client-go/internal/signer"
	"github.com/nhr-fau/dax-client-go/internal/wire"
	"github.com/nhr-fau/dax-client-go/pkg/log"
)

// reauthInterval is the threshold sampled on the request path: once a
// connection has gone this long since its last successful auth frame,
// the next Do call re-authenticates before sending the request. There
// is deliberately no background timer driving this; a connection that
// sits idle for an hour re-authenticates exactly once, on its next use.
const reauthInterval = 300 * time.Second

// readChunk is how many bytes Connection reads off the socket at a
// time while accumulating a reply.
const readChunk = 1024

// Options configures a Connection at Dial time. All fields are
// required except SkipHostnameVerification and UserAgent.
type Options struct {
	ConnectTimeout           time.Duration
	RequestTimeout           time.Duration
	SkipHostnameVerification bool
	UserAgent                string
	Signer                   signer.Signer
}

// Connection is one authenticated, stateful socket to one cluster
// node. Do holds an internal mutex for the whole auth-plus-request
// exchange, so at most one request is in flight on a Connection at a
// time; the pool may hand the same Connection to several callers,
// whose requests then wait on that mutex.
type Connection struct {
	endpoint Endpoint
	opts     Options
	sock     net.Conn

	sessionID     string
	authenticated bool
	lastAuthAt    time.Time
	lastUsedAt    time.Time

	badSince atomic.Int64 // unix nano; 0 means healthy
	closed   atomic.Bool

	mu sync.Mutex
}

// Dial opens a TCP (or TLS) socket to endpoint and runs the opening
// handshake. The returned Connection is not yet authenticated; the
// first Do call performs that lazily.
func Dial(ctx context.Context, endpoint Endpoint, opts Options) (*Connection, error) {
	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}

	var sock net.Conn
	var err error
	if endpoint.Scheme == SchemeTLS {
		tlsConf := &tls.Config{
			ServerName:         endpoint.Host,
			InsecureSkipVerify: opts.SkipHostnameVerification,
		}
		plain, dialErr := dialer.DialContext(ctx, "tcp", endpoint.Address())
		if dialErr != nil {
			err = dialErr
		} else {
			sock = tls.Client(plain, tlsConf)
			if hsErr := sock.(*tls.Conn).HandshakeContext(ctx); hsErr != nil {
				plain.Close()
				err = hsErr
			}
		}
	} else {
		sock, err = dialer.DialContext(ctx, "tcp", endpoint.Address())
	}
	if err != nil {
		return nil, &daxerr.ConnectionRefused{Endpoint: endpoint.String(), Err: err}
	}

	c := &Connection{
		endpoint:   endpoint,
		opts:       opts,
		sock:       sock,
		lastUsedAt: time.Now(),
	}

	if err := c.handshake(); err != nil {
		sock.Close()
		return nil, err
	}

	log.Debug("dax: opened connection to ", endpoint.String())
	return c, nil
}

// handshake writes the five top-level frames the protocol requires
// before any request can be sent: a fixed magic string, a reserved
// uint, a session id the client generates, a user-agent map, and a
// trailing reserved uint.
func (c *Connection) handshake() error {
	c.sessionID = fmt.Sprintf("%d", time.Now().UnixMilli()*1000+int64(rand.Intn(1000)))

	frames := []cbe.Value{
		cbe.Text("J7yne5G"),
		cbe.Uint(0),
		cbe.Text(c.sessionID),
		cbe.Map(cbe.Entry(cbe.Text("UserAgent"), cbe.Text(c.opts.UserAgent))),
		cbe.Uint(0),
	}

	var buf []byte
	for _, f := range frames {
		buf = append(buf, cbe.Encode(f)...)
	}

	if err := c.setWriteDeadline(c.opts.ConnectTimeout); err != nil {
		return &daxerr.ConnectionRefused{Endpoint: c.endpoint.String(), Err: err}
	}
	if _, err := c.sock.Write(buf); err != nil {
		return &daxerr.ConnectionRefused{Endpoint: c.endpoint.String(), Err: err}
	}
	return nil
}

// authenticate signs and sends the authorize-connection frame:
//
//	U(service_id) || U(method_id=authorizeConnection) ||
//	T(access_key) || T(signature) || B(string_to_sign) ||
//	(T(session_token) | Null) || (T(user_agent) | Null)
func (c *Connection) authenticate(ctx context.Context) error {
	creds, err := c.opts.Signer.Sign(ctx)
	if err != nil {
		return &daxerr.AuthFailed{Err: err}
	}

	token := cbe.Null()
	if creds.Token != "" {
		token = cbe.Text(creds.Token)
	}
	userAgent := cbe.Null()
	if c.opts.UserAgent != "" {
		userAgent = cbe.Text(c.opts.UserAgent)
	}

	frame := append(cbe.Encode(cbe.Uint(wire.ServiceID)), cbe.Encode(cbe.Uint(wire.MethodAuthorizeConnection))...)
	frame = append(frame, cbe.Encode(cbe.Text(creds.AccessKey))...)
	frame = append(frame, cbe.Encode(cbe.Text(creds.Signature))...)
	frame = append(frame, cbe.Encode(cbe.Bytes(creds.StringToSign))...)
	frame = append(frame, cbe.Encode(token)...)
	frame = append(frame, cbe.Encode(userAgent)...)

	if err := c.setWriteDeadline(c.opts.RequestTimeout); err != nil {
		return &daxerr.AuthFailed{Err: err}
	}
	if _, err := c.sock.Write(frame); err != nil {
		c.markBad()
		return &daxerr.AuthFailed{Err: err}
	}

	reply, err := c.readReply()
	if err != nil {
		c.markBad()
		metrics.AuthFramesTotal.WithLabelValues("failed").Inc()
		return &daxerr.AuthFailed{Err: err}
	}
	if _, err := wire.Deserialize(reply); err != nil {
		metrics.AuthFramesTotal.WithLabelValues("failed").Inc()
		var serverErr *daxerr.ServerError
		if errors.As(err, &serverErr) {
			return &daxerr.AuthFailed{Err: serverErr}
		}
		c.markBad()
		return &daxerr.AuthFailed{Err: err}
	}

	metrics.AuthFramesTotal.WithLabelValues("ok").Inc()
	c.authenticated = true
	c.lastAuthAt = time.Now()
	return nil
}

// Do sends one request and returns its decoded body. It
// re-authenticates first if the connection has never authenticated or
// the re-auth interval has elapsed since the last successful auth.
func (c *Connection) Do(ctx context.Context, op string, params map[string]interface{}) (cbe.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return cbe.Value{}, &daxerr.Closed{Resource: "connection"}
	}

	if !c.authenticated || time.Since(c.lastAuthAt) >= reauthInterval {
		if err := c.authenticate(ctx); err != nil {
			return cbe.Value{}, err
		}
	}

	req, err := wire.Serialize(op, params)
	if err != nil {
		return cbe.Value{}, err
	}

	start := time.Now()
	defer func() {
		metrics.RequestDurationSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	if err := c.setWriteDeadline(c.opts.RequestTimeout); err != nil {
		c.markBad()
		return cbe.Value{}, &daxerr.RequestFailed{Kind: "write", Err: err}
	}
	if _, err := c.sock.Write(req); err != nil {
		c.markBad()
		return cbe.Value{}, wrapIOError(c.endpoint, "write", err)
	}

	reply, err := c.readReply()
	if err != nil {
		c.markBad()
		return cbe.Value{}, err
	}

	c.lastUsedAt = time.Now()

	body, err := wire.Deserialize(reply)
	if err != nil {
		var serverErr *daxerr.ServerError
		if !errors.As(err, &serverErr) {
			c.markBad()
		}
		return cbe.Value{}, err
	}
	return body, nil
}

// readReply accumulates chunked reads until TryDeserialize reports a
// complete reply (an error descriptor plus body, or an error
// descriptor carrying a non-zero status), or the socket errors out.
// The reply bytes are returned undecoded; a server error is surfaced
// by the caller's Deserialize, not here.
func (c *Connection) readReply() ([]byte, error) {
	if err := c.setReadDeadline(c.opts.RequestTimeout); err != nil {
		return nil, &daxerr.RequestFailed{Kind: "read", Err: err}
	}

	var buf []byte
	chunk := make([]byte, readChunk)
	for {
		if _, done, err := wire.TryDeserialize(buf); err != nil {
			var serverErr *daxerr.ServerError
			if errors.As(err, &serverErr) {
				return buf, nil
			}
			return nil, err
		} else if done {
			return buf, nil
		}

		n, err := c.sock.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			if n > 0 {
				continue
			}
			return nil, wrapIOError(c.endpoint, "read", err)
		}
	}
}

func wrapIOError(endpoint Endpoint, op string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &daxerr.Timeout{Op: op}
	}
	if errors.Is(err, io.EOF) {
		return &daxerr.ConnectionLost{Endpoint: endpoint.String(), Err: err}
	}
	return &daxerr.ConnectionLost{Endpoint: endpoint.String(), Err: err}
}

func (c *Connection) setReadDeadline(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return c.sock.SetReadDeadline(time.Now().Add(d))
}

func (c *Connection) setWriteDeadline(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return c.sock.SetWriteDeadline(time.Now().Add(d))
}

// markBad flags the connection as unhealthy. The pool checks Bad
// before reusing a connection and quarantines/discards it instead.
func (c *Connection) markBad() {
	c.badSince.CompareAndSwap(0, time.Now().UnixNano())
}

// Bad reports whether the connection has been marked unhealthy, and
// since when.
func (c *Connection) Bad() (bad bool, since time.Time) {
	ns := c.badSince.Load()
	if ns == 0 {
		return false, time.Time{}
	}
	return true, time.Unix(0, ns)
}

// MarkBad lets a caller holding this connection from outside its own
// Do call (the client facade, inspecting a returned error) flag it
// unhealthy.
func (c *Connection) MarkBad() { c.markBad() }

// IdleSince reports when this connection last completed a request (or
// was dialed, if it has not yet completed one).
func (c *Connection) IdleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsedAt
}

// Endpoint returns the node this connection is open to.
func (c *Connection) Endpoint() Endpoint { return c.endpoint }

// Close closes the underlying socket. Safe to call more than once.
func (c *Connection) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.sock.Close()
}

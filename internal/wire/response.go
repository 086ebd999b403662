// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"

	"github.com/nhr-fau/dax-client-go/internal/cbe"
	"github.com/nhr-fau/dax-client-go/internal/daxerr"
)

// Deserialize reads a complete reply buffer: V(error_descriptor) ||
// V(body). If the error descriptor is non-empty and its first element
// is a non-zero status code, Deserialize returns *daxerr.ServerError
// immediately and never attempts to decode the body. Otherwise it
// decodes and returns the body value. The buffer must already hold a
// full reply; callers reading off a socket should accumulate through
// TryDeserialize instead.
func Deserialize(reply []byte) (cbe.Value, error) {
	body, done, err := TryDeserialize(reply)
	if err != nil {
		return cbe.Value{}, err
	}
	if !done {
		return cbe.Value{}, &daxerr.MalformedEncoding{Err: fmt.Errorf("reply buffer ends mid-value")}
	}
	return body, nil
}

// TryDeserialize attempts to decode a reply out of buf, which may be a
// partial read off a socket. done is false when buf simply doesn't yet
// hold a complete error descriptor and body and the caller should read
// more bytes and retry; it is never false together with a non-nil err.
// A non-zero status in the error descriptor short-circuits to
// *daxerr.ServerError without requiring the body to be present.
func TryDeserialize(buf []byte) (body cbe.Value, done bool, err error) {
	descriptor, rest, err := cbe.Decode(buf)
	if err != nil {
		if cbe.IsShortBuffer(err) {
			return cbe.Value{}, false, nil
		}
		return cbe.Value{}, true, &daxerr.MalformedEncoding{Err: err}
	}

	if descriptor.Kind != cbe.KindSeq {
		return cbe.Value{}, true, &daxerr.MalformedEncoding{Err: fmt.Errorf("error descriptor must be a sequence, got %v", descriptor.Kind)}
	}

	if len(descriptor.Seq) > 0 {
		status, err := statusOf(descriptor.Seq[0])
		if err != nil {
			return cbe.Value{}, true, &daxerr.MalformedEncoding{Err: err}
		}
		if status != 0 {
			message := ""
			if len(descriptor.Seq) > 1 && descriptor.Seq[1].Kind == cbe.KindText {
				message = descriptor.Seq[1].Text
			}
			requestID := ""
			if len(descriptor.Seq) > 2 && descriptor.Seq[2].Kind == cbe.KindText {
				requestID = descriptor.Seq[2].Text
			}
			return cbe.Value{}, true, &daxerr.ServerError{Status: status, Message: message, RequestID: requestID}
		}
	}

	body, _, err = cbe.Decode(rest)
	if err != nil {
		if cbe.IsShortBuffer(err) {
			return cbe.Value{}, false, nil
		}
		return cbe.Value{}, true, &daxerr.MalformedEncoding{Err: err}
	}
	return body, true, nil
}

func statusOf(v cbe.Value) (int64, error) {
	switch v.Kind {
	case cbe.KindUint:
		return int64(v.Uint), nil
	case cbe.KindNegInt:
		return v.NegInt, nil
	default:
		return 0, fmt.Errorf("status code must be an integer, got %v", v.Kind)
	}
}

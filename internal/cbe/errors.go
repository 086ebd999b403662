// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbe

import (
	"errors"
	"fmt"
)

// ErrMalformedEncoding is returned by Decode whenever the input is not
// a valid CBE stream: a reserved prefix category, a truncated
// definite-length container, or invalid UTF-8 in a text string.
var ErrMalformedEncoding = errors.New("cbe: malformed encoding")

// errShortBuffer is a private sentinel distinguishing "the buffer
// ends before this value is complete" from other malformed input. It
// wraps ErrMalformedEncoding, so a caller checking only for
// ErrMalformedEncoding treats a truncated stream as malformed; the
// framing layer checks IsShortBuffer instead to decide whether to read
// another chunk from the socket.
var errShortBuffer = fmt.Errorf("%w: short buffer", ErrMalformedEncoding)

// IsShortBuffer reports whether err indicates the stream was merely
// incomplete (more bytes are needed) rather than invalid.
func IsShortBuffer(err error) bool {
	return errors.Is(err, errShortBuffer)
}

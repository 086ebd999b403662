// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package log

import "os"

// ApplyDebugLogging switches between the client's two supported
// verbosity levels: "debug" (handshake, auth and cache activity all
// logged) when enabled, "info" otherwise. It is the bridge between
// the debug_logging config key and this package's level switch.
func ApplyDebugLogging(enabled bool) {
	if enabled {
		DebugWriter = os.Stderr
		SetLogLevel("debug")
		return
	}
	SetLogLevel("info")
}

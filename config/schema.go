// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

// Schema is the closed set of keys a config file may set. additionalProperties
// is false so an unrecognised key fails fast instead of being silently ignored.
const Schema = `
{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "endpoint_url": {
      "description": "A single cluster endpoint URL, scheme dax:// (plain, default port 8111) or daxs:// (TLS, default port 9111). Mutually exclusive with endpoints; exactly one of the two is required.",
      "type": "string"
    },
    "endpoints": {
      "description": "Cluster endpoint URLs, scheme dax:// (plain, default port 8111) or daxs:// (TLS, default port 9111). Mutually exclusive with endpoint_url; exactly one of the two is required.",
      "type": "array",
      "items": { "type": "string" },
      "minItems": 1
    },
    "region": {
      "description": "AWS region used for request signing.",
      "type": "string"
    },
    "connect_timeout": {
      "description": "Dial timeout, as a Go duration string (e.g. '1s').",
      "type": "string"
    },
    "request_timeout": {
      "description": "Per-request I/O deadline, as a Go duration string.",
      "type": "string"
    },
    "max_pending_connections_per_host": {
      "description": "Cap on concurrently open connections per endpoint.",
      "type": "integer",
      "minimum": 1
    },
    "max_concurrent_requests_per_connection": {
      "description": "Reserved for future pipelining support; currently advisory only.",
      "type": "integer",
      "minimum": 1
    },
    "idle_timeout": {
      "description": "How long an unused connection may sit open before the janitor closes it.",
      "type": "string"
    },
    "skip_hostname_verification": {
      "description": "Disable TLS server-name verification. Only ever set for testing against a self-signed cluster.",
      "type": "boolean"
    },
    "key_cache_size": {
      "description": "Maximum number of table key schemas cached at once.",
      "type": "integer",
      "minimum": 1
    },
    "key_cache_ttl": {
      "description": "How long a cached key schema is trusted before re-fetch, as a Go duration string.",
      "type": "string"
    },
    "attr_cache_size": {
      "description": "Maximum number of attribute-name lists cached at once.",
      "type": "integer",
      "minimum": 1
    },
    "debug_logging": {
      "description": "Enable debug-level logging of handshake, auth and cache activity.",
      "type": "boolean"
    }
  }
}
`

// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package signer

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignProducesWellFormedCredentials(t *testing.T) {
	s := FromStaticCredentials("AKIAEXAMPLE", "secretkeyexample", "", "us-east-1")

	creds, err := s.Sign(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "AKIAEXAMPLE", creds.AccessKey)
	assert.Empty(t, creds.Token)

	sigBytes, err := hex.DecodeString(creds.Signature)
	require.NoError(t, err)
	assert.Equal(t, 32, len(sigBytes)) // HMAC-SHA256 digest size

	sts := string(creds.StringToSign)
	assert.True(t, strings.HasPrefix(sts, "AWS4-HMAC-SHA256\n"))
	assert.Contains(t, sts, "/us-east-1/dax/aws4_request")
}

func TestSignCarriesSessionToken(t *testing.T) {
	s := FromStaticCredentials("AKIAEXAMPLE", "secretkeyexample", "session-token-xyz", "eu-west-1")

	creds, err := s.Sign(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "session-token-xyz", creds.Token)
	assert.Contains(t, string(creds.StringToSign), "/eu-west-1/dax/aws4_request")
}

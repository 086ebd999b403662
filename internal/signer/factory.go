// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package signer

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// FromDefaultChain builds a SigV4Signer backed by the SDK's default
// credential provider chain (environment, shared config, container
// and instance metadata, ...) for the given region.
func FromDefaultChain(ctx context.Context, region string) (*SigV4Signer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return New(cfg.Credentials, region), nil
}

// FromStaticCredentials builds a SigV4Signer over a fixed access
// key/secret/session-token triple, for tests and for callers that
// already hold short-lived credentials from elsewhere.
func FromStaticCredentials(accessKeyID, secretAccessKey, sessionToken, region string) *SigV4Signer {
	provider := credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, sessionToken)
	return New(provider, region)
}

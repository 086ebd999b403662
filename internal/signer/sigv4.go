// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package signer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"

	"github.com/nhr-fau/dax-client-go/internal/daxerr"
)

// canonicalHost and serviceName are fixed by the protocol: every
// authorize-connection frame signs as if addressed to this host and
// service, regardless of which cluster endpoint the connection itself
// is open to.
const (
	canonicalHost = "dax.amazonaws.com"
	serviceName   = "dax"
	contentType   = "application/x-amz-cbor-1.1"
)

// SigV4Signer signs the empty-payload canonical request the protocol
// requires, using credentials resolved through the AWS SDK's provider
// chain. It delegates to the SDK's v4.Signer.SignHTTP for the request
// signature, read back out of the Authorization header SignHTTP sets,
// and independently derives the canonical string-to-sign (not part of
// the SDK's public surface) with the same inputs, so the two agree by
// construction.
type SigV4Signer struct {
	provider aws.CredentialsProvider
	region   string
	sdkSigner *v4.Signer
}

// New builds a SigV4Signer over an arbitrary credentials provider
// (static, chain, or otherwise).
func New(provider aws.CredentialsProvider, region string) *SigV4Signer {
	return &SigV4Signer{
		provider:  provider,
		region:    region,
		sdkSigner: v4.NewSigner(),
	}
}

// Sign implements Signer.
func (s *SigV4Signer) Sign(ctx context.Context) (Credentials, error) {
	creds, err := s.provider.Retrieve(ctx)
	if err != nil {
		return Credentials{}, &daxerr.AuthFailed{Err: fmt.Errorf("resolving credentials: %w", err)}
	}

	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	payloadHash := sha256Hex(nil)

	headers := map[string]string{
		"host":         canonicalHost,
		"x-amz-date":   amzDate,
		"content-type": contentType,
	}
	if creds.SessionToken != "" {
		headers["x-amz-security-token"] = creds.SessionToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://"+canonicalHost+"/", nil)
	if err != nil {
		return Credentials{}, &daxerr.AuthFailed{Err: err}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if err := s.sdkSigner.SignHTTP(ctx, creds, req, payloadHash, serviceName, s.region, now); err != nil {
		return Credentials{}, &daxerr.AuthFailed{Err: fmt.Errorf("signing request: %w", err)}
	}

	signature, err := signatureFromAuthHeader(req.Header.Get("Authorization"))
	if err != nil {
		return Credentials{}, &daxerr.AuthFailed{Err: fmt.Errorf("extracting signature: %w", err)}
	}

	stringToSign := buildStringToSign(headers, amzDate, now, s.region, payloadHash)

	return Credentials{
		AccessKey:    creds.AccessKeyID,
		Signature:    signature,
		StringToSign: stringToSign,
		Token:        creds.SessionToken,
	}, nil
}

// signatureFromAuthHeader pulls the hex signature out of the
// Authorization header SignHTTP sets: "AWS4-HMAC-SHA256
// Credential=..., SignedHeaders=..., Signature=<hex>". The SDK has no
// exported accessor for the signature alone; it is only ever handed
// back embedded in this header.
func signatureFromAuthHeader(authHeader string) (string, error) {
	const marker = "Signature="
	idx := strings.LastIndex(authHeader, marker)
	if idx == -1 {
		return "", fmt.Errorf("no %s component in Authorization header %q", marker, authHeader)
	}
	return authHeader[idx+len(marker):], nil
}

// buildStringToSign reconstructs AWS4-HMAC-SHA256's canonical
// request and string-to-sign for a POST / with no query string and no
// body, from the same header set just handed to SignHTTP. The result
// is deterministic given those inputs, so it matches what SignHTTP
// derived internally to produce the signature above.
func buildStringToSign(headers map[string]string, amzDate string, signingTime time.Time, region, payloadHash string) []byte {
	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)

	var canonicalHeaders strings.Builder
	for _, name := range names {
		canonicalHeaders.WriteString(name)
		canonicalHeaders.WriteByte(':')
		canonicalHeaders.WriteString(strings.TrimSpace(headers[name]))
		canonicalHeaders.WriteByte('\n')
	}
	signedHeaders := strings.Join(names, ";")

	canonicalRequest := strings.Join([]string{
		"POST",
		"/",
		"", // no query string
		canonicalHeaders.String(),
		signedHeaders,
		payloadHash,
	}, "\n")

	dateStamp := signingTime.Format("20060102")
	credentialScope := strings.Join([]string{dateStamp, region, serviceName, "aws4_request"}, "/")

	return []byte(strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		credentialScope,
		sha256Hex([]byte(canonicalRequest)),
	}, "\n"))
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

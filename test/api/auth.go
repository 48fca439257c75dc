/*
Copyright 2024-2025 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/onsi/ginkgo/v2"
)

// ErrNoExpiry is raised when a token carries no exp claim.
var ErrNoExpiry = errors.New("token has no expiry")

//nolint:gochecknoglobals
var tokenAlgorithms = []jose.SignatureAlgorithm{
	jose.HS256, jose.HS384, jose.HS512,
	jose.RS256, jose.RS384, jose.RS512,
	jose.ES256, jose.ES384, jose.ES512,
	jose.PS256, jose.PS384, jose.PS512,
}

// TokenExpiry reads the exp claim of a JWT.  The signature is not verified,
// only the service can do that.
func TokenExpiry(token string) (time.Time, error) {
	parsed, err := jwt.ParseSigned(token, tokenAlgorithms)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing token: %w", err)
	}

	var claims jwt.Claims

	if err := parsed.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return time.Time{}, fmt.Errorf("reading token claims: %w", err)
	}

	if claims.Expiry == nil {
		return time.Time{}, ErrNoExpiry
	}

	return claims.Expiry.Time(), nil
}

// ResolveToken returns the bearer token for a run.  A configured token is
// used as is, there is no refresh, so an expired one only raises a warning.
// Otherwise the configured credentials are exchanged for a token.
func ResolveToken(ctx context.Context, client *APIClient, config *TestConfig) (string, error) {
	if config.AuthToken != "" {
		if expiry, err := TokenExpiry(config.AuthToken); err == nil && time.Now().After(expiry) {
			ginkgo.GinkgoWriter.Printf("Warning: API_AUTH_TOKEN expired at %s, requests are likely to be rejected\n", expiry.Format(time.RFC3339))
		}

		return config.AuthToken, nil
	}

	if config.LoginEmail == "" || config.LoginPassword == "" {
		return "", fmt.Errorf("%w: neither a token nor credentials are configured", ErrAuthentication)
	}

	return client.Authenticate(ctx, config.LoginEmail, config.LoginPassword)
}

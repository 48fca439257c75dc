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

package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"
)

const (
	// DefaultIssuer is the iss claim of issued tokens.
	DefaultIssuer = "IdeaCenter_App"

	// DefaultAudience is the aud claim of issued tokens.
	DefaultAudience = "IdeaCenter_WebAPI"

	// DefaultLifetime is how long a token remains valid.
	DefaultLifetime = 4 * time.Hour
)

// ErrInvalidToken is raised when a token cannot be parsed or verified.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by access tokens.
type Claims struct {
	jwt.Claims

	UserID   string `json:"UserId"`
	Email    string `json:"Email"`
	UserName string `json:"UserName"`
}

// Issuer issues and verifies HS256 signed access tokens.
type Issuer struct {
	key      []byte
	signer   jose.Signer
	issuer   string
	audience string
	lifetime time.Duration
}

// NewIssuer creates an issuer.  The signing key is hashed so any non-empty
// secret meets the HMAC key length requirements.
func NewIssuer(secret string, lifetime time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: signing key must be set", ErrInvalidToken)
	}

	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}

	key := sha256.Sum256([]byte(secret))

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: key[:]}, (&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return nil, fmt.Errorf("creating token signer: %w", err)
	}

	i := &Issuer{
		key:      key[:],
		signer:   signer,
		issuer:   DefaultIssuer,
		audience: DefaultAudience,
		lifetime: lifetime,
	}

	return i, nil
}

// Issue returns a signed access token for the user.
func (i *Issuer) Issue(userID, email, userName string) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(i.lifetime)

	claims := &Claims{
		Claims: jwt.Claims{
			ID:       uuid.NewString(),
			Subject:  "JwtServiceAccessToken",
			Issuer:   i.issuer,
			Audience: jwt.Audience{i.audience},
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(expiry),
		},
		UserID:   userID,
		Email:    email,
		UserName: userName,
	}

	token, err := jwt.Signed(i.signer).Claims(claims).Serialize()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return token, expiry, nil
}

// Verify checks the token signature, issuer, audience and expiry.
func (i *Issuer) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseSigned(token, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims := &Claims{}

	if err := parsed.Claims(i.key, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	expected := jwt.Expected{
		Issuer:      i.issuer,
		AnyAudience: jwt.Audience{i.audience},
		Time:        time.Now(),
	}

	if err := claims.ValidateWithLeeway(expected, 0); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user ID", ErrInvalidToken)
	}

	return claims, nil
}

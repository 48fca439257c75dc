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

package server

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/ideacenter/apitests/pkg/server/auth"
	"github.com/ideacenter/apitests/pkg/server/handler"
)

// ErrInvalidUser is raised when a --user flag cannot be parsed.
var ErrInvalidUser = errors.New("invalid user")

// Options allows server behaviour to be defined on the CLI.
type Options struct {
	// ListenAddress tells the server what to listen on, you shouldn't
	// need to change this, its already non-privileged and the default
	// should be modified to avoid clashes with other services e.g prometheus.
	ListenAddress string

	// ReadTimeout defines how long before we give up on the client,
	// this should be fairly short.
	ReadTimeout time.Duration

	// ReadHeaderTimeout defines how long before we give up on the client,
	// this should be fairly short.
	ReadHeaderTimeout time.Duration

	// WriteTimeout defines how long we take to respond before we give up.
	WriteTimeout time.Duration

	// SigningKey is the secret used to sign access tokens.
	SigningKey string

	// TokenLifetime is how long access tokens are valid for.
	TokenLifetime time.Duration

	// Users are seeded accounts in email:password form.
	Users []string
}

// DefaultOptions returns options suitable for running in-process.
func DefaultOptions() *Options {
	return &Options{
		ListenAddress:     ":6080",
		ReadTimeout:       time.Second,
		ReadHeaderTimeout: time.Second,
		WriteTimeout:      10 * time.Second,
		SigningKey:        "ideacenter-development-signing-key",
		TokenLifetime:     auth.DefaultLifetime,
	}
}

func (o *Options) AddFlags(f *pflag.FlagSet) {
	defaults := DefaultOptions()

	f.StringVar(&o.ListenAddress, "listen-address", defaults.ListenAddress, "API listener address.")
	f.DurationVar(&o.ReadTimeout, "read-timeout", defaults.ReadTimeout, "How long to wait for the client to send the request body.")
	f.DurationVar(&o.ReadHeaderTimeout, "read-header-timeout", defaults.ReadHeaderTimeout, "How long to wait for the client to send headers.")
	f.DurationVar(&o.WriteTimeout, "write-timeout", defaults.WriteTimeout, "How long to wait for the API to respond to the client.")
	f.StringVar(&o.SigningKey, "signing-key", defaults.SigningKey, "Secret used to sign access tokens.")
	f.DurationVar(&o.TokenLifetime, "token-lifetime", defaults.TokenLifetime, "How long issued access tokens are valid for.")
	f.StringArrayVar(&o.Users, "user", nil, "Seeded account in email:password form, may be specified more than once.")
}

// ParseUsers converts email:password pairs into accounts.  User IDs are
// derived from the email so tokens survive a restart with the same signing key.
func ParseUsers(in []string) ([]handler.User, error) {
	users := make([]handler.User, 0, len(in))

	for _, entry := range in {
		email, password, ok := strings.Cut(entry, ":")
		if !ok || password == "" {
			return nil, fmt.Errorf("%w: expected email:password, got %q", ErrInvalidUser, entry)
		}

		address, err := mail.ParseAddress(email)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidUser, err)
		}

		userName, _, _ := strings.Cut(address.Address, "@")

		users = append(users, handler.User{
			ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+address.Address)).String(),
			Email:    address.Address,
			UserName: userName,
			Password: password,
		})
	}

	return users, nil
}

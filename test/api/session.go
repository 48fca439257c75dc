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
)

// Session is an authenticated client, created once per test run.
type Session struct {
	Client  *APIClient
	BaseURL string
	Token   string
}

// NewSession resolves a token and returns a client that sends it with
// every request.  Authentication failures are returned as ErrAuthentication.
func NewSession(ctx context.Context, config *TestConfig) (*Session, error) {
	client := NewAPIClientWithConfig(config)

	token, err := ResolveToken(ctx, client, config)
	if err != nil {
		client.Close()
		return nil, err
	}

	client.SetAuthToken(token)

	session := &Session{
		Client:  client,
		BaseURL: client.BaseURL(),
		Token:   token,
	}

	return session, nil
}

// Close releases the session's connections.
func (s *Session) Close() {
	s.Client.Close()
}

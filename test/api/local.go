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
	"fmt"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"

	"github.com/ideacenter/apitests/pkg/server"
)

const (
	// LocalUserEmail is the account seeded into the in-process server.
	LocalUserEmail = "qa@ideacenter.local"

	// LocalUserPassword is the seeded account's password.
	LocalUserPassword = "ideacenter-qa"
)

// StartLocalServer hosts the reference Idea Center server in process and
// points the configuration at it with the seeded credentials.  The returned
// function stops the server.
func StartLocalServer(config *TestConfig) (func(), error) {
	options := server.DefaultOptions()
	options.Users = []string{LocalUserEmail + ":" + LocalUserPassword}

	s, err := server.New(options, ginkgo.GinkgoLogr)
	if err != nil {
		return nil, fmt.Errorf("creating local server: %w", err)
	}

	ts := httptest.NewServer(s.Handler())

	if config.AuthToken != "" {
		ginkgo.GinkgoWriter.Printf("Ignoring API_AUTH_TOKEN, the in-process server only accepts tokens it issued\n")
	}

	config.BaseURL = ts.URL
	config.AuthToken = ""
	config.LoginEmail = LocalUserEmail
	config.LoginPassword = LocalUserPassword

	ginkgo.GinkgoWriter.Printf("API_BASE_URL not set, using in-process server at %s\n", ts.URL)

	return ts.Close, nil
}

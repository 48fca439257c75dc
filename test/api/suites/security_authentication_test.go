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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ideacenter/apitests/test/api"
)

var _ = Describe("Security and Authentication", func() {
	Context("When accessing ideas", func() {
		Describe("Given invalid authentication", func() {
			var anonymous *api.APIClient

			BeforeEach(func() {
				anonymous = api.NewAPIClientWithConfig(&api.TestConfig{
					BaseURL:        client.BaseURL(),
					RequestTimeout: config.RequestTimeout,
					LogRequests:    config.LogRequests,
					LogResponses:   config.LogResponses,
				})
				DeferCleanup(anonymous.Close)
			})

			It("should reject requests with missing authentication", func() {
				resp, err := anonymous.Get(ctx, "/api/Idea/All", nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			})

			It("should reject requests with a malformed token", func() {
				anonymous.SetAuthToken("not-a-jwt")

				_, err := anonymous.ListIdeas(ctx)
				Expect(err).To(HaveOccurred())
				Expect(api.StatusCode(err)).To(Equal(http.StatusUnauthorized))
			})
		})
	})

	Context("When logging in", func() {
		Describe("Given incorrect credentials", func() {
			It("should fail to authenticate", func() {
				if config.LoginEmail == "" {
					Skip("no login credentials configured")
				}

				_, err := client.Authenticate(ctx, config.LoginEmail, config.LoginPassword+"-wrong")
				Expect(err).To(MatchError(api.ErrAuthentication))
			})
		})
	})
})

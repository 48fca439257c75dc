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

package ideacenter_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive
	"github.com/pact-foundation/pact-go/v2/consumer"
	"github.com/pact-foundation/pact-go/v2/matchers"

	"github.com/ideacenter/apitests/test/api"
)

var testingT *testing.T //nolint:gochecknoglobals

const (
	token       = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.e30.signature"
	ideaID      = "f1e2d3c4-b5a6-4978-8a9b-0c1d2e3f4a5b"
	missingIdea = "123422"

	missingDeletedIdea = "123455"
)

func TestContracts(t *testing.T) { //nolint:paralleltest
	testingT = t

	RegisterFailHandler(Fail)
	RunSpecs(t, "Idea Center Consumer Contract Suite")
}

// createClient creates an API client for the mock server.
func createClient(config consumer.MockServerConfig, bearer string) *api.APIClient {
	url := fmt.Sprintf("http://%s", net.JoinHostPort(config.Host, fmt.Sprintf("%d", config.Port)))

	client := api.NewAPIClientWithConfig(&api.TestConfig{
		BaseURL:        url,
		RequestTimeout: 10 * time.Second,
	})
	client.SetAuthToken(bearer)

	return client
}

func bearerHeader() matchers.Matcher {
	return matchers.Regex("Bearer "+token, `^Bearer \S+$`)
}

func ideaBody(title, description string) map[string]interface{} {
	return map[string]interface{}{
		"title":       matchers.String(title),
		"description": matchers.String(description),
		"url":         matchers.String(""),
	}
}

var _ = Describe("Idea Center Contract", func() {
	var (
		pact *consumer.V4HTTPMockProvider
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		pact, err = consumer.NewV4Pact(consumer.MockHTTPProviderConfig{
			Consumer: "ideacenter-api-tests",
			Provider: "ideacenter-api",
			PactDir:  "../pacts",
		})
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	Describe("Authentication", func() {
		Context("when logging in with valid credentials", func() {
			It("returns an access token", func() {
				pact.AddInteraction().
					Given("user qa@ideacenter.local exists").
					UponReceiving("a request to authenticate").
					WithRequest("POST", "/api/User/Authentication", func(b *consumer.V4RequestBuilder) {
						b.JSONBody(map[string]interface{}{
							"email":    matchers.String("qa@ideacenter.local"),
							"password": matchers.String("ideacenter-qa"),
						})
					}).
					WillRespondWith(200, func(b *consumer.V4ResponseBuilder) {
						b.JSONBody(map[string]interface{}{
							"accessToken": matchers.String(token),
						})
					})

				test := func(config consumer.MockServerConfig) error {
					accessToken, err := createClient(config, "").Authenticate(ctx, "qa@ideacenter.local", "ideacenter-qa")
					if err != nil {
						return fmt.Errorf("authenticating: %w", err)
					}

					Expect(accessToken).To(Equal(token))

					return nil
				}

				Expect(pact.ExecuteTest(testingT, test)).To(Succeed())
			})
		})
	})

	Describe("Ideas", func() {
		Context("when creating an idea", func() {
			It("acknowledges the new idea", func() {
				pact.AddInteraction().
					Given("the user is authenticated").
					UponReceiving("a request to create an idea").
					WithRequest("POST", "/api/Idea/Create", func(b *consumer.V4RequestBuilder) {
						b.Header("Authorization", bearerHeader())
						b.JSONBody(ideaBody("Test Idea", "This is a test idea description"))
					}).
					WillRespondWith(200, func(b *consumer.V4ResponseBuilder) {
						b.JSONBody(map[string]interface{}{
							"msg": matchers.String("Successfully created!"),
						})
					})

				test := func(config consumer.MockServerConfig) error {
					created, err := createClient(config, token).CreateIdea(ctx,
						api.NewIdeaPayload().
							WithTitle("Test Idea").
							WithDescription("This is a test idea description").
							Build())
					if err != nil {
						return fmt.Errorf("creating idea: %w", err)
					}

					Expect(created.Msg).To(Equal("Successfully created!"))

					return nil
				}

				Expect(pact.ExecuteTest(testingT, test)).To(Succeed())
			})
		})

		Context("when listing ideas", func() {
			It("returns ideas oldest first", func() {
				pact.AddInteraction().
					Given("the user has ideas").
					UponReceiving("a request to list ideas").
					WithRequest("GET", "/api/Idea/All", func(b *consumer.V4RequestBuilder) {
						b.Header("Authorization", bearerHeader())
					}).
					WillRespondWith(200, func(b *consumer.V4ResponseBuilder) {
						b.JSONBody(matchers.EachLike(map[string]interface{}{
							"id":          matchers.String(ideaID),
							"title":       matchers.String("Test Idea"),
							"description": matchers.String("This is a test idea description"),
						}, 1))
					})

				test := func(config consumer.MockServerConfig) error {
					ideas, err := createClient(config, token).ListIdeas(ctx)
					if err != nil {
						return fmt.Errorf("listing ideas: %w", err)
					}

					Expect(ideas).NotTo(BeEmpty())
					Expect(ideas[len(ideas)-1].Id).To(Equal(ideaID))

					return nil
				}

				Expect(pact.ExecuteTest(testingT, test)).To(Succeed())
			})
		})

		Context("when editing an idea", func() {
			It("acknowledges the edit", func() {
				pact.AddInteraction().
					Given(fmt.Sprintf("idea %s exists", ideaID)).
					UponReceiving("a request to edit an idea").
					WithRequest("PUT", "/api/Idea/Edit", func(b *consumer.V4RequestBuilder) {
						b.Header("Authorization", bearerHeader())
						b.Query("ideaId", matchers.String(ideaID))
						b.JSONBody(ideaBody("Edited Title", "edited description"))
					}).
					WillRespondWith(200, func(b *consumer.V4ResponseBuilder) {
						b.JSONBody(map[string]interface{}{
							"msg": matchers.String("Edited successfully"),
						})
					})

				test := func(config consumer.MockServerConfig) error {
					edited, err := createClient(config, token).EditIdea(ctx, ideaID,
						api.NewIdeaPayload().
							WithTitle("Edited Title").
							WithDescription("edited description").
							Build())
					if err != nil {
						return fmt.Errorf("editing idea: %w", err)
					}

					Expect(edited.Msg).To(Equal("Edited successfully"))

					return nil
				}

				Expect(pact.ExecuteTest(testingT, test)).To(Succeed())
			})

			It("rejects an unknown idea", func() {
				pact.AddInteraction().
					Given(fmt.Sprintf("idea %s does not exist", missingIdea)).
					UponReceiving("a request to edit an unknown idea").
					WithRequest("PUT", "/api/Idea/Edit", func(b *consumer.V4RequestBuilder) {
						b.Header("Authorization", bearerHeader())
						b.Query("ideaId", matchers.String(missingIdea))
						b.JSONBody(ideaBody("Edited Title", "Edited Description"))
					}).
					WillRespondWith(400, func(b *consumer.V4ResponseBuilder) {
						b.JSONBody(map[string]interface{}{
							"msg": matchers.String("There is no such idea!"),
						})
					})

				test := func(config consumer.MockServerConfig) error {
					_, err := createClient(config, token).EditIdea(ctx, missingIdea,
						api.NewIdeaPayload().
							WithTitle("Edited Title").
							WithDescription("Edited Description").
							Build())

					Expect(api.StatusCode(err)).To(Equal(http.StatusBadRequest))
					Expect(err.Error()).To(ContainSubstring("There is no such idea!"))

					return nil
				}

				Expect(pact.ExecuteTest(testingT, test)).To(Succeed())
			})
		})

		Context("when deleting an idea", func() {
			It("acknowledges the deletion", func() {
				pact.AddInteraction().
					Given(fmt.Sprintf("idea %s exists", ideaID)).
					UponReceiving("a request to delete an idea").
					WithRequest("DELETE", "/api/Idea/Delete", func(b *consumer.V4RequestBuilder) {
						b.Header("Authorization", bearerHeader())
						b.Query("ideaId", matchers.String(ideaID))
					}).
					WillRespondWith(200, func(b *consumer.V4ResponseBuilder) {
						b.JSONBody(map[string]interface{}{
							"msg": matchers.String("The idea is deleted!"),
						})
					})

				test := func(config consumer.MockServerConfig) error {
					deleted, err := createClient(config, token).DeleteIdea(ctx, ideaID)
					if err != nil {
						return fmt.Errorf("deleting idea: %w", err)
					}

					Expect(deleted.Msg).To(ContainSubstring("The idea is deleted!"))

					return nil
				}

				Expect(pact.ExecuteTest(testingT, test)).To(Succeed())
			})

			It("rejects an unknown idea", func() {
				pact.AddInteraction().
					Given(fmt.Sprintf("idea %s does not exist", missingDeletedIdea)).
					UponReceiving("a request to delete an unknown idea").
					WithRequest("DELETE", "/api/Idea/Delete", func(b *consumer.V4RequestBuilder) {
						b.Header("Authorization", bearerHeader())
						b.Query("ideaId", matchers.String(missingDeletedIdea))
					}).
					WillRespondWith(400, func(b *consumer.V4ResponseBuilder) {
						b.JSONBody(map[string]interface{}{
							"msg": matchers.String("There is no such idea!"),
						})
					})

				test := func(config consumer.MockServerConfig) error {
					_, err := createClient(config, token).DeleteIdea(ctx, missingDeletedIdea)

					Expect(api.StatusCode(err)).To(Equal(http.StatusBadRequest))
					Expect(err.Error()).To(ContainSubstring("There is no such idea!"))

					return nil
				}

				Expect(pact.ExecuteTest(testingT, test)).To(Succeed())
			})
		})
	})
})

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
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ideacenter/apitests/test/api"
)

var _ = Describe("Boundary Value Testing", func() {
	Context("When submitting optional fields", func() {
		Describe("Given an idea with a URL", func() {
			It("should store the URL", func() {
				ideaID := api.CreateIdeaWithCleanup(client, ctx,
					api.NewIdeaPayload().
						WithURL("https://example.com/idea.png").
						Build())

				ideas, err := client.ListIdeas(ctx)
				Expect(err).NotTo(HaveOccurred())

				idea := api.FindIdea(ideas, ideaID)
				Expect(idea).NotTo(BeNil())
				Expect(idea.Url).NotTo(BeNil())
				Expect(*idea.Url).To(Equal("https://example.com/idea.png"))
			})
		})

		Describe("Given an idea with a null URL", func() {
			It("should accept the idea", func() {
				ideaID := api.CreateIdeaWithCleanup(client, ctx, api.NewIdeaPayload().WithoutURL().Build())
				Expect(ideaID).NotTo(BeEmpty())
			})
		})
	})

	Context("When submitting unusual text", func() {
		Describe("Given Unicode characters", func() {
			It("should round trip the text unchanged", func() {
				title := "Идея 💡 " + api.GenerateTestID()

				ideaID := api.CreateIdeaWithCleanup(client, ctx,
					api.NewIdeaPayload().
						WithTitle(title).
						WithDescription("Описание на идеята").
						Build())

				ideas, err := client.ListIdeas(ctx)
				Expect(err).NotTo(HaveOccurred())

				idea := api.FindIdea(ideas, ideaID)
				Expect(idea).NotTo(BeNil())
				Expect(idea.Title).To(Equal(title))
			})
		})

		Describe("Given only the title is missing", func() {
			It("should reject the idea", func() {
				_, err := client.CreateIdea(ctx, api.NewIdeaPayload().WithTitle("").Build())
				Expect(api.StatusCode(err)).To(Equal(http.StatusBadRequest))
			})
		})

		Describe("Given only the description is missing", func() {
			It("should reject the idea", func() {
				_, err := client.CreateIdea(ctx, api.NewIdeaPayload().WithDescription("").Build())
				Expect(api.StatusCode(err)).To(Equal(http.StatusBadRequest))
			})
		})

		Describe("Given a long description", func() {
			It("should accept the idea", func() {
				ideaID := api.CreateIdeaWithCleanup(client, ctx,
					api.NewIdeaPayload().
						WithDescription(strings.Repeat("idea ", 200)).
						Build())
				Expect(ideaID).NotTo(BeEmpty())
			})
		})
	})
})

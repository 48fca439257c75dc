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
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ideacenter/apitests/pkg/openapi"
	"github.com/ideacenter/apitests/test/api"
)

// Scenarios run in order, the idea created first is the one edited and
// deleted later.  A failure does not stop the remaining scenarios, those
// that need the captured idea skip instead.  Serial keeps other specs from
// creating ideas between the create and list scenarios.
var _ = Describe("Idea Management", Ordered, Serial, ContinueOnFailure, func() {
	var (
		// createdTitle identifies the idea created by the first scenario.
		createdTitle string

		// ideaID is captured by listing and consumed by edit and delete.
		ideaID string
	)

	requireCapturedIdea := func() {
		if ideaID == "" {
			Skip("no idea was captured by the listing scenario")
		}
	}

	Context("When creating a new idea", func() {
		Describe("Given the required fields", func() {
			It("should successfully create the idea", func() {
				payload := api.NewIdeaPayload().Build()

				created, err := client.CreateIdea(ctx, payload)
				Expect(err).NotTo(HaveOccurred())
				Expect(created.Msg).To(Equal("Successfully created!"))

				createdTitle = payload.Title
			})
		})
	})

	Context("When listing ideas", func() {
		Describe("Given an idea was just created", func() {
			It("should return the new idea as the last entry", func() {
				latest := api.LatestIdea(client, ctx)

				if createdTitle != "" {
					Expect(latest.Title).To(Equal(createdTitle))
				}

				ideaID = latest.Id
			})
		})
	})

	Context("When editing an idea", func() {
		Describe("Given the idea exists", func() {
			It("should successfully edit the idea", func() {
				requireCapturedIdea()

				edited, err := client.EditIdea(ctx, ideaID,
					api.NewIdeaPayload().
						WithTitle("Edited Title").
						WithDescription("edited description").
						Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(edited.Msg).To(Equal("Edited successfully"))
			})
		})
	})

	Context("When deleting an idea", func() {
		Describe("Given the idea exists", func() {
			It("should successfully delete the idea", func() {
				requireCapturedIdea()

				resp, err := client.Delete(ctx, api.NewEndpoints().DeleteIdea(), url.Values{openapi.IdeaIDParameter: []string{ideaID}})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(string(resp.Body)).To(ContainSubstring("The idea is deleted!"))
			})
		})
	})

	Context("When creating an idea without the required fields", func() {
		It("should reject the idea", func() {
			_, err := client.CreateIdea(ctx,
				api.NewIdeaPayload().
					WithTitle("").
					WithDescription("").
					WithoutURL().
					Build())
			Expect(err).To(HaveOccurred())
			Expect(api.StatusCode(err)).To(Equal(http.StatusBadRequest))
		})
	})

	Context("When editing an idea that does not exist", func() {
		It("should return a not found error", func() {
			_, err := client.EditIdea(ctx, "123422",
				api.NewIdeaPayload().
					WithTitle("Edited Title").
					WithDescription("Edited Description").
					WithoutURL().
					Build())
			Expect(err).To(HaveOccurred())
			Expect(api.StatusCode(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(ContainSubstring("There is no such idea!"))
		})
	})

	Context("When deleting an idea that does not exist", func() {
		It("should return a not found error", func() {
			_, err := client.DeleteIdea(ctx, "123455")
			Expect(err).To(HaveOccurred())
			Expect(api.StatusCode(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(ContainSubstring("There is no such idea!"))
		})
	})
})

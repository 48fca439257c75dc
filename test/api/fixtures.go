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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ideacenter/apitests/pkg/openapi"
)

// LatestIdea lists the caller's ideas and returns the last one, which is the
// most recently created.
func LatestIdea(client *APIClient, ctx context.Context) openapi.IdeaRead {
	ideas, err := client.ListIdeas(ctx)
	Expect(err).NotTo(HaveOccurred())
	Expect(ideas).NotTo(BeEmpty())

	latest := ideas[len(ideas)-1]
	Expect(latest.Id).NotTo(BeEmpty())

	return latest
}

// CreateIdeaWithCleanup creates an idea, resolves its ID and schedules
// automatic deletion.
func CreateIdeaWithCleanup(client *APIClient, ctx context.Context, payload *openapi.IdeaWrite) string {
	_, err := client.CreateIdea(ctx, payload)
	Expect(err).NotTo(HaveOccurred())

	ideaID := LatestIdea(client, ctx).Id

	GinkgoWriter.Printf("Created idea with ID: %s\n", ideaID)

	// Schedule cleanup - this runs whether the test passes or fails so we don't need to clean up manually
	DeferCleanup(func() {
		_, deleteErr := client.DeleteIdea(ctx, ideaID)

		switch {
		case deleteErr == nil:
			GinkgoWriter.Printf("Successfully deleted idea: %s\n", ideaID)
		case StatusCode(deleteErr) == http.StatusBadRequest:
			// Already deleted by the test.
		default:
			GinkgoWriter.Printf("Warning: Failed to delete idea %s: %v\n", ideaID, deleteErr)
		}
	})

	return ideaID
}

// FindIdea returns the idea with the given ID from a list, or nil.
func FindIdea(ideas openapi.IdeaList, ideaID string) *openapi.IdeaRead {
	for i := range ideas {
		if ideas[i].Id == ideaID {
			return &ideas[i]
		}
	}

	return nil
}

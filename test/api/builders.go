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
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/ideacenter/apitests/pkg/openapi"

	"k8s.io/utils/ptr"
)

func generateRandomName(prefix string) string {
	bytes := make([]byte, 4) // 8 hex characters
	_, _ = rand.Read(bytes)

	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(bytes))
}

func GenerateTestID() string {
	return generateRandomName("test")
}

// IdeaPayloadBuilder builds idea payloads for testing.
type IdeaPayloadBuilder struct {
	payload openapi.IdeaWrite
}

// NewIdeaPayload creates a valid idea payload with a unique title.
func NewIdeaPayload() *IdeaPayloadBuilder {
	return &IdeaPayloadBuilder{
		payload: openapi.IdeaWrite{
			Title:       "Test Idea " + GenerateTestID(),
			Description: "This is a test idea description",
			Url:         ptr.To(""),
		},
	}
}

// WithTitle sets the idea title.
func (b *IdeaPayloadBuilder) WithTitle(title string) *IdeaPayloadBuilder {
	b.payload.Title = title
	return b
}

// WithDescription sets the idea description.
func (b *IdeaPayloadBuilder) WithDescription(description string) *IdeaPayloadBuilder {
	b.payload.Description = description
	return b
}

// WithURL sets the optional idea URL.
func (b *IdeaPayloadBuilder) WithURL(url string) *IdeaPayloadBuilder {
	b.payload.Url = ptr.To(url)
	return b
}

// WithoutURL sends the URL as null.
func (b *IdeaPayloadBuilder) WithoutURL() *IdeaPayloadBuilder {
	b.payload.Url = nil
	return b
}

// Build returns a copy of the completed payload.
func (b *IdeaPayloadBuilder) Build() *openapi.IdeaWrite {
	payload := b.payload

	if payload.Url != nil {
		payload.Url = ptr.To(*payload.Url)
	}

	return &payload
}

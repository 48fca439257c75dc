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

//nolint:revive
package openapi

// IdeaWrite is the request body for creating and editing ideas.
type IdeaWrite struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Url         *string `json:"url"`
}

// IdeaRead is an idea as returned by the list endpoint.
type IdeaRead struct {
	Id          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Url         *string `json:"url,omitempty"`
}

// IdeaList is the response body of the list endpoint, ordered by creation.
type IdeaList []IdeaRead

// MessageResponse is the generic acknowledgement returned by mutating
// endpoints.
type MessageResponse struct {
	Id   string    `json:"id,omitempty"`
	Msg  string    `json:"msg"`
	Idea *IdeaRead `json:"idea,omitempty"`
}

// LoginRequest is the body of the authentication endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	AccessToken string `json:"accessToken"`
}

// ValidationProblem is returned when a request fails schema or model
// validation.
type ValidationProblem struct {
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// IdeaIDParameter is the query parameter selecting an idea.
const IdeaIDParameter = "ideaId"

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

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Authentication endpoints.
func (e *Endpoints) Authenticate() string {
	return "/api/User/Authentication"
}

// Idea management endpoints, the idea is selected with the ideaId query
// parameter rather than the path.
func (e *Endpoints) CreateIdea() string {
	return "/api/Idea/Create"
}

func (e *Endpoints) ListIdeas() string {
	return "/api/Idea/All"
}

func (e *Endpoints) EditIdea() string {
	return "/api/Idea/Edit"
}

func (e *Endpoints) DeleteIdea() string {
	return "/api/Idea/Delete"
}

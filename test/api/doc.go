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

// Package api provides end-to-end test utilities for the Idea Center API.
//
// # Separate Client Implementation
//
// The client here is written by hand against the documented endpoints
// rather than generated.  Any change to the API contract then needs a
// matching change in this package, which makes API evolution explicit and
// reviewable.
//
// The client includes features tailored for end-to-end testing:
//   - W3C trace context propagation for request correlation
//   - Detailed error logging with trace IDs for debugging
//   - A pre-issued bearer token or a login with credentials
//   - Direct access to HTTP status codes and response bodies
//
// # Running
//
// With API_BASE_URL set the suites run against that deployment using
// API_AUTH_TOKEN, or API_LOGIN_EMAIL and API_LOGIN_PASSWORD.  Without it the
// reference server from pkg/server is started in process.
package api

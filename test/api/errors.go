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
	"errors"
	"fmt"
)

// ErrAuthentication is raised when a bearer token cannot be obtained.
var ErrAuthentication = errors.New("authentication failed")

// StatusError is returned by typed helpers when the API responds with a
// status other than the one expected.
type StatusError struct {
	Method     string
	Path       string
	Expected   int
	StatusCode int
	Body       string
	TraceID    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code: expected %d, got %d, body: %s (trace ID: %s)", e.Method, e.Path, e.Expected, e.StatusCode, e.Body, e.TraceID)
}

// StatusCode returns the HTTP status carried by a StatusError anywhere in
// the chain, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError

	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}

	return 0
}

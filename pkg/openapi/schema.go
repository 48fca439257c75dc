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

package openapi

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

var (
	// ErrRouteNotFound is raised when a request doesn't match any documented
	// operation.
	ErrRouteNotFound = errors.New("route not found")

	// ErrMethodNotAllowed is raised when the path exists but the method does not.
	ErrMethodNotAllowed = errors.New("method not allowed")
)

//go:embed ideacenter.yaml
var specification []byte

//nolint:gochecknoglobals
var (
	schemaOnce sync.Once
	schema     *openapi3.T
	schemaErr  error
)

// Specification returns the raw OpenAPI document.
func Specification() []byte {
	return specification
}

// Schema loads and validates the embedded OpenAPI document.  The result is
// cached after the first call.
func Schema() (*openapi3.T, error) {
	schemaOnce.Do(func() {
		loader := openapi3.NewLoader()

		doc, err := loader.LoadFromData(specification)
		if err != nil {
			schemaErr = fmt.Errorf("loading schema: %w", err)
			return
		}

		if err := doc.Validate(loader.Context); err != nil {
			schemaErr = fmt.Errorf("validating schema: %w", err)
			return
		}

		schema = doc
	})

	return schema, schemaErr
}

// Validator checks HTTP requests against the API schema.
type Validator struct {
	router routers.Router
}

// NewValidator returns a validator for the embedded schema.
func NewValidator() (*Validator, error) {
	doc, err := Schema()
	if err != nil {
		return nil, err
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("building schema router: %w", err)
	}

	return &Validator{
		router: router,
	}, nil
}

// ValidateRequest checks the request parameters and body, every failure is
// reported as an openapi3.MultiError.  Authentication is
// not checked here, that is left to the bearer token middleware.  The request
// body remains readable afterwards.
func (v *Validator) ValidateRequest(ctx context.Context, r *http.Request) error {
	route, pathParams, err := v.router.FindRoute(r)
	if err != nil {
		if errors.Is(err, routers.ErrMethodNotAllowed) {
			return fmt.Errorf("%w: %s %s", ErrMethodNotAllowed, r.Method, r.URL.Path)
		}

		return fmt.Errorf("%w: %s %s", ErrRouteNotFound, r.Method, r.URL.Path)
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			MultiError:         true,
		},
	}

	if err := openapi3filter.ValidateRequest(ctx, input); err != nil {
		return err
	}

	return nil
}

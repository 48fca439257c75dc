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

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"

	"github.com/ideacenter/apitests/pkg/openapi"
)

const validationTitle = "One or more validation errors occurred."

func writeJSONResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	// The status is already on the wire, nothing useful can be done on error.
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSONResponse(w, status, &openapi.MessageResponse{
		Msg: message,
	})
}

// validationField names the offending field of a validation error as best
// it can, falling back to the request as a whole.
func validationField(err error) string {
	var requestErr *openapi3filter.RequestError

	if errors.As(err, &requestErr) && requestErr.Parameter != nil {
		return requestErr.Parameter.Name
	}

	var schemaErr *openapi3.SchemaError

	if errors.As(err, &schemaErr) {
		if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			return strings.Join(pointer, ".")
		}
	}

	return "request"
}

// collectValidationErrors flattens multiple validation errors so every
// offending field is reported.
//
//nolint:errorlint
func collectValidationErrors(fields map[string][]string, err error) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, child := range e {
			collectValidationErrors(fields, child)
		}

		return
	case *openapi3filter.RequestError:
		if multi, ok := e.Err.(openapi3.MultiError); ok && e.Parameter == nil {
			collectValidationErrors(fields, multi)
			return
		}
	}

	field := validationField(err)
	fields[field] = append(fields[field], err.Error())
}

func writeValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, openapi.ErrRouteNotFound):
		writeMessage(w, http.StatusNotFound, "Not Found")
		return
	case errors.Is(err, openapi.ErrMethodNotAllowed):
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	fields := map[string][]string{}

	collectValidationErrors(fields, err)

	writeJSONResponse(w, http.StatusBadRequest, &openapi.ValidationProblem{
		Title:  validationTitle,
		Status: http.StatusBadRequest,
		Errors: fields,
	})
}

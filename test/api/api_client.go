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

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"

	"github.com/ideacenter/apitests/pkg/constants"
	"github.com/ideacenter/apitests/pkg/openapi"
)

//go:generate mockgen -source=api_client.go -destination=mock/doer.go -package=mock

// Doer performs HTTP requests, it is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is the raw result of a request.
type Response struct {
	StatusCode  int
	Body        []byte
	TraceParent string
}

// TraceID is the W3C trace ID the request was sent with.
func (r *Response) TraceID() string {
	return extractTraceID(r.TraceParent)
}

type APIClient struct {
	baseURL   string
	client    Doer
	authToken string
	config    *TestConfig
	endpoints *Endpoints
}

func NewAPIClientWithConfig(config *TestConfig) *APIClient {
	return NewAPIClientWithDoer(config, &http.Client{
		Timeout: config.RequestTimeout,
	})
}

// NewAPIClientWithDoer creates a client that sends requests via the given doer.
func NewAPIClientWithDoer(config *TestConfig, doer Doer) *APIClient {
	return &APIClient{
		baseURL:   strings.TrimSuffix(config.BaseURL, "/"),
		client:    doer,
		authToken: config.AuthToken,
		config:    config,
		endpoints: NewEndpoints(),
	}
}

func (c *APIClient) SetAuthToken(token string) {
	c.authToken = token
}

func (c *APIClient) AuthToken() string {
	return c.authToken
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections held by the underlying transport.
func (c *APIClient) Close() {
	if closer, ok := c.client.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s traceparent=%s error=%v\n", method, path, context, duration, traceParent, err)
	c.logTraceContext(traceParent)
}

// logUnexpectedStatus logs an unexpected HTTP status code.
func (c *APIClient) logUnexpectedStatus(method, path string, expectedStatus, actualStatus int, body, traceParent string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] UNEXPECTED STATUS expected=%d got=%d body=%s traceparent=%s\n", method, path, expectedStatus, actualStatus, body, traceParent)
	c.logTraceContext(traceParent)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID.
// we are using this to create a new trace ID for each request so if an error occurs we can find the request in the logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// Do sends a single request, there are no retries.  A nil body sends no
// payload, anything else is encoded as JSON.  The response is returned
// whatever the status code.
func (c *APIClient) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("User-Agent", constants.VersionString())
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(method, path, duration, traceParent, err, "http request failed")
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(method, path, duration, traceParent, err, "reading response body")
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.config.LogRequests {
		ginkgo.GinkgoWriter.Printf("[%s %s] status=%d duration=%s traceparent=%s\n", method, path, resp.StatusCode, duration, traceParent)
	}

	if c.config.LogResponses && len(respBody) > 0 {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", method, path, string(respBody))
	}

	response := &Response{
		StatusCode:  resp.StatusCode,
		Body:        respBody,
		TraceParent: traceParent,
	}

	return response, nil
}

func (c *APIClient) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

func (c *APIClient) Post(ctx context.Context, path string, query url.Values, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, query, body)
}

func (c *APIClient) Put(ctx context.Context, path string, query url.Values, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, query, body)
}

func (c *APIClient) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, query, nil)
}

// expect checks the response status and logs the response on mismatch.
func (c *APIClient) expect(method, path string, resp *Response, expectedStatus int) error {
	if resp.StatusCode == expectedStatus {
		return nil
	}

	c.logUnexpectedStatus(method, path, expectedStatus, resp.StatusCode, string(resp.Body), resp.TraceParent)

	return &StatusError{
		Method:     method,
		Path:       path,
		Expected:   expectedStatus,
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
		TraceID:    resp.TraceID(),
	}
}

// decodeMessage decodes an acknowledgement.  Some deployments answer with a
// bare JSON string rather than an object, that becomes the message.
func decodeMessage(body []byte) (*openapi.MessageResponse, error) {
	var message openapi.MessageResponse

	if err := json.Unmarshal(body, &message); err == nil {
		return &message, nil
	}

	var text string

	if err := json.Unmarshal(body, &text); err != nil {
		return nil, fmt.Errorf("unmarshaling message response: %w", err)
	}

	return &openapi.MessageResponse{Msg: text}, nil
}

func ideaQuery(ideaID string) url.Values {
	return url.Values{
		openapi.IdeaIDParameter: []string{ideaID},
	}
}

// Authenticate exchanges credentials for an access token.  The request is
// sent without any bearer token already set on the client.
func (c *APIClient) Authenticate(ctx context.Context, email, password string) (string, error) {
	path := c.endpoints.Authenticate()

	anonymous := *c
	anonymous.authToken = ""

	resp, err := anonymous.Post(ctx, path, nil, &openapi.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	if err := c.expect(http.MethodPost, path, resp, http.StatusOK); err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	var login openapi.LoginResponse

	if err := json.Unmarshal(resp.Body, &login); err != nil {
		return "", fmt.Errorf("%w: unmarshaling login response: %w", ErrAuthentication, err)
	}

	if strings.TrimSpace(login.AccessToken) == "" {
		return "", fmt.Errorf("%w: response did not contain an access token", ErrAuthentication)
	}

	return login.AccessToken, nil
}

// CreateIdea creates a new idea.
func (c *APIClient) CreateIdea(ctx context.Context, idea *openapi.IdeaWrite) (*openapi.MessageResponse, error) {
	path := c.endpoints.CreateIdea()

	resp, err := c.Post(ctx, path, nil, idea)
	if err != nil {
		return nil, fmt.Errorf("creating idea: %w", err)
	}

	if err := c.expect(http.MethodPost, path, resp, http.StatusOK); err != nil {
		return nil, fmt.Errorf("creating idea: %w", err)
	}

	return decodeMessage(resp.Body)
}

// ListIdeas lists the caller's ideas, oldest first.
func (c *APIClient) ListIdeas(ctx context.Context) (openapi.IdeaList, error) {
	path := c.endpoints.ListIdeas()

	resp, err := c.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing ideas: %w", err)
	}

	if err := c.expect(http.MethodGet, path, resp, http.StatusOK); err != nil {
		return nil, fmt.Errorf("listing ideas: %w", err)
	}

	var ideas openapi.IdeaList

	if err := json.Unmarshal(resp.Body, &ideas); err != nil {
		return nil, fmt.Errorf("unmarshaling ideas response: %w", err)
	}

	return ideas, nil
}

// EditIdea replaces an idea.
func (c *APIClient) EditIdea(ctx context.Context, ideaID string, idea *openapi.IdeaWrite) (*openapi.MessageResponse, error) {
	path := c.endpoints.EditIdea()

	resp, err := c.Put(ctx, path, ideaQuery(ideaID), idea)
	if err != nil {
		return nil, fmt.Errorf("editing idea: %w", err)
	}

	if err := c.expect(http.MethodPut, path, resp, http.StatusOK); err != nil {
		return nil, fmt.Errorf("editing idea '%s': %w", ideaID, err)
	}

	return decodeMessage(resp.Body)
}

// DeleteIdea deletes an idea.
func (c *APIClient) DeleteIdea(ctx context.Context, ideaID string) (*openapi.MessageResponse, error) {
	path := c.endpoints.DeleteIdea()

	resp, err := c.Delete(ctx, path, ideaQuery(ideaID))
	if err != nil {
		return nil, fmt.Errorf("deleting idea: %w", err)
	}

	if err := c.expect(http.MethodDelete, path, resp, http.StatusOK); err != nil {
		return nil, fmt.Errorf("deleting idea '%s': %w", ideaID, err)
	}

	return decodeMessage(resp.Body)
}

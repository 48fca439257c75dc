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

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"github.com/ideacenter/apitests/pkg/managers/idea"
	"github.com/ideacenter/apitests/pkg/server/auth"
	"github.com/ideacenter/apitests/pkg/server/handler"
)

// shutdownTimeout bounds how long in-flight requests get on exit.
const shutdownTimeout = 5 * time.Second

// Server is an in-memory Idea Center implementation.
type Server struct {
	options *Options
	handler http.Handler
	logger  logr.Logger
}

// New builds the server from options.
func New(options *Options, logger logr.Logger) (*Server, error) {
	users, err := ParseUsers(options.Users)
	if err != nil {
		return nil, err
	}

	issuer, err := auth.NewIssuer(options.SigningKey, options.TokenLifetime)
	if err != nil {
		return nil, err
	}

	h, err := handler.New(idea.New(), issuer, users, logger.WithName("handler"))
	if err != nil {
		return nil, err
	}

	s := &Server{
		options: options,
		handler: h.Routes(),
		logger:  logger,
	}

	return s, nil
}

// Handler returns the HTTP handler, this is used to host the server in
// process with httptest.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.options.ListenAddress,
		ReadTimeout:       s.options.ReadTimeout,
		ReadHeaderTimeout: s.options.ReadHeaderTimeout,
		WriteTimeout:      s.options.WriteTimeout,
		Handler:           s.handler,
	}

	errs := make(chan error, 1)

	go func() {
		s.logger.Info("server listening", "address", s.options.ListenAddress)

		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}

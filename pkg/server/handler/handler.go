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
package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"

	"github.com/ideacenter/apitests/pkg/managers/idea"
	"github.com/ideacenter/apitests/pkg/openapi"
	"github.com/ideacenter/apitests/pkg/server/auth"
)

const (
	MessageCreated      = "Successfully created!"
	MessageEdited       = "Edited successfully"
	MessageDeleted      = "The idea is deleted!"
	MessageNotFound     = "There is no such idea!"
	MessageUnauthorized = "Unauthorized"
	MessageBadLogin     = "Invalid email or password!"
)

// User is an account able to log in.
type User struct {
	ID       string
	Email    string
	UserName string
	Password string
}

type claimsKeyType int

//nolint:gochecknoglobals
var claimsKey claimsKeyType

type Handler struct {
	// ideas stores ideas per user.
	ideas *idea.Manager

	// issuer mints and checks bearer tokens.
	issuer *auth.Issuer

	// users are keyed by lower cased email address.
	users map[string]*User

	// validator checks requests against the API schema.
	validator *openapi.Validator

	logger logr.Logger
}

func New(ideas *idea.Manager, issuer *auth.Issuer, users []User, logger logr.Logger) (*Handler, error) {
	validator, err := openapi.NewValidator()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		ideas:     ideas,
		issuer:    issuer,
		users:     map[string]*User{},
		validator: validator,
		logger:    logger,
	}

	for i := range users {
		h.users[strings.ToLower(users[i].Email)] = &users[i]
	}

	return h, nil
}

// Routes returns the HTTP router for the API.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not Found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.With(h.validate).Post("/api/User/Authentication", h.PostApiUserAuthentication)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)
		r.Use(h.validate)

		r.Post("/api/Idea/Create", h.PostApiIdeaCreate)
		r.Get("/api/Idea/All", h.GetApiIdeaAll)
		r.Put("/api/Idea/Edit", h.PutApiIdeaEdit)
		r.Delete("/api/Idea/Delete", h.DeleteApiIdeaDelete)
	})

	return r
}

func (h *Handler) setUncacheable(w http.ResponseWriter) {
	w.Header().Add("Cache-Control", "no-cache")
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.V(1).Info("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start), "requestID", middleware.GetReqID(r.Context()), "traceparent", r.Header.Get("Traceparent"))
	})
}

func (h *Handler) validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.validator.ValidateRequest(r.Context(), r); err != nil {
			h.logger.V(1).Info("request validation failed", "path", r.URL.Path, "error", err.Error())
			writeValidationError(w, err)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			writeMessage(w, http.StatusUnauthorized, MessageUnauthorized)
			return
		}

		claims, err := h.issuer.Verify(token)
		if err != nil {
			h.logger.V(1).Info("token rejected", "error", err.Error())
			writeMessage(w, http.StatusUnauthorized, MessageUnauthorized)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func ownerFromContext(ctx context.Context) string {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	if !ok {
		return ""
	}

	return claims.UserID
}

func (h *Handler) PostApiUserAuthentication(w http.ResponseWriter, r *http.Request) {
	var request openapi.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeValidationError(w, err)
		return
	}

	user, ok := h.users[strings.ToLower(request.Email)]
	if !ok || subtle.ConstantTimeCompare([]byte(user.Password), []byte(request.Password)) != 1 {
		writeMessage(w, http.StatusUnauthorized, MessageBadLogin)
		return
	}

	token, _, err := h.issuer.Issue(user.ID, user.Email, user.UserName)
	if err != nil {
		h.logger.Error(err, "unable to issue token", "email", user.Email)
		writeMessage(w, http.StatusInternalServerError, "unable to issue token")

		return
	}

	h.setUncacheable(w)
	writeJSONResponse(w, http.StatusOK, &openapi.LoginResponse{
		Username:    user.UserName,
		Email:       user.Email,
		AccessToken: token,
	})
}

func (h *Handler) PostApiIdeaCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request openapi.IdeaWrite

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.ideas.Create(ctx, ownerFromContext(ctx), &request)
	if err != nil {
		h.handleIdeaError(w, err)
		return
	}

	read := result.Convert()

	h.setUncacheable(w)
	writeJSONResponse(w, http.StatusOK, &openapi.MessageResponse{
		Msg:  MessageCreated,
		Idea: &read,
	})
}

func (h *Handler) GetApiIdeaAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ideas := h.ideas.List(ctx, ownerFromContext(ctx))

	result := make(openapi.IdeaList, len(ideas))

	for i := range ideas {
		result[i] = ideas[i].Convert()
	}

	h.setUncacheable(w)
	writeJSONResponse(w, http.StatusOK, result)
}

func (h *Handler) PutApiIdeaEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request openapi.IdeaWrite

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeValidationError(w, err)
		return
	}

	ideaID := r.URL.Query().Get(openapi.IdeaIDParameter)

	if _, err := h.ideas.Update(ctx, ownerFromContext(ctx), ideaID, &request); err != nil {
		h.handleIdeaError(w, err)
		return
	}

	h.setUncacheable(w)
	writeMessage(w, http.StatusOK, MessageEdited)
}

func (h *Handler) DeleteApiIdeaDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ideaID := r.URL.Query().Get(openapi.IdeaIDParameter)

	if err := h.ideas.Delete(ctx, ownerFromContext(ctx), ideaID); err != nil {
		h.handleIdeaError(w, err)
		return
	}

	h.setUncacheable(w)
	writeMessage(w, http.StatusOK, MessageDeleted)
}

func (h *Handler) handleIdeaError(w http.ResponseWriter, err error) {
	var verr *idea.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSONResponse(w, http.StatusBadRequest, &openapi.ValidationProblem{
			Title:  validationTitle,
			Status: http.StatusBadRequest,
			Errors: verr.Fields,
		})
	case errors.Is(err, idea.ErrNotFound):
		writeMessage(w, http.StatusBadRequest, MessageNotFound)
	default:
		h.logger.Error(err, "unhandled idea error")
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

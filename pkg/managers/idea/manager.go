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

package idea

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ideacenter/apitests/pkg/openapi"
)

var (
	// ErrNotFound is raised when the idea doesn't exist for the owner.
	ErrNotFound = errors.New("idea not found")

	// ErrValidation is raised when an idea is missing required fields.
	ErrValidation = errors.New("idea failed validation")
)

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))

	for field := range e.Fields {
		fields = append(fields, field)
	}

	slices.Sort(fields)

	return "invalid fields: " + strings.Join(fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Idea is a stored idea.
type Idea struct {
	ID           string
	Owner        string
	Title        string
	Description  string
	URL          *string
	CreationTime time.Time
}

// Convert returns the API representation.
func (i *Idea) Convert() openapi.IdeaRead {
	out := openapi.IdeaRead{
		Id:          i.ID,
		Title:       i.Title,
		Description: i.Description,
	}

	if i.URL != nil {
		url := *i.URL
		out.Url = &url
	}

	return out
}

// Manager owns the lifecycle of ideas.  Ideas are scoped to their owner and
// kept in creation order.
type Manager struct {
	lock  sync.RWMutex
	ideas map[string][]*Idea
}

// New returns an empty manager.
func New() *Manager {
	return &Manager{
		ideas: map[string][]*Idea{},
	}
}

// Validate checks that required fields are present.
func Validate(in *openapi.IdeaWrite) error {
	fields := map[string][]string{}

	if strings.TrimSpace(in.Title) == "" {
		fields["Title"] = append(fields["Title"], "The Title field is required.")
	}

	if strings.TrimSpace(in.Description) == "" {
		fields["Description"] = append(fields["Description"], "The Description field is required.")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

func copyURL(url *string) *string {
	if url == nil {
		return nil
	}

	out := *url

	return &out
}

// Create stores a new idea for the owner.  The result is a copy, the stored
// idea is only touched with the lock held.
func (m *Manager) Create(ctx context.Context, owner string, in *openapi.IdeaWrite) (*Idea, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	idea := &Idea{
		ID:           uuid.NewString(),
		Owner:        owner,
		Title:        in.Title,
		Description:  in.Description,
		URL:          copyURL(in.Url),
		CreationTime: time.Now(),
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.ideas[owner] = append(m.ideas[owner], idea)

	result := *idea

	return &result, nil
}

// List returns all of the owner's ideas, oldest first.
func (m *Manager) List(ctx context.Context, owner string) []Idea {
	m.lock.RLock()
	defer m.lock.RUnlock()

	out := make([]Idea, 0, len(m.ideas[owner]))

	for _, idea := range m.ideas[owner] {
		out = append(out, *idea)
	}

	return out
}

// find returns the index of the idea, the caller must hold the lock.
func (m *Manager) find(owner, id string) int {
	return slices.IndexFunc(m.ideas[owner], func(idea *Idea) bool {
		return idea.ID == id
	})
}

// Update replaces the mutable fields of an idea and returns a copy.
func (m *Manager) Update(ctx context.Context, owner, id string, in *openapi.IdeaWrite) (*Idea, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	index := m.find(owner, id)
	if index < 0 {
		return nil, ErrNotFound
	}

	idea := m.ideas[owner][index]
	idea.Title = in.Title
	idea.Description = in.Description
	idea.URL = copyURL(in.Url)

	result := *idea

	return &result, nil
}

// Delete removes an idea.
func (m *Manager) Delete(ctx context.Context, owner, id string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	index := m.find(owner, id)
	if index < 0 {
		return ErrNotFound
	}

	m.ideas[owner] = slices.Delete(m.ideas[owner], index, index+1)

	return nil
}

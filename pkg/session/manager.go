// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package session

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gitlab.com/tozd/go/errors"
)

// ErrNotFound is returned for an unknown session ID
var ErrNotFound = errors.Base("session not found")

// Info is a summary of a session for listings
type Info struct {
	ID       string    `json:"id"`
	Created  time.Time `json:"created"`
	Document string    `json:"document,omitempty"`
	Rules    int       `json:"rules"`
}

// 🗃️ Manager keeps sessions by ID. It is safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	newID    func() string
}

// NewManager creates an empty manager using random UUIDs
func NewManager() *Manager {
	return NewManagerWithIDFunc(uuid.NewString)
}

// NewManagerWithIDFunc creates an empty manager with a custom ID generator
func NewManagerWithIDFunc(newID func() string) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		newID:    newID,
	}
}

// Create starts a new session
func (m *Manager) Create() *Session {
	s := New(m.newID())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

// Get returns the session with id
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Delete removes the session with id
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return errors.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

// List returns a summary of every session, oldest first
func (m *Manager) List() []Info {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	infos := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		name, _, _ := s.Document()
		infos = append(infos, Info{
			ID:       s.ID,
			Created:  s.Created,
			Document: name,
			Rules:    len(s.Rows()),
		})
	}
	slices.SortFunc(infos, func(a, b Info) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return infos
}

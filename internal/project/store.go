// Package project persists named snapshots of a chat session (files, assets,
// transcript) and tracks the single "current project" pointer. The whole
// history lives as one JSON document behind a Persister; every mutating call
// persists immediately.
package project

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"genweb/internal/model"
)

// Persister stores and retrieves the serialized project history. Load
// returns (nil, nil) when nothing has been stored yet.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
}

// historyDoc is the persisted document shape.
type historyDoc struct {
	Projects         []model.Project `json:"projects"`
	CurrentProjectID string          `json:"currentProjectId"`
}

// State is the caller-owned session state a project loads into.
type State struct {
	Files  model.FileSet
	Assets []model.Asset
}

// Store holds the project list plus the current pointer. At most one project
// is current at a time. Safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	persister Persister
	projects  []model.Project
	currentID string
}

// NewStore loads the persisted history. A missing or corrupt payload
// degrades to an empty history instead of failing.
func NewStore(ctx context.Context, persister Persister) *Store {
	s := &Store{persister: persister}

	raw, err := persister.Load(ctx)
	if err != nil {
		log.Printf("load project history failed: %v", err)
		return s
	}
	if len(raw) == 0 {
		return s
	}

	var doc historyDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Printf("decode project history failed, starting empty: %v", err)
		return s
	}
	s.projects = doc.Projects
	s.currentID = doc.CurrentProjectID
	return s
}

// Create appends a new empty project, makes it current and persists. An
// empty name falls back to "Project N".
func (s *Store) Create(ctx context.Context, name string) *model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(ctx, name)
}

func (s *Store) createLocked(ctx context.Context, name string) *model.Project {
	if name == "" {
		name = fmt.Sprintf("Project %d", len(s.projects)+1)
	}
	now := time.Now()
	p := model.Project{
		ID:          uuid.NewString(),
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
		Files:       model.FileSet{},
		Assets:      []model.Asset{},
		ChatHistory: []model.Message{},
	}
	s.projects = append(s.projects, p)
	s.currentID = p.ID
	s.persist(ctx)

	out := p.Clone()
	return &out
}

// Update snapshots the given session state into the current project,
// creating one first (named fallbackName) if nothing is current. Snapshots
// are copied so later caller mutation cannot reach the stored project.
// Returns nil only if the implicit create could not produce a project.
func (s *Store) Update(ctx context.Context, fallbackName string, files model.FileSet, assets []model.Asset, history []model.Message) *model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == "" {
		s.createLocked(ctx, fallbackName)
	}
	p := s.find(s.currentID)
	if p == nil {
		return nil
	}

	if fallbackName != "" {
		p.Name = fallbackName
	}
	p.UpdatedAt = time.Now()
	p.Files = files.Clone()
	p.Assets = append([]model.Asset(nil), assets...)
	p.ChatHistory = append([]model.Message(nil), history...)
	s.persist(ctx)

	out := p.Clone()
	return &out
}

// Load makes the project with the given id current and copies its files and
// assets into state. On a miss it returns false and leaves state untouched.
func (s *Store) Load(ctx context.Context, id string, state *State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return false
	}

	s.currentID = id
	state.Files = p.Files.Clone()
	state.Assets = append([]model.Asset(nil), p.Assets...)
	s.persist(ctx)
	return true
}

// Delete removes the project. Deleting the current project clears the
// pointer without selecting a replacement.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.projects {
		if p.ID != id {
			continue
		}
		s.projects = append(s.projects[:i], s.projects[i+1:]...)
		if s.currentID == id {
			s.currentID = ""
		}
		s.persist(ctx)
		return true
	}
	return false
}

// List returns an independent snapshot of all projects.
func (s *Store) List() []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	return out
}

// Current returns a copy of the current project, nil when none is current.
func (s *Store) Current() *model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(s.currentID)
	if p == nil {
		return nil
	}
	out := p.Clone()
	return &out
}

func (s *Store) find(id string) *model.Project {
	if id == "" {
		return nil
	}
	for i := range s.projects {
		if s.projects[i].ID == id {
			return &s.projects[i]
		}
	}
	return nil
}

// persist writes the history document synchronously. Write failures are
// logged and never propagated; in-memory state stays authoritative.
func (s *Store) persist(ctx context.Context) {
	doc := historyDoc{Projects: s.projects, CurrentProjectID: s.currentID}
	payload, err := json.Marshal(doc)
	if err != nil {
		log.Printf("encode project history failed: %v", err)
		return
	}
	if err := s.persister.Save(ctx, payload); err != nil {
		log.Printf("save project history failed: %v", err)
	}
}

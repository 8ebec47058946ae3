// Package asset holds uploaded project resources (images, audio, fonts,
// data files) as base64 records, validated against a size ceiling and an
// extension allow-list.
package asset

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"genweb/internal/model"
)

var (
	ErrNoFile          = errors.New("no file provided")
	ErrTooLarge        = errors.New("asset too large")
	ErrUnsupportedType = errors.New("unsupported asset type")
	ErrReadFailure     = errors.New("failed to read file")
)

// Store keeps uploaded assets for the current session. A rejected upload
// never mutates the store. Safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	maxSize     int64
	allowedExts map[string]bool
	assets      []model.Asset
	byName      map[string]model.Asset
}

func NewStore(maxSize int64, allowedExts []string) *Store {
	allowed := make(map[string]bool, len(allowedExts))
	for _, ext := range allowedExts {
		allowed[strings.ToLower(ext)] = true
	}
	return &Store{
		maxSize:     maxSize,
		allowedExts: allowed,
		byName:      make(map[string]model.Asset),
	}
}

// Upload validates and stores one asset. declaredSize is checked before the
// payload is read; the read size is checked again afterwards in case the
// declaration lied. Name lookups keep the most recent asset per name while
// duplicate names still coexist in the list.
func (s *Store) Upload(name, mimeType string, declaredSize int64, r io.Reader) (*model.Asset, error) {
	if strings.TrimSpace(name) == "" || r == nil {
		return nil, ErrNoFile
	}
	if declaredSize > s.maxSize {
		return nil, fmt.Errorf("%w: maximum size is %dMB", ErrTooLarge, s.maxSize/(1024*1024))
	}
	ext := strings.ToLower(path.Ext(name))
	if !s.allowedExts[ext] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%w: maximum size is %dMB", ErrTooLarge, s.maxSize/(1024*1024))
	}

	a := model.Asset{
		ID:        uuid.NewString(),
		Name:      name,
		MimeType:  mimeType,
		SizeBytes: int64(len(data)),
		Payload:   "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.assets = append(s.assets, a)
	s.byName[a.Name] = a
	s.mu.Unlock()

	return &a, nil
}

// All returns an independent snapshot in upload order.
func (s *Store) All() []model.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Asset(nil), s.assets...)
}

// ByName returns the most recently uploaded asset with the given name.
func (s *Store) ByName(name string) (model.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byName[name]
	return a, ok
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets)
}

// Clear drops every stored asset, used on new-chat/new-project.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = nil
	s.byName = make(map[string]model.Asset)
}

// Restore replaces the store contents with a project snapshot.
func (s *Store) Restore(assets []model.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = append([]model.Asset(nil), assets...)
	s.byName = make(map[string]model.Asset, len(assets))
	for _, a := range s.assets {
		s.byName[a.Name] = a
	}
}

package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ironsheep/region-tools-mcp/internal/selection"
)

// ErrMaskNotFound is returned when a mask id is unknown or was evicted.
var ErrMaskNotFound = errors.New("mask not found")

// MaskStore keeps the selection masks clients are building, keyed by id.
//
// Stored masks are never modified in place: every edit stores a new mask
// under the same id. The store holds at most limit masks and evicts the
// least recently created id when a new one would exceed it.
type MaskStore struct {
	mu    sync.RWMutex
	masks map[string]*storedMask
	order []string
	next  int
	limit int
}

type storedMask struct {
	mask *selection.Mask

	// source is the image path the mask was first derived from.
	source string
}

// NewMaskStore creates an empty store holding at most limit masks.
func NewMaskStore(limit int) *MaskStore {
	if limit < 1 {
		limit = 1
	}
	return &MaskStore{
		masks: make(map[string]*storedMask),
		limit: limit,
	}
}

// Create stores m under a fresh id and returns the id.
func (s *MaskStore) Create(m *selection.Mask, source string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	id := fmt.Sprintf("mask-%d", s.next)
	s.masks[id] = &storedMask{mask: m, source: source}
	s.order = append(s.order, id)

	for len(s.order) > s.limit {
		delete(s.masks, s.order[0])
		s.order = s.order[1:]
	}
	return id
}

// Get returns the mask stored under id and the path of its source image.
func (s *MaskStore) Get(id string) (*selection.Mask, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.masks[id]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrMaskNotFound, id)
	}
	return e.mask, e.source, nil
}

// Replace stores m under an existing id.
func (s *MaskStore) Replace(id string, m *selection.Mask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.masks[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMaskNotFound, id)
	}
	s.masks[id] = &storedMask{mask: m, source: e.source}
	return nil
}

// Delete removes the mask stored under id.
func (s *MaskStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.masks[id]; !ok {
		return fmt.Errorf("%w: %q", ErrMaskNotFound, id)
	}
	delete(s.masks, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of stored masks.
func (s *MaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.masks)
}

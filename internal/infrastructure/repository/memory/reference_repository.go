package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
	"github.com/riskibarqy/sports-crm-import/internal/platform/id"
)

type ReferenceRepository struct {
	mu      sync.RWMutex
	ids     id.Generator
	entries map[string]reference.Entity
}

func NewReferenceRepository(ids id.Generator) *ReferenceRepository {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &ReferenceRepository{ids: ids, entries: make(map[string]reference.Entity)}
}

func referenceKey(kind reference.Kind, name, scopeID string) string {
	return string(kind) + "|" + scopeID + "|" + reference.NameKey(name)
}

func (r *ReferenceRepository) Find(_ context.Context, kind reference.Kind, name, scopeID string) (reference.Entity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.entries[referenceKey(kind, name, scopeID)]
	return item, ok, nil
}

func (r *ReferenceRepository) FindOrCreate(_ context.Context, kind reference.Kind, name, scopeID string) (reference.Entity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return reference.Entity{}, fmt.Errorf("%s name is required", kind)
	}

	key := referenceKey(kind, name, scopeID)
	r.mu.Lock()
	defer r.mu.Unlock()

	if item, ok := r.entries[key]; ok {
		return item, nil
	}
	newID, err := r.ids.NewID()
	if err != nil {
		return reference.Entity{}, fmt.Errorf("generate %s id: %w", kind, err)
	}
	item := reference.Entity{ID: newID, Kind: kind, Name: name, ScopeID: scopeID}
	r.entries[key] = item
	return item, nil
}

// Count returns how many rows of kind exist.
func (r *ReferenceRepository) Count(kind reference.Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, item := range r.entries {
		if item.Kind == kind {
			n++
		}
	}
	return n
}

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/sports-crm-import/internal/domain/contact"
	"github.com/riskibarqy/sports-crm-import/internal/platform/id"
)

type ContactRepository struct {
	mu       sync.RWMutex
	ids      id.Generator
	byKey    map[contact.Key]string
	contacts map[string]contact.Contact
}

func NewContactRepository(ids id.Generator) *ContactRepository {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &ContactRepository{
		ids:      ids,
		byKey:    make(map[contact.Key]string),
		contacts: make(map[string]contact.Contact),
	}
}

func (r *ContactRepository) FindByNameAndTeam(_ context.Context, teamID, name string) (contact.Contact, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contactID, ok := r.byKey[contact.KeyOf(teamID, name)]
	if !ok {
		return contact.Contact{}, false, nil
	}
	return r.contacts[contactID], true, nil
}

func (r *ContactRepository) Create(_ context.Context, item contact.Contact) (contact.Contact, bool, error) {
	if err := item.Validate(); err != nil {
		return contact.Contact{}, false, err
	}

	key := contact.KeyOf(item.TeamID, item.Name)
	r.mu.Lock()
	defer r.mu.Unlock()

	if existingID, ok := r.byKey[key]; ok {
		return r.contacts[existingID], false, nil
	}
	newID, err := r.ids.NewID()
	if err != nil {
		return contact.Contact{}, false, fmt.Errorf("generate contact id: %w", err)
	}
	item.ID = newID
	r.byKey[key] = item.ID
	r.contacts[item.ID] = item
	return item, true, nil
}

func (r *ContactRepository) Update(_ context.Context, patch contact.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.contacts[patch.ContactID]
	if !ok {
		return fmt.Errorf("contact %s not found", patch.ContactID)
	}
	patch.Apply(&item)
	r.contacts[item.ID] = item
	return nil
}

// List returns every stored contact of teamID.
func (r *ContactRepository) List(teamID string) []contact.Contact {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []contact.Contact
	for _, item := range r.contacts {
		if item.TeamID == teamID {
			out = append(out, item)
		}
	}
	return out
}

func (r *ContactRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contacts)
}

package core

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/JonMunkholm/contactimport/internal/contacts"
)

// MemoryStore keeps the collection in process memory. It backs local runs
// and tests; nothing survives a restart.
type MemoryStore struct {
	mu       sync.Mutex
	contacts []contacts.Contact
}

// NewMemoryStore returns a store seeded with a copy of initial.
func NewMemoryStore(initial ...contacts.Contact) *MemoryStore {
	return &MemoryStore{contacts: cloneContacts(initial)}
}

func (m *MemoryStore) List(ctx context.Context) ([]contacts.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneContacts(m.contacts), nil
}

// Update holds the store lock across fn, so updates are serialised.
func (m *MemoryStore) Update(ctx context.Context, fn func([]contacts.Contact) ([]contacts.Contact, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	next, err := fn(cloneContacts(m.contacts))
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.contacts = cloneContacts(next)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// cloneContacts copies the slices and maps inside each contact so callers
// never share mutable state with the store.
func cloneContacts(in []contacts.Contact) []contacts.Contact {
	if in == nil {
		return nil
	}
	out := make([]contacts.Contact, len(in))
	for i, c := range in {
		c.Tags = slices.Clone(c.Tags)
		c.Lists = slices.Clone(c.Lists)
		c.CustomFields = maps.Clone(c.CustomFields)
		out[i] = c
	}
	return out
}

// Package memory provides mutex-guarded in-process implementations of the
// repository interfaces. It backs STORE_DRIVER=memory and the engine tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"docport/internal/model"
	"docport/internal/repository"
)

// Store keeps documents, events and organizations in memory.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	docs   map[string]model.Document
	events []model.DocumentEvent
	orgs   map[string]model.Organization
}

// NewStore creates an empty store seeded with the given organizations.
func NewStore(orgs ...model.Organization) *Store {
	s := &Store{
		docs: make(map[string]model.Document),
		orgs: make(map[string]model.Organization),
	}
	for _, o := range orgs {
		s.orgs[o.ID] = o
	}
	return s
}

var (
	_ repository.DocumentRepository     = (*Store)(nil)
	_ repository.EventRepository        = (*Store)(nil)
	_ repository.OrganizationRepository = organizations{}
)

// Insert stores a copy of doc. A storage key already held by another
// document yields repository.ErrDuplicateKey.
func (s *Store) Insert(_ context.Context, doc *model.Document) (*model.Document, error) {
	d := detachDocument(*doc)
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if d.StorageKey != "" {
		for _, other := range s.docs {
			if other.StorageKey == d.StorageKey {
				return nil, repository.ErrDuplicateKey
			}
		}
	}
	s.docs[d.ID] = d

	out := cloneDocument(d)
	return &out, nil
}

// FindByID returns a copy of the stored document.
func (s *Store) FindByID(_ context.Context, id string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneDocument(d)
	return &out, nil
}

// FindByKey scans for the document owning key.
func (s *Store) FindByKey(_ context.Context, key string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.docs {
		if d.StorageKey == key {
			out := cloneDocument(d)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

// UpdateStatus is a compare-and-set on the status field.
func (s *Store) UpdateStatus(_ context.Context, id string, expected, next model.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[id]
	if !ok {
		return repository.ErrNotFound
	}
	if d.Status != expected {
		return repository.ErrConflict
	}
	d.Status = next
	// Keyed by the stored id: assigning with the caller's string would replace the key.
	s.docs[d.ID] = d
	return nil
}

// ListByRecipient returns the documents addressed to orgID, newest first.
func (s *Store) ListByRecipient(_ context.Context, orgID string) ([]model.Document, error) {
	return s.list(func(d model.Document) bool { return d.RecipientID == orgID }), nil
}

// ListBySender returns the documents sent by orgID, newest first.
func (s *Store) ListBySender(_ context.Context, orgID string) ([]model.Document, error) {
	return s.list(func(d model.Document) bool { return d.SenderID == orgID }), nil
}

func (s *Store) list(keep func(model.Document) bool) []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.Document, 0)
	for _, d := range s.docs {
		if keep(d) {
			items = append(items, cloneDocument(d))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items
}

// Append adds an event to the log.
func (s *Store) Append(_ context.Context, ev *model.DocumentEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	stored := model.DocumentEvent{
		ID:         strings.Clone(ev.ID),
		DocumentID: strings.Clone(ev.DocumentID),
		ActorID:    strings.Clone(ev.ActorID),
		Action:     ev.Action,
		CreatedAt:  ev.CreatedAt,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, stored)
	return nil
}

// ListByDocument returns the events of a document in append order.
func (s *Store) ListByDocument(_ context.Context, documentID string) ([]model.DocumentEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.DocumentEvent, 0)
	for _, ev := range s.events {
		if ev.DocumentID == documentID {
			items = append(items, ev)
		}
	}
	return items, nil
}

// organizations is the OrganizationRepository view of a Store. It is a
// separate type because Store.FindByID already serves documents.
type organizations struct{ s *Store }

// Organizations returns an OrganizationRepository backed by the store.
func (s *Store) Organizations() repository.OrganizationRepository {
	return organizations{s: s}
}

func (o organizations) List(_ context.Context) ([]model.Organization, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()

	items := make([]model.Organization, 0, len(o.s.orgs))
	for _, org := range o.s.orgs {
		items = append(items, org)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (o organizations) FindByID(_ context.Context, id string) (*model.Organization, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()

	org, ok := o.s.orgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &org, nil
}

// detachDocument copies d so that no string shares memory with the caller.
// Request-scoped buffers may back the caller's strings.
func detachDocument(d model.Document) model.Document {
	d = cloneDocument(d)
	d.ID = strings.Clone(d.ID)
	d.SenderID = strings.Clone(d.SenderID)
	d.RecipientID = strings.Clone(d.RecipientID)
	d.StorageKey = strings.Clone(d.StorageKey)
	if d.Comment != nil {
		c := strings.Clone(*d.Comment)
		d.Comment = &c
	}
	return d
}

func cloneDocument(d model.Document) model.Document {
	if d.Comment != nil {
		c := *d.Comment
		d.Comment = &c
	}
	if d.ExpiresAt != nil {
		t := *d.ExpiresAt
		d.ExpiresAt = &t
	}
	return d
}

package notification

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]Notification
	keys  map[string]bool
	order []string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]Notification),
		keys: make(map[string]bool),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, n Notification) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.DedupeKey != "" && s.keys[n.DedupeKey] {
		return false, nil
	}
	if n.DedupeKey != "" {
		s.keys[n.DedupeKey] = true
	}
	s.byID[n.ID] = n
	s.order = append(s.order, n.ID)
	return true, nil
}

func (s *MemoryStore) ListForRecipient(ctx context.Context, recipientID string) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Notification
	for _, id := range s.order {
		if n := s.byID[id]; n.RecipientID == recipientID {
			res = append(res, n)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (s *MemoryStore) MarkRead(ctx context.Context, id, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok || n.RecipientID != recipientID {
		return ErrNotFound
	}
	n.ReadStatus = true
	s.byID[id] = n
	return nil
}

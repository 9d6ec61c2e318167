package entry

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and local development.
// Records are kept in insertion order.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]Record
	ordered []string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Record)}
}

func (s *MemoryStore) Insert(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[r.ID] = r
	s.ordered = append(s.ordered, r.ID)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) SetProof(ctx context.Context, id, proofURL string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok || r.ProofURL != "" || r.VerificationStatus != VerificationPending {
		return false, nil
	}
	r.ProofURL = proofURL
	s.byID[id] = r
	return true, nil
}

func (s *MemoryStore) Decide(ctx context.Context, id string, decision VerificationStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok || r.VerificationStatus != VerificationPending {
		return false, nil
	}
	r.VerificationStatus = decision
	s.byID[id] = r
	return true, nil
}

func (s *MemoryStore) Override(ctx context.Context, id string, decision VerificationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	r.VerificationStatus = decision
	s.byID[id] = r
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Record, 0, len(s.ordered))
	for _, id := range s.ordered {
		res = append(res, s.byID[id])
	}
	return res, nil
}

func (s *MemoryStore) ListPending(ctx context.Context) ([]Record, error) {
	return s.filter(func(r Record) bool { return r.VerificationStatus == VerificationPending })
}

func (s *MemoryStore) ListByStudent(ctx context.Context, studentID string) ([]Record, error) {
	return s.filter(func(r Record) bool { return r.StudentID == studentID })
}

func (s *MemoryStore) ListByRecorder(ctx context.Context, recordedBy string) ([]Record, error) {
	return s.filter(func(r Record) bool { return r.RecordedBy == recordedBy })
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

func (s *MemoryStore) filter(keep func(Record) bool) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Record
	for _, id := range s.ordered {
		if r := s.byID[id]; keep(r) {
			res = append(res, r)
		}
	}
	return res, nil
}

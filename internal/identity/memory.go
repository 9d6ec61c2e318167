package identity

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	students map[string]Student
	security map[string]Security
	admins   map[string]Admin
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		students: make(map[string]Student),
		security: make(map[string]Security),
		admins:   make(map[string]Admin),
	}
}

func (s *MemoryStore) CreateStudent(ctx context.Context, st Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(st.Email) {
		return ErrEmailExists
	}
	for _, other := range s.students {
		if other.RollNumber == st.RollNumber {
			return ErrRollNumberExists
		}
	}
	s.students[st.ID] = st
	return nil
}

func (s *MemoryStore) CreateSecurity(ctx context.Context, sec Security) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(sec.Email) {
		return ErrEmailExists
	}
	for _, other := range s.security {
		if other.SecurityID == sec.SecurityID {
			return ErrSecurityIDExists
		}
	}
	s.security[sec.ID] = sec
	return nil
}

func (s *MemoryStore) CreateAdmin(ctx context.Context, a Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(a.Email) {
		return ErrEmailExists
	}
	s.admins[a.ID] = a
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.students, id)
	delete(s.security, id)
	delete(s.admins, id)
	return nil
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.students {
		if st.Email == email {
			return st.User, nil
		}
	}
	for _, sec := range s.security {
		if sec.Email == email {
			return sec.User, nil
		}
	}
	for _, a := range s.admins {
		if a.Email == email {
			return a.User, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *MemoryStore) FindStudentByRoll(ctx context.Context, roll string) (Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.students {
		if st.RollNumber == roll {
			return st, nil
		}
	}
	return Student{}, ErrNotFound
}

func (s *MemoryStore) ListStudents(ctx context.Context) ([]Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Student, 0, len(s.students))
	for _, st := range s.students {
		res = append(res, st)
	}
	return res, nil
}

func (s *MemoryStore) ListSecurity(ctx context.Context) ([]Security, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Security, 0, len(s.security))
	for _, sec := range s.security {
		res = append(res, sec)
	}
	return res, nil
}

func (s *MemoryStore) CountByRole(ctx context.Context, role Role) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch role {
	case RoleStudent:
		return len(s.students), nil
	case RoleSecurity:
		return len(s.security), nil
	case RoleAdmin:
		return len(s.admins), nil
	}
	return 0, nil
}

func (s *MemoryStore) emailTaken(email string) bool {
	for _, st := range s.students {
		if st.Email == email {
			return true
		}
	}
	for _, sec := range s.security {
		if sec.Email == email {
			return true
		}
	}
	for _, a := range s.admins {
		if a.Email == email {
			return true
		}
	}
	return false
}

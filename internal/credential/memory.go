package credential

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

type record struct {
	userID string
	hash   []byte
}

// MemoryIssuer keeps credentials in memory; used by tests and local dev.
// ProvisionErr, when set, makes the next Provision call fail with that error
// so callers can exercise the compensating-delete path.
type MemoryIssuer struct {
	mu           sync.Mutex
	byEmail      map[string]record
	cost         int
	ProvisionErr error
}

var _ Issuer = (*MemoryIssuer)(nil)

// NewMemoryIssuer creates an empty in-memory issuer.
func NewMemoryIssuer() *MemoryIssuer {
	return &MemoryIssuer{byEmail: make(map[string]record), cost: bcrypt.MinCost}
}

func (i *MemoryIssuer) Provision(ctx context.Context, userID, email, password string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ProvisionErr != nil {
		err := i.ProvisionErr
		i.ProvisionErr = nil
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), i.cost)
	if err != nil {
		return err
	}
	i.byEmail[email] = record{userID: userID, hash: hash}
	return nil
}

func (i *MemoryIssuer) Verify(ctx context.Context, email, password string) (string, error) {
	i.mu.Lock()
	rec, ok := i.byEmail[email]
	i.mu.Unlock()
	if !ok {
		return "", ErrInvalid
	}
	if bcrypt.CompareHashAndPassword(rec.hash, []byte(password)) != nil {
		return "", ErrInvalid
	}
	return rec.userID, nil
}

func (i *MemoryIssuer) Revoke(ctx context.Context, userID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for email, rec := range i.byEmail {
		if rec.userID == userID {
			delete(i.byEmail, email)
		}
	}
	return nil
}

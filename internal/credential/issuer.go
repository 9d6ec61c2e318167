// Package credential manages login credentials separately from user records.
// Provisioning is a second, independent write: registration creates the user
// row first and compensates with a delete when provisioning fails.
package credential

import (
	"context"
	"errors"
)

// ErrInvalid is returned when an email/password pair does not verify.
var ErrInvalid = errors.New("invalid credentials")

// Issuer provisions and verifies credentials for user ids.
type Issuer interface {
	// Provision stores a credential for the user. The password is hashed
	// before storage.
	Provision(ctx context.Context, userID, email, password string) error
	// Verify checks an email/password pair and returns the bound user id.
	// Returns ErrInvalid on any mismatch or unknown email.
	Verify(ctx context.Context, email, password string) (string, error)
	// Revoke removes the credential for a user id.
	Revoke(ctx context.Context, userID string) error
}

package identity

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a lookup matches no user.
var ErrNotFound = errors.New("user not found")

// ErrEmailExists is returned when the email is already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrRollNumberExists is returned when the roll number is already registered.
var ErrRollNumberExists = errors.New("roll number already exists")

// ErrSecurityIDExists is returned when the security id is already registered.
var ErrSecurityIDExists = errors.New("security id already exists")

// Store persists user records. Users are never hard-deleted except as
// compensation for a failed credential provisioning.
type Store interface {
	CreateStudent(ctx context.Context, s Student) error
	CreateSecurity(ctx context.Context, s Security) error
	CreateAdmin(ctx context.Context, a Admin) error
	Delete(ctx context.Context, id string) error

	FindByEmail(ctx context.Context, email string) (User, error)
	FindStudentByRoll(ctx context.Context, roll string) (Student, error)

	ListStudents(ctx context.Context) ([]Student, error)
	ListSecurity(ctx context.Context) ([]Security, error)
	CountByRole(ctx context.Context, role Role) (int, error)
}

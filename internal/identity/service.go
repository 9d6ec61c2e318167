package identity

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"lateentry/internal/credential"
)

// ValidationError reports a missing or malformed required field. The message
// is safe to surface to the caller.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Service coordinates user registration, login and lookups.
type Service struct {
	store  Store
	issuer credential.Issuer
}

// NewService creates a service backed by a user store and credential issuer.
func NewService(store Store, issuer credential.Issuer) *Service {
	return &Service{store: store, issuer: issuer}
}

// RegisterStudentInput carries the student signup fields.
type RegisterStudentInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	RollNumber  string `json:"rollNumber"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	ImageURL    string `json:"imageUrl"`
	IDCardURL   string `json:"idCardUrl"`
}

// RegisterSecurityInput carries the security registration fields.
type RegisterSecurityInput struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	SecurityID string `json:"securityId"`
	Password   string `json:"password"`
}

// RegisterStudent creates a student user and provisions its credential.
// When provisioning fails after the user row was created, the row is deleted
// before the error is surfaced so no identity is left without a credential.
func (s *Service) RegisterStudent(ctx context.Context, in RegisterStudentInput) (Student, error) {
	if in.Name == "" || in.Email == "" || in.RollNumber == "" || in.PhoneNumber == "" || in.Password == "" {
		return Student{}, ValidationError("please provide all required fields: name, email, rollNumber, phoneNumber, and password")
	}

	st := Student{
		User: User{
			ID:        uuid.NewString(),
			Role:      RoleStudent,
			Email:     normalizeEmail(in.Email),
			Name:      in.Name,
			CreatedAt: time.Now().UTC(),
		},
		RollNumber:  strings.TrimSpace(in.RollNumber),
		PhoneNumber: in.PhoneNumber,
		ImageURL:    in.ImageURL,
		IDCardURL:   in.IDCardURL,
	}

	if err := s.store.CreateStudent(ctx, st); err != nil {
		return Student{}, err
	}
	if err := s.issuer.Provision(ctx, st.ID, st.Email, in.Password); err != nil {
		if derr := s.store.Delete(ctx, st.ID); derr != nil {
			log.Printf("compensating delete failed for user %s: %v", st.ID, derr)
		}
		return Student{}, fmt.Errorf("provision credential: %w", err)
	}
	return st, nil
}

// RegisterSecurity creates a security user with the same
// create-then-provision-then-compensate discipline as RegisterStudent.
func (s *Service) RegisterSecurity(ctx context.Context, in RegisterSecurityInput) (Security, error) {
	if in.Name == "" || in.Phone == "" || in.Email == "" || in.SecurityID == "" || in.Password == "" {
		return Security{}, ValidationError("please provide all required fields: name, phone, email, securityId, and password")
	}

	sec := Security{
		User: User{
			ID:        uuid.NewString(),
			Role:      RoleSecurity,
			Email:     normalizeEmail(in.Email),
			Name:      in.Name,
			CreatedAt: time.Now().UTC(),
		},
		SecurityID: strings.TrimSpace(in.SecurityID),
		Phone:      in.Phone,
		Status:     SecurityActive,
	}

	if err := s.store.CreateSecurity(ctx, sec); err != nil {
		return Security{}, err
	}
	if err := s.issuer.Provision(ctx, sec.ID, sec.Email, in.Password); err != nil {
		if derr := s.store.Delete(ctx, sec.ID); derr != nil {
			log.Printf("compensating delete failed for user %s: %v", sec.ID, derr)
		}
		return Security{}, fmt.Errorf("provision credential: %w", err)
	}
	return sec, nil
}

// CreateAdmin creates an admin user. Used by the bootstrap command only;
// there is no admin self-registration surface.
func (s *Service) CreateAdmin(ctx context.Context, name, email, password string) (Admin, error) {
	if name == "" || email == "" || password == "" {
		return Admin{}, ValidationError("please provide name, email and password")
	}

	admin := Admin{
		User: User{
			ID:        uuid.NewString(),
			Role:      RoleAdmin,
			Email:     normalizeEmail(email),
			Name:      name,
			CreatedAt: time.Now().UTC(),
		},
	}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		return Admin{}, err
	}
	if err := s.issuer.Provision(ctx, admin.ID, admin.Email, password); err != nil {
		if derr := s.store.Delete(ctx, admin.ID); derr != nil {
			log.Printf("compensating delete failed for user %s: %v", admin.ID, derr)
		}
		return Admin{}, fmt.Errorf("provision credential: %w", err)
	}
	return admin, nil
}

// Login verifies an email/password pair and returns the matching user.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	if email == "" || password == "" {
		return User{}, ValidationError("please provide email and password")
	}
	email = normalizeEmail(email)
	if _, err := s.issuer.Verify(ctx, email, password); err != nil {
		return User{}, err
	}
	return s.store.FindByEmail(ctx, email)
}

// FindByEmail resolves a user envelope by email.
func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.store.FindByEmail(ctx, normalizeEmail(email))
}

// FindStudentByRoll resolves a student by roll number.
func (s *Service) FindStudentByRoll(ctx context.Context, roll string) (Student, error) {
	roll = strings.TrimSpace(roll)
	if roll == "" {
		return Student{}, ValidationError("please provide a roll number")
	}
	return s.store.FindStudentByRoll(ctx, roll)
}

// ListStudents returns all students in the institutional roll order: the
// first two roll-number characters as a base-10 integer, then the full roll
// number lexicographically. Roll numbers without a numeric two-digit prefix
// sort last.
func (s *Service) ListStudents(ctx context.Context) ([]Student, error) {
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(students, func(i, j int) bool {
		pi, pj := rollPrefix(students[i].RollNumber), rollPrefix(students[j].RollNumber)
		if pi != pj {
			return pi < pj
		}
		return students[i].RollNumber < students[j].RollNumber
	})
	return students, nil
}

// ListSecurity returns all security personnel. Credentials are stored apart
// from user records, so no password material can appear in the result.
func (s *Service) ListSecurity(ctx context.Context) ([]Security, error) {
	return s.store.ListSecurity(ctx)
}

// CountByRole returns the number of users with the given role.
func (s *Service) CountByRole(ctx context.Context, role Role) (int, error) {
	return s.store.CountByRole(ctx, role)
}

// rollPrefix interprets the first two characters of a roll number as the
// admission year. Malformed prefixes sink to the end of the sort.
func rollPrefix(roll string) int {
	if len(roll) < 2 {
		return math.MaxInt
	}
	n, err := strconv.Atoi(roll[:2])
	if err != nil {
		return math.MaxInt
	}
	return n
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

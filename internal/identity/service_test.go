package identity

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lateentry/internal/credential"
)

func newTestService() (*Service, *MemoryStore, *credential.MemoryIssuer) {
	store := NewMemoryStore()
	issuer := credential.NewMemoryIssuer()
	return NewService(store, issuer), store, issuer
}

func registerStudent(t *testing.T, svc *Service, name, email, roll string) Student {
	t.Helper()
	st, err := svc.RegisterStudent(context.Background(), RegisterStudentInput{
		Name:        name,
		Email:       email,
		RollNumber:  roll,
		PhoneNumber: "9999999999",
		Password:    "secret123",
	})
	require.NoError(t, err)
	return st
}

func TestRegisterStudentAndLogin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	st := registerStudent(t, svc, "Asha", "asha@campus.edu", "21001")
	require.NotEmpty(t, st.ID)
	assert.Equal(t, RoleStudent, st.Role)

	user, err := svc.Login(ctx, "asha@campus.edu", "secret123")
	require.NoError(t, err)
	assert.Equal(t, st.ID, user.ID)

	_, err = svc.Login(ctx, "asha@campus.edu", "wrong")
	assert.ErrorIs(t, err, credential.ErrInvalid)
}

func TestRegisterStudentMissingFields(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.RegisterStudent(context.Background(), RegisterStudentInput{
		Name:  "No Roll",
		Email: "noroll@campus.edu",
	})
	var verr ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRegisterSecurityConflicts(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	in := RegisterSecurityInput{
		Name:       "Gate One",
		Phone:      "8888888888",
		Email:      "gate1@campus.edu",
		SecurityID: "SEC-01",
		Password:   "secret123",
	}
	_, err := svc.RegisterSecurity(ctx, in)
	require.NoError(t, err)

	// Same email, different id.
	dup := in
	dup.SecurityID = "SEC-02"
	_, err = svc.RegisterSecurity(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailExists)

	// Same id, different email.
	dup = in
	dup.Email = "gate2@campus.edu"
	_, err = svc.RegisterSecurity(ctx, dup)
	assert.ErrorIs(t, err, ErrSecurityIDExists)

	list, err := svc.ListSecurity(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRegisterSecurityCompensatingDelete(t *testing.T) {
	svc, store, issuer := newTestService()
	ctx := context.Background()

	issuer.ProvisionErr = errors.New("issuer unavailable")
	_, err := svc.RegisterSecurity(ctx, RegisterSecurityInput{
		Name:       "Gate Two",
		Phone:      "7777777777",
		Email:      "gate2@campus.edu",
		SecurityID: "SEC-02",
		Password:   "secret123",
	})
	require.Error(t, err)

	// The user row must have been rolled back.
	_, err = store.FindByEmail(ctx, "gate2@campus.edu")
	assert.ErrorIs(t, err, ErrNotFound)

	// The email is free for a retry.
	_, err = svc.RegisterSecurity(ctx, RegisterSecurityInput{
		Name:       "Gate Two",
		Phone:      "7777777777",
		Email:      "gate2@campus.edu",
		SecurityID: "SEC-02",
		Password:   "secret123",
	})
	assert.NoError(t, err)
}

func TestListSecurityCarriesNoPassword(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RegisterSecurity(ctx, RegisterSecurityInput{
		Name:       "Gate One",
		Phone:      "8888888888",
		Email:      "gate1@campus.edu",
		SecurityID: "SEC-01",
		Password:   "secret123",
	})
	require.NoError(t, err)

	list, err := svc.ListSecurity(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	raw, err := json.Marshal(list[0])
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "password")
	assert.NotContains(t, fields, "passwordHash")
}

func TestListStudentsRollOrder(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i, roll := range []string{"21001", "05010", "05002", "21002"} {
		registerStudent(t, svc, "Student", string(rune('a'+i))+"@campus.edu", roll)
	}

	list, err := svc.ListStudents(ctx)
	require.NoError(t, err)

	var rolls []string
	for _, st := range list {
		rolls = append(rolls, st.RollNumber)
	}
	assert.Equal(t, []string{"05002", "05010", "21001", "21002"}, rolls)
}

func TestListStudentsMalformedPrefixSortsLast(t *testing.T) {
	svc, _, _ := newTestService()

	registerStudent(t, svc, "A", "a@campus.edu", "X9001")
	registerStudent(t, svc, "B", "b@campus.edu", "21001")

	list, err := svc.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "21001", list[0].RollNumber)
	assert.Equal(t, "X9001", list[1].RollNumber)
}

func TestFindStudentByRoll(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	st := registerStudent(t, svc, "Asha", "asha@campus.edu", "20105")

	found, err := svc.FindStudentByRoll(ctx, "20105")
	require.NoError(t, err)
	assert.Equal(t, st.ID, found.ID)

	_, err = svc.FindStudentByRoll(ctx, "99999")
	assert.ErrorIs(t, err, ErrNotFound)
}

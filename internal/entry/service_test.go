package entry_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lateentry/internal/entry"
	"lateentry/internal/identity"
	"lateentry/internal/notification"
	"lateentry/internal/queue"
)

type fixture struct {
	entries  *entry.Service
	students *identity.MemoryStore
	notifs   *notification.Service
	events   *queue.InMemory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	students := identity.NewMemoryStore()
	notifs := notification.NewService(notification.NewMemoryStore())
	events := queue.NewInMemory(16)
	return &fixture{
		entries:  entry.NewService(entry.NewMemoryStore(), identityDirectory{students}, notifs, events),
		students: students,
		notifs:   notifs,
		events:   events,
	}
}

// identityDirectory adapts the raw store so tests skip the full identity
// service wiring.
type identityDirectory struct {
	store *identity.MemoryStore
}

func (d identityDirectory) FindStudentByRoll(ctx context.Context, roll string) (identity.Student, error) {
	return d.store.FindStudentByRoll(ctx, roll)
}

func (f *fixture) addStudent(t *testing.T, name, roll string) identity.Student {
	t.Helper()
	st := identity.Student{
		User: identity.User{
			ID:        uuid.NewString(),
			Role:      identity.RoleStudent,
			Email:     roll + "@campus.edu",
			Name:      name,
			CreatedAt: time.Now().UTC(),
		},
		RollNumber: roll,
	}
	require.NoError(t, f.students.CreateStudent(context.Background(), st))
	return st
}

func TestCreateRecordsPendingEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.addStudent(t, "Asha", "21001")

	rec, err := f.entries.Create(ctx, "21001", entry.EntryManual, "sec-1", "Ravi")
	require.NoError(t, err)

	assert.Equal(t, st.ID, rec.StudentID)
	assert.Equal(t, "Asha", rec.StudentName)
	assert.Equal(t, entry.StatusRecorded, rec.Status)
	assert.Equal(t, entry.VerificationPending, rec.VerificationStatus)
	assert.Empty(t, rec.ProofURL)
	assert.Equal(t, "sec-1", rec.RecordedBy)

	// Creation notifies the student.
	notifs, err := f.notifs.ListForRecipient(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Your late entry has been registered by Ravi.", notifs[0].Message)
	assert.False(t, notifs[0].ReadStatus)

	// And publishes an event for the worker.
	msg := f.drainOne(t)
	assert.Equal(t, queue.TypeEntryRecorded, msg.Type)
}

func TestCreateUnknownRoll(t *testing.T) {
	f := newFixture(t)

	_, err := f.entries.Create(context.Background(), "99999", entry.EntryManual, "sec-1", "Ravi")
	assert.ErrorIs(t, err, identity.ErrNotFound)
}

func TestCreateFromQR(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.addStudent(t, "Asha", "21001")

	payload, err := json.Marshal(entry.QRPayload{
		ID:         st.ID,
		Name:       st.Name,
		RollNumber: st.RollNumber,
		Email:      st.Email,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
	require.NoError(t, err)

	rec, err := f.entries.CreateFromQR(ctx, string(payload), "sec-1", "Ravi")
	require.NoError(t, err)
	assert.Equal(t, entry.EntryQR, rec.EntryType)
	assert.Equal(t, st.ID, rec.StudentID)
}

func TestCreateFromQRMalformed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.entries.CreateFromQR(ctx, "not json", "sec-1", "Ravi")
	assert.ErrorIs(t, err, entry.ErrMalformedQR)

	_, err = f.entries.CreateFromQR(ctx, `{"name":"no roll"}`, "sec-1", "Ravi")
	assert.ErrorIs(t, err, entry.ErrMalformedQR)
}

func TestDecideLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.addStudent(t, "Asha", "21001")

	rec, err := f.entries.Create(ctx, "21001", entry.EntryManual, "sec-1", "Ravi")
	require.NoError(t, err)

	decided, err := f.entries.Decide(ctx, rec.ID, entry.VerificationAccepted)
	require.NoError(t, err)
	assert.Equal(t, entry.VerificationAccepted, decided.VerificationStatus)

	// Terminal records are frozen.
	_, err = f.entries.Decide(ctx, rec.ID, entry.VerificationRejected)
	assert.ErrorIs(t, err, entry.ErrAlreadyDecided)
	_, err = f.entries.Decide(ctx, rec.ID, entry.VerificationAccepted)
	assert.ErrorIs(t, err, entry.ErrAlreadyDecided)

	got, err := f.entries.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.VerificationAccepted, got.VerificationStatus)

	// One notification per transition: recorded then decided.
	notifs, err := f.notifs.ListForRecipient(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 2)
	var messages []string
	for _, n := range notifs {
		messages = append(messages, n.Message)
	}
	assert.Contains(t, messages, "Your late entry has been accepted by the admin.")
}

func TestDecideValidatesDecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addStudent(t, "Asha", "21001")

	rec, err := f.entries.Create(ctx, "21001", entry.EntryManual, "sec-1", "Ravi")
	require.NoError(t, err)

	_, err = f.entries.Decide(ctx, rec.ID, entry.VerificationPending)
	assert.ErrorIs(t, err, entry.ErrInvalidDecision)
	_, err = f.entries.Decide(ctx, rec.ID, entry.VerificationStatus("approved"))
	assert.ErrorIs(t, err, entry.ErrInvalidDecision)
}

func TestDecideUnknownEntry(t *testing.T) {
	f := newFixture(t)

	_, err := f.entries.Decide(context.Background(), uuid.NewString(), entry.VerificationAccepted)
	assert.ErrorIs(t, err, entry.ErrNotFound)
}

func TestOverrideReopensTerminalRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.addStudent(t, "Asha", "21001")

	rec, err := f.entries.Create(ctx, "21001", entry.EntryManual, "sec-1", "Ravi")
	require.NoError(t, err)
	_, err = f.entries.Decide(ctx, rec.ID, entry.VerificationRejected)
	require.NoError(t, err)

	over, err := f.entries.Override(ctx, rec.ID, entry.VerificationAccepted)
	require.NoError(t, err)
	assert.Equal(t, entry.VerificationAccepted, over.VerificationStatus)

	got, err := f.entries.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.VerificationAccepted, got.VerificationStatus)

	// recorded + rejected + override notifications.
	notifs, err := f.notifs.ListForRecipient(ctx, st.ID)
	require.NoError(t, err)
	assert.Len(t, notifs, 3)
}

func TestAttachProof(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.addStudent(t, "Asha", "21001")

	rec, err := f.entries.Create(ctx, "21001", entry.EntryManual, "sec-1", "Ravi")
	require.NoError(t, err)

	require.NoError(t, f.entries.AttachProof(ctx, rec.ID, st.ID, "https://cdn.example/proof.jpg"))

	got, err := f.entries.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/proof.jpg", got.ProofURL)

	// Proof is write-once.
	err = f.entries.AttachProof(ctx, rec.ID, st.ID, "https://cdn.example/other.jpg")
	assert.ErrorIs(t, err, entry.ErrProofAlreadySet)
}

func TestAttachProofOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addStudent(t, "Asha", "21001")
	other := f.addStudent(t, "Birju", "21002")

	rec, err := f.entries.Create(ctx, "21001", entry.EntryManual, "sec-1", "Ravi")
	require.NoError(t, err)

	err = f.entries.AttachProof(ctx, rec.ID, other.ID, "https://cdn.example/proof.jpg")
	assert.ErrorIs(t, err, entry.ErrNotOwner)
}

func TestAttachProofAfterDecisionRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.addStudent(t, "Asha", "21001")

	rec, err := f.entries.Create(ctx, "21001", entry.EntryManual, "sec-1", "Ravi")
	require.NoError(t, err)
	_, err = f.entries.Decide(ctx, rec.ID, entry.VerificationAccepted)
	require.NoError(t, err)

	err = f.entries.AttachProof(ctx, rec.ID, st.ID, "https://cdn.example/proof.jpg")
	assert.ErrorIs(t, err, entry.ErrAlreadyDecided)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addStudent(t, "Asha", "21001")
	f.addStudent(t, "Birju", "21002")

	_, err := f.entries.Create(ctx, "21001", entry.EntryManual, "sec-1", "Ravi")
	require.NoError(t, err)
	_, err = f.entries.Create(ctx, "21002", entry.EntryManual, "sec-2", "Meena")
	require.NoError(t, err)
	_, err = f.entries.Create(ctx, "21001", entry.EntryQR, "sec-1", "Ravi")
	require.NoError(t, err)

	all, err := f.entries.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := f.entries.ListByStudent(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	recorded, err := f.entries.ListByRecorder(ctx, "sec-2")
	require.NoError(t, err)
	assert.Len(t, recorded, 1)

	_, err = f.entries.Decide(ctx, all[0].ID, entry.VerificationAccepted)
	require.NoError(t, err)
	pending, err := f.entries.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	n, err := f.entries.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func (f *fixture) drainOne(t *testing.T) queue.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msgs, err := f.events.Consume(ctx)
	require.NoError(t, err)
	select {
	case msg := <-msgs:
		return msg
	case <-ctx.Done():
		t.Fatal("no message published")
		return queue.Message{}
	}
}

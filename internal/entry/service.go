package entry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"lateentry/internal/identity"
	"lateentry/internal/metrics"
	"lateentry/internal/queue"
)

// StudentDirectory resolves students for entry creation.
type StudentDirectory interface {
	FindStudentByRoll(ctx context.Context, roll string) (identity.Student, error)
}

// Notifier appends messages to a recipient's mailbox. A non-empty dedupe key
// suppresses repeats.
type Notifier interface {
	Notify(ctx context.Context, recipientID, message, dedupeKey string) error
}

// Service is the verification state machine: it owns every transition an
// entry record can make and the notification each transition emits.
// Authorization is enforced by the calling layer; the service trusts that the
// recorder has the security role and the decider the admin role.
type Service struct {
	store    Store
	students StudentDirectory
	notifier Notifier
	events   queue.Queue
}

// NewService creates the state machine over its collaborators. events may be
// nil when no relay is configured.
func NewService(store Store, students StudentDirectory, notifier Notifier, events queue.Queue) *Service {
	return &Service{store: store, students: students, notifier: notifier, events: events}
}

// event is the payload relayed to the push gateway by the worker.
type event struct {
	EntryID   string `json:"entryId"`
	StudentID string `json:"studentId"`
	Status    string `json:"status"`
}

// Create records a late entry for the student with the given roll number.
// The record starts pending with no proof, and the student is notified that
// the named security actor registered the entry.
func (s *Service) Create(ctx context.Context, roll string, entryType EntryType, recordedBy, recordedByName string) (Record, error) {
	st, err := s.students.FindStudentByRoll(ctx, roll)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:                 uuid.NewString(),
		StudentID:          st.ID,
		StudentName:        st.Name,
		RollNumber:         st.RollNumber,
		EntryType:          entryType,
		Status:             StatusRecorded,
		VerificationStatus: VerificationPending,
		RecordedBy:         recordedBy,
		RecordedByName:     recordedByName,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return Record{}, err
	}

	s.emit(ctx, st.ID,
		fmt.Sprintf("Your late entry has been registered by %s.", recordedByName),
		rec.ID+":recorded")
	s.publish(ctx, queue.TypeEntryRecorded, rec)
	metrics.EntriesRecorded.WithLabelValues(string(entryType)).Inc()
	return rec, nil
}

// CreateFromQR parses a scanned QR payload and records a QR-provenance entry
// for the roll number it carries.
func (s *Service) CreateFromQR(ctx context.Context, payload, recordedBy, recordedByName string) (Record, error) {
	p, err := ParseQRPayload(payload)
	if err != nil {
		return Record{}, err
	}
	return s.Create(ctx, p.RollNumber, EntryQR, recordedBy, recordedByName)
}

// AttachProof sets the write-once proof reference on a still-pending record.
// Only the owning student may attach proof. No notification is emitted.
func (s *Service) AttachProof(ctx context.Context, entryID, studentID, proofURL string) error {
	rec, err := s.store.Get(ctx, entryID)
	if err != nil {
		return err
	}
	if rec.StudentID != studentID {
		return ErrNotOwner
	}
	if rec.Terminal() {
		return ErrAlreadyDecided
	}
	if rec.ProofURL != "" {
		return ErrProofAlreadySet
	}
	updated, err := s.store.SetProof(ctx, entryID, proofURL)
	if err != nil {
		return err
	}
	if !updated {
		return ErrProofAlreadySet
	}
	return nil
}

// Decide moves a pending record to accepted or rejected and notifies the
// student. Terminal records are frozen; corrections go through Override.
// The conditional update means at most one of two racing admins lands the
// first decision.
func (s *Service) Decide(ctx context.Context, entryID string, decision VerificationStatus) (Record, error) {
	if decision != VerificationAccepted && decision != VerificationRejected {
		return Record{}, ErrInvalidDecision
	}
	rec, err := s.store.Get(ctx, entryID)
	if err != nil {
		return Record{}, err
	}
	if rec.Terminal() {
		return Record{}, ErrAlreadyDecided
	}
	updated, err := s.store.Decide(ctx, entryID, decision)
	if err != nil {
		return Record{}, err
	}
	if !updated {
		return Record{}, ErrAlreadyDecided
	}
	rec.VerificationStatus = decision

	s.emit(ctx, rec.StudentID,
		fmt.Sprintf("Your late entry has been %s by the admin.", decision),
		rec.ID+":"+string(decision))
	s.publish(ctx, queue.TypeEntryDecided, rec)
	metrics.Decisions.WithLabelValues(string(decision)).Inc()
	return rec, nil
}

// Override re-decides a record regardless of its current state. The
// overwrite is logged and the student is notified again under a dedupe key
// distinct from the first decision's.
func (s *Service) Override(ctx context.Context, entryID string, decision VerificationStatus) (Record, error) {
	if decision != VerificationAccepted && decision != VerificationRejected {
		return Record{}, ErrInvalidDecision
	}
	rec, err := s.store.Get(ctx, entryID)
	if err != nil {
		return Record{}, err
	}
	if err := s.store.Override(ctx, entryID, decision); err != nil {
		return Record{}, err
	}
	log.Printf("entry %s decision overridden: %s -> %s", entryID, rec.VerificationStatus, decision)
	rec.VerificationStatus = decision

	s.emit(ctx, rec.StudentID,
		fmt.Sprintf("Your late entry has been %s by the admin.", decision),
		rec.ID+":"+string(decision)+":override")
	s.publish(ctx, queue.TypeEntryDecided, rec)
	metrics.Decisions.WithLabelValues(string(decision)).Inc()
	return rec, nil
}

// Get returns one record by id.
func (s *Service) Get(ctx context.Context, entryID string) (Record, error) {
	return s.store.Get(ctx, entryID)
}

// List returns all records in insertion order.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.store.List(ctx)
}

// ListPending returns the records still awaiting a decision.
func (s *Service) ListPending(ctx context.Context) ([]Record, error) {
	return s.store.ListPending(ctx)
}

// ListByStudent returns the records for one student.
func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]Record, error) {
	return s.store.ListByStudent(ctx, studentID)
}

// ListByRecorder returns the records a security actor created.
func (s *Service) ListByRecorder(ctx context.Context, recordedBy string) ([]Record, error) {
	return s.store.ListByRecorder(ctx, recordedBy)
}

// Count returns the total number of records.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// emit writes the transition notification. The record write and the mailbox
// write are two independent writes with no transaction between them; the
// dedupe key caps duplicates if the caller retries.
func (s *Service) emit(ctx context.Context, recipientID, message, dedupeKey string) {
	if err := s.notifier.Notify(ctx, recipientID, message, dedupeKey); err != nil {
		log.Printf("notification write failed for %s: %v", recipientID, err)
		return
	}
	metrics.NotificationsEmitted.Inc()
}

// publish relays the transition to the worker queue, best effort.
func (s *Service) publish(ctx context.Context, msgType string, rec Record) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(event{EntryID: rec.ID, StudentID: rec.StudentID, Status: string(rec.VerificationStatus)})
	if err != nil {
		return
	}
	if err := s.events.Publish(ctx, queue.Message{Type: msgType, Body: body}); err != nil {
		log.Printf("queue publish failed: %v", err)
	}
}

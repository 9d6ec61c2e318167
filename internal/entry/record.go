// Package entry owns late-entry records and the verification state machine
// that moves them from pending to a terminal decision.
package entry

import (
	"errors"
	"time"
)

// EntryType records how an entry was created.
type EntryType string

const (
	EntryManual EntryType = "Manual"
	EntryQR     EntryType = "QR"
)

// VerificationStatus is the mutable state of a record. It only ever moves
// pending -> accepted or pending -> rejected.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationAccepted VerificationStatus = "accepted"
	VerificationRejected VerificationStatus = "rejected"
)

// StatusRecorded is the constant provenance tag on every record, retained for
// forward extension.
const StatusRecorded = "recorded"

// Record is one logged late-arrival event. JSON field names match the
// original lateEntries collection.
type Record struct {
	ID                 string             `json:"id"`
	StudentID          string             `json:"studentId"`
	StudentName        string             `json:"studentName"`
	RollNumber         string             `json:"rollNumber"`
	EntryType          EntryType          `json:"entryType"`
	Status             string             `json:"status"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	ProofURL           string             `json:"proofUrl"`
	RecordedBy         string             `json:"recordedBy"`
	RecordedByName     string             `json:"recordedByName"`
	CreatedAt          time.Time          `json:"createdAt"`
}

// Terminal reports whether the record has left the pending state.
func (r Record) Terminal() bool {
	return r.VerificationStatus != VerificationPending
}

// ErrNotFound is returned when an entry id does not exist.
var ErrNotFound = errors.New("entry not found")

// ErrAlreadyDecided is returned when a transition requires a pending record
// but the record has already reached a terminal state.
var ErrAlreadyDecided = errors.New("entry already decided")

// ErrProofAlreadySet is returned when proof has already been attached; proof
// is write-once.
var ErrProofAlreadySet = errors.New("proof already attached")

// ErrNotOwner is returned when a student acts on another student's entry.
var ErrNotOwner = errors.New("entry belongs to another student")

// ErrInvalidDecision is returned for decisions outside accepted/rejected.
var ErrInvalidDecision = errors.New("decision must be accepted or rejected")

// ErrMalformedQR is returned when a scanned payload cannot be parsed into a
// roll number.
var ErrMalformedQR = errors.New("malformed QR payload")

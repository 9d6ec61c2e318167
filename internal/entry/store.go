package entry

import "context"

// Store persists entry records. Conditional updates are the concurrency
// guard: a transition that finds zero matching rows lost the race.
type Store interface {
	Insert(ctx context.Context, r Record) error
	Get(ctx context.Context, id string) (Record, error)

	// SetProof attaches a proof URL iff the record is still pending and has
	// no proof yet. Reports whether a row was updated.
	SetProof(ctx context.Context, id, proofURL string) (bool, error)

	// Decide moves a pending record to the given terminal state. Reports
	// whether a row was updated.
	Decide(ctx context.Context, id string, decision VerificationStatus) (bool, error)

	// Override sets the decision regardless of current state.
	Override(ctx context.Context, id string, decision VerificationStatus) error

	List(ctx context.Context) ([]Record, error)
	ListPending(ctx context.Context) ([]Record, error)
	ListByStudent(ctx context.Context, studentID string) ([]Record, error)
	ListByRecorder(ctx context.Context, recordedBy string) ([]Record, error)
	Count(ctx context.Context) (int, error)
}

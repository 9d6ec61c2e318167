package entry

import (
	"context"
	"database/sql"
	"errors"
)

const recordColumns = `id, student_id, student_name, roll_number, entry_type, status,
	verification_status, COALESCE(proof_url, ''), recorded_by, recorded_by_name, created_at`

// PostgresStore persists entry records in the late_entries table.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store backed by the given connection.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO late_entries
			(id, student_id, student_name, roll_number, entry_type, status,
			 verification_status, proof_url, recorded_by, recorded_by_name, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, r.ID, r.StudentID, r.StudentName, r.RollNumber, r.EntryType, r.Status,
		r.VerificationStatus, nullable(r.ProofURL), r.RecordedBy, r.RecordedByName, r.CreatedAt)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM late_entries WHERE id = $1`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

func (s *PostgresStore) SetProof(ctx context.Context, id, proofURL string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE late_entries SET proof_url = $2
		WHERE id = $1 AND proof_url IS NULL AND verification_status = 'pending'
	`, id, proofURL)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (s *PostgresStore) Decide(ctx context.Context, id string, decision VerificationStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE late_entries SET verification_status = $2
		WHERE id = $1 AND verification_status = 'pending'
	`, id, decision)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (s *PostgresStore) Override(ctx context.Context, id string, decision VerificationStatus) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE late_entries SET verification_status = $2 WHERE id = $1
	`, id, decision)
	return err
}

func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	return s.query(ctx, `SELECT `+recordColumns+` FROM late_entries ORDER BY created_at`)
}

func (s *PostgresStore) ListPending(ctx context.Context) ([]Record, error) {
	return s.query(ctx, `SELECT `+recordColumns+` FROM late_entries WHERE verification_status = 'pending' ORDER BY created_at`)
}

func (s *PostgresStore) ListByStudent(ctx context.Context, studentID string) ([]Record, error) {
	return s.query(ctx, `SELECT `+recordColumns+` FROM late_entries WHERE student_id = $1 ORDER BY created_at`, studentID)
}

func (s *PostgresStore) ListByRecorder(ctx context.Context, recordedBy string) ([]Record, error) {
	return s.query(ctx, `SELECT `+recordColumns+` FROM late_entries WHERE recorded_by = $1 ORDER BY created_at`, recordedBy)
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM late_entries`).Scan(&n)
	return n, err
}

func (s *PostgresStore) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.StudentID, &r.StudentName, &r.RollNumber, &r.EntryType, &r.Status,
		&r.VerificationStatus, &r.ProofURL, &r.RecordedBy, &r.RecordedByName, &r.CreatedAt)
	return r, err
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

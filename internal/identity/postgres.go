package identity

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PostgresStore persists users in the users table.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store backed by the given connection.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateStudent(ctx context.Context, st Student) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, role, email, name, created_at, roll_number, phone_number, image_url, id_card_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, st.ID, st.Role, st.Email, st.Name, st.CreatedAt, st.RollNumber, st.PhoneNumber, nullable(st.ImageURL), nullable(st.IDCardURL))
	return mapUniqueViolation(err)
}

func (s *PostgresStore) CreateSecurity(ctx context.Context, sec Security) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, role, email, name, created_at, security_id, phone, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, sec.ID, sec.Role, sec.Email, sec.Name, sec.CreatedAt, sec.SecurityID, sec.Phone, sec.Status)
	return mapUniqueViolation(err)
}

func (s *PostgresStore) CreateAdmin(ctx context.Context, a Admin) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, role, email, name, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, a.ID, a.Role, a.Email, a.Name, a.CreatedAt)
	return mapUniqueViolation(err)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, role, email, COALESCE(name, ''), created_at FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Role, &u.Email, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *PostgresStore) FindStudentByRoll(ctx context.Context, roll string) (Student, error) {
	var st Student
	err := s.db.QueryRowContext(ctx, `
		SELECT id, role, email, COALESCE(name, ''), created_at,
		       roll_number, COALESCE(phone_number, ''), COALESCE(image_url, ''), COALESCE(id_card_url, '')
		FROM users WHERE role = 'student' AND roll_number = $1
	`, roll).Scan(&st.ID, &st.Role, &st.Email, &st.Name, &st.CreatedAt,
		&st.RollNumber, &st.PhoneNumber, &st.ImageURL, &st.IDCardURL)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrNotFound
	}
	return st, err
}

func (s *PostgresStore) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, email, COALESCE(name, ''), created_at,
		       roll_number, COALESCE(phone_number, ''), COALESCE(image_url, ''), COALESCE(id_card_url, '')
		FROM users WHERE role = 'student'
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Role, &st.Email, &st.Name, &st.CreatedAt,
			&st.RollNumber, &st.PhoneNumber, &st.ImageURL, &st.IDCardURL); err != nil {
			return nil, err
		}
		res = append(res, st)
	}
	return res, rows.Err()
}

func (s *PostgresStore) ListSecurity(ctx context.Context) ([]Security, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, email, COALESCE(name, ''), created_at,
		       security_id, COALESCE(phone, ''), COALESCE(status, '')
		FROM users WHERE role = 'security'
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Security
	for rows.Next() {
		var sec Security
		if err := rows.Scan(&sec.ID, &sec.Role, &sec.Email, &sec.Name, &sec.CreatedAt,
			&sec.SecurityID, &sec.Phone, &sec.Status); err != nil {
			return nil, err
		}
		res = append(res, sec)
	}
	return res, rows.Err()
}

func (s *PostgresStore) CountByRole(ctx context.Context, role Role) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n)
	return n, err
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// mapUniqueViolation translates Postgres unique violations (SQLSTATE 23505)
// into the domain conflict sentinels by constraint column.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "23505") && !strings.Contains(msg, "duplicate key") {
		return err
	}
	switch {
	case strings.Contains(msg, "roll_number"):
		return ErrRollNumberExists
	case strings.Contains(msg, "security_id"):
		return ErrSecurityIDExists
	default:
		return ErrEmailExists
	}
}

package credential

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// SQLIssuer stores bcrypt-hashed credentials in the credentials table.
type SQLIssuer struct {
	db   *sql.DB
	cost int
}

var _ Issuer = (*SQLIssuer)(nil)

// NewSQLIssuer creates an issuer with the given bcrypt cost.
func NewSQLIssuer(db *sql.DB, cost int) *SQLIssuer {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &SQLIssuer{db: db, cost: cost}
}

func (i *SQLIssuer) Provision(ctx context.Context, userID, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), i.cost)
	if err != nil {
		return err
	}
	_, err = i.db.ExecContext(ctx, `
		INSERT INTO credentials (user_id, email, password_hash)
		VALUES ($1, $2, $3)
	`, userID, email, string(hash))
	return err
}

func (i *SQLIssuer) Verify(ctx context.Context, email, password string) (string, error) {
	var userID, hash string
	err := i.db.QueryRowContext(ctx, `
		SELECT user_id, password_hash FROM credentials WHERE email = $1
	`, email).Scan(&userID, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalid
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", ErrInvalid
	}
	return userID, nil
}

func (i *SQLIssuer) Revoke(ctx context.Context, userID string) error {
	_, err := i.db.ExecContext(ctx, `DELETE FROM credentials WHERE user_id = $1`, userID)
	return err
}

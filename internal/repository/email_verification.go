package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/yemektaxi/backend/internal/domain"
)

type emailVerificationRepository struct {
	db *sqlx.DB
}

func newEmailVerificationRepository(db *sqlx.DB) *emailVerificationRepository {
	return &emailVerificationRepository{
		db: db,
	}
}

func (r *emailVerificationRepository) Create(ctx context.Context, v *domain.EmailVerification) error {
	const op = "repository.emailVerification.Create"

	const query = `
    INSERT INTO email_verification (id, email, code, expiry_date)
    VALUES (uuid_to_bin(:id), :email, :code, :expiry_date)
    `

	res, err := r.db.NamedExecContext(ctx, query, v)
	if err != nil {
		return fmt.Errorf("%s: insert email verification failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows != 1 {
		return fmt.Errorf("%s: expected 1 row affected, got %d", op, rows)
	}

	return nil
}

func (r *emailVerificationRepository) GetActiveByEmail(ctx context.Context, email string, now time.Time) (*domain.EmailVerification, error) {
	const op = "repository.emailVerification.GetActiveByEmail"

	const query = `
    SELECT id, email, code, expiry_date, is_deleted, created_at
    FROM email_verification
    WHERE email = ? AND is_deleted = 0 AND expiry_date > ?
    ORDER BY created_at DESC
    LIMIT 1
    `

	var v domain.EmailVerification
	if err := r.db.GetContext(ctx, &v, query, email, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select email verification failed: %w", op, err)
	}

	return &v, nil
}

// SoftDeleteExpired marks leftover codes for email as superseded.
func (r *emailVerificationRepository) SoftDeleteExpired(ctx context.Context, email string, now time.Time) error {
	const op = "repository.emailVerification.SoftDeleteExpired"

	const query = `
    UPDATE email_verification SET is_deleted = 1
    WHERE email = ? AND is_deleted = 0 AND expiry_date <= ?
    `

	if _, err := r.db.ExecContext(ctx, query, email, now); err != nil {
		return fmt.Errorf("%s: update email verification failed: %w", op, err)
	}

	return nil
}

func (r *emailVerificationRepository) SoftDeleteWithTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	const op = "repository.emailVerification.SoftDelete"

	const query = `
    UPDATE email_verification SET is_deleted = 1
    WHERE id = uuid_to_bin(?) AND is_deleted = 0
    `

	res, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: update email verification failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows != 1 {
		return domain.ErrNoRowsAffected
	}

	return nil
}

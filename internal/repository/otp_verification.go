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

const otpColumns = `id, user_id, phone_number, otp_code, generate_date, verification, is_deleted, created_at, updated_at`

type otpVerificationRepository struct {
	db *sqlx.DB
}

func newOtpVerificationRepository(db *sqlx.DB) *otpVerificationRepository {
	return &otpVerificationRepository{
		db: db,
	}
}

// GetByUserAndPhone returns the record for the pair, deleted or not.
func (r *otpVerificationRepository) GetByUserAndPhone(ctx context.Context, userID uuid.UUID, phone string) (*domain.OtpVerification, error) {
	const op = "repository.otpVerification.GetByUserAndPhone"

	query := `SELECT ` + otpColumns + ` FROM otp_verification
    WHERE user_id = uuid_to_bin(?) AND phone_number = ?
    ORDER BY generate_date DESC
    LIMIT 1`

	var v domain.OtpVerification
	if err := r.db.GetContext(ctx, &v, query, userID, phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select otp verification failed: %w", op, err)
	}

	return &v, nil
}

func (r *otpVerificationRepository) Create(ctx context.Context, v *domain.OtpVerification) error {
	const op = "repository.otpVerification.Create"

	const query = `
    INSERT INTO otp_verification (id, user_id, phone_number, otp_code, generate_date)
    VALUES (uuid_to_bin(:id), uuid_to_bin(:user_id), :phone_number, :otp_code, :generate_date)
    `

	res, err := r.db.NamedExecContext(ctx, query, v)
	if err != nil {
		if dupErr, ok := mapDuplicate(err); ok {
			return dupErr
		}
		return fmt.Errorf("%s: insert otp verification failed: %w", op, err)
	}

	if err := checkAffected(res.RowsAffected()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Renew overwrites the code and restarts the validity window.
func (r *otpVerificationRepository) Renew(ctx context.Context, id uuid.UUID, code string, generatedAt time.Time) error {
	const op = "repository.otpVerification.Renew"

	const query = `
    UPDATE otp_verification
    SET otp_code = ?, generate_date = ?, verification = 0, is_deleted = 0
    WHERE id = uuid_to_bin(?)
    `

	res, err := r.db.ExecContext(ctx, query, code, generatedAt, id)
	if err != nil {
		return fmt.Errorf("%s: update otp verification failed: %w", op, err)
	}

	if err := checkAffected(res.RowsAffected()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetLatestPending returns the newest unverified code generated at or after since.
func (r *otpVerificationRepository) GetLatestPending(ctx context.Context, userID uuid.UUID, since time.Time) (*domain.OtpVerification, error) {
	const op = "repository.otpVerification.GetLatestPending"

	query := `SELECT ` + otpColumns + ` FROM otp_verification
    WHERE user_id = uuid_to_bin(?) AND verification = 0 AND is_deleted = 0 AND generate_date >= ?
    ORDER BY generate_date DESC
    LIMIT 1`

	var v domain.OtpVerification
	if err := r.db.GetContext(ctx, &v, query, userID, since); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select otp verification failed: %w", op, err)
	}

	return &v, nil
}

// MarkVerifiedWithTx consumes the code. A code that was already consumed yields ErrNoRowsAffected.
func (r *otpVerificationRepository) MarkVerifiedWithTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	const op = "repository.otpVerification.MarkVerified"

	const query = `
    UPDATE otp_verification SET verification = 1
    WHERE id = uuid_to_bin(?) AND verification = 0
    `

	res, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: update otp verification failed: %w", op, err)
	}

	return checkAffected(res.RowsAffected())
}

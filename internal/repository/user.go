package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yemektaxi/backend/internal/domain"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, first_name, last_name, email, phone_number, identity_number, year_of_birth, password,
	email_verification, phone_verification, identity_checked, confirmation_status, status, is_new_user,
	restaurant_id, refresh_token, refresh_token_expiry, last_login_date, is_deleted, created_at, updated_at`

type userRepository struct {
	db *sqlx.DB
}

func newUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) CreateWithTx(ctx context.Context, tx *sqlx.Tx, user *domain.User) error {
	const op = "repository.user.Create"

	const query = `
	INSERT INTO user
	(id, first_name, last_name, email, phone_number, identity_number, year_of_birth, password, confirmation_status, status, is_new_user)
	VALUES(uuid_to_bin(?), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`

	result, err := tx.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PhoneNumber,
		user.IdentityNumber,
		user.YearOfBirth,
		user.Password,
		user.ConfirmationStatus,
		user.Status,
		user.IsNewUser,
	)
	if err != nil {
		if dupErr, ok := mapDuplicate(err); ok {
			return dupErr
		}
		return fmt.Errorf("%s: insert user failed: %w", op, err)
	}

	if err := checkAffected(result.RowsAffected()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *userRepository) GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM user WHERE id = uuid_to_bin(?) AND is_deleted = 0;`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select from user by id failed: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM user WHERE email = ? AND is_deleted = 0;`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select from user by email failed: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByRefreshToken(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM user
	WHERE refresh_token = ? AND refresh_token_expiry > ? AND is_deleted = 0;`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, token, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select from user by refresh token failed: %w", err)
	}

	return &user, nil
}

// FindConflicts returns the non-deleted users sharing any of the given
// contact fields. An empty identity number never matches.
func (r *userRepository) FindConflicts(ctx context.Context, email, phone, identityNumber string) ([]domain.User, error) {
	const query = `
	SELECT id, email, phone_number, identity_number FROM user
	WHERE is_deleted = 0 AND (email = ? OR phone_number = ? OR (? <> '' AND identity_number = ?));
	`

	var users []domain.User
	if err := r.db.SelectContext(ctx, &users, query, email, phone, identityNumber, identityNumber); err != nil {
		return nil, fmt.Errorf("select user conflicts failed: %w", err)
	}

	return users, nil
}

func (r *userRepository) ExistsByIdentityNumber(ctx context.Context, identityNumber string, excludeID uuid.UUID) (bool, error) {
	const query = `
	SELECT EXISTS(SELECT 1 FROM user WHERE identity_number = ? AND id <> uuid_to_bin(?) AND is_deleted = 0);
	`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, identityNumber, excludeID); err != nil {
		return false, fmt.Errorf("select user identity exists failed: %w", err)
	}

	return exists, nil
}

// SetSession stores a freshly issued refresh token. loginAt updates
// last_login_date when set.
func (r *userRepository) SetSession(ctx context.Context, id uuid.UUID, token string, expiry time.Time, loginAt *time.Time) error {
	const query = `
	UPDATE user SET refresh_token = ?, refresh_token_expiry = ?, last_login_date = COALESCE(?, last_login_date)
	WHERE id = uuid_to_bin(?) AND is_deleted = 0;
	`

	result, err := r.db.ExecContext(ctx, query, token, expiry, loginAt, id)
	if err != nil {
		return fmt.Errorf("update user session failed: %w", err)
	}

	return checkAffected(result.RowsAffected())
}

// RotateRefreshToken replaces oldToken only if it is still the stored one.
func (r *userRepository) RotateRefreshToken(ctx context.Context, id uuid.UUID, oldToken, newToken string, expiry time.Time) error {
	const query = `
	UPDATE user SET refresh_token = ?, refresh_token_expiry = ?
	WHERE id = uuid_to_bin(?) AND refresh_token = ? AND is_deleted = 0;
	`

	result, err := r.db.ExecContext(ctx, query, newToken, expiry, id, oldToken)
	if err != nil {
		return fmt.Errorf("rotate refresh token failed: %w", err)
	}

	return checkAffected(result.RowsAffected())
}

func (r *userRepository) SetIdentityChecked(ctx context.Context, id uuid.UUID, identityNumber string) error {
	const query = `
	UPDATE user SET identity_number = ?, identity_checked = 1 WHERE id = uuid_to_bin(?) AND is_deleted = 0;
	`

	if _, err := r.db.ExecContext(ctx, query, identityNumber, id); err != nil {
		if dupErr, ok := mapDuplicate(err); ok {
			return dupErr
		}
		return fmt.Errorf("update user identity failed: %w", err)
	}

	return nil
}

func (r *userRepository) SetEmailVerifiedWithTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	const query = `UPDATE user SET email_verification = 1 WHERE id = uuid_to_bin(?) AND is_deleted = 0;`

	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("update user email verification failed: %w", err)
	}

	return nil
}

func (r *userRepository) SetPhoneVerifiedWithTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	const query = `UPDATE user SET phone_verification = 1 WHERE id = uuid_to_bin(?) AND is_deleted = 0;`

	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("update user phone verification failed: %w", err)
	}

	return nil
}

// AttachRestaurantWithTx links the owner to the restaurant unless it already owns one.
func (r *userRepository) AttachRestaurantWithTx(ctx context.Context, tx *sqlx.Tx, id, restaurantID uuid.UUID) error {
	const query = `
	UPDATE user SET restaurant_id = uuid_to_bin(?), is_new_user = 0
	WHERE id = uuid_to_bin(?) AND restaurant_id IS NULL AND is_deleted = 0;
	`

	result, err := tx.ExecContext(ctx, query, restaurantID, id)
	if err != nil {
		return fmt.Errorf("update user restaurant failed: %w", err)
	}

	return checkAffected(result.RowsAffected())
}

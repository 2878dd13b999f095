package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yemektaxi/backend/internal/domain"

	"github.com/jmoiron/sqlx"
)

type restaurantRepository struct {
	db *sqlx.DB
}

func newRestaurantRepository(db *sqlx.DB) *restaurantRepository {
	return &restaurantRepository{
		db: db,
	}
}

func (r *restaurantRepository) CreateWithTx(ctx context.Context, tx *sqlx.Tx, restaurant *domain.Restaurant) error {
	const op = "repository.restaurant.Create"

	const query = `
	INSERT INTO restaurant (id, owner_id, name, email, phone_number, address, description, confirmation_status)
	VALUES (uuid_to_bin(?), uuid_to_bin(?), ?, ?, ?, ?, ?, ?);
	`

	result, err := tx.ExecContext(ctx, query,
		restaurant.ID,
		restaurant.OwnerID,
		restaurant.Name,
		restaurant.Email,
		restaurant.PhoneNumber,
		restaurant.Address,
		restaurant.Description,
		restaurant.ConfirmationStatus,
	)
	if err != nil {
		if dupErr, ok := mapDuplicate(err); ok {
			return dupErr
		}
		return fmt.Errorf("%s: insert restaurant failed: %w", op, err)
	}

	if err := checkAffected(result.RowsAffected()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *restaurantRepository) ExistsByOwner(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM restaurant WHERE owner_id = uuid_to_bin(?) AND is_deleted = 0);`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, ownerID); err != nil {
		return false, fmt.Errorf("select restaurant by owner failed: %w", err)
	}

	return exists, nil
}

func (r *restaurantRepository) FindConflicts(ctx context.Context, name, email, phone string) ([]domain.Restaurant, error) {
	const query = `
	SELECT id, name, email, phone_number FROM restaurant
	WHERE is_deleted = 0 AND (name = ? OR email = ? OR phone_number = ?);
	`

	var restaurants []domain.Restaurant
	if err := r.db.SelectContext(ctx, &restaurants, query, name, email, phone); err != nil {
		return nil, fmt.Errorf("select restaurant conflicts failed: %w", err)
	}

	return restaurants, nil
}

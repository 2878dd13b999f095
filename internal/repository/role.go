package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type roleRepository struct {
	db *sqlx.DB
}

func newRoleRepository(db *sqlx.DB) *roleRepository {
	return &roleRepository{
		db: db,
	}
}

// AssignWithTx grants roleName to the user. Granting an existing role is a no-op.
func (r *roleRepository) AssignWithTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, roleName string) error {
	const query = `
	INSERT IGNORE INTO user_role (user_id, role_id)
	SELECT uuid_to_bin(?), id FROM role WHERE name = ?;
	`

	if _, err := tx.ExecContext(ctx, query, userID, roleName); err != nil {
		return fmt.Errorf("assign role %s failed: %w", roleName, err)
	}

	return nil
}

func (r *roleRepository) ListNamesByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	const query = `
	SELECT r.name FROM role r
	JOIN user_role ur ON ur.role_id = r.id
	WHERE ur.user_id = uuid_to_bin(?)
	ORDER BY r.id;
	`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, userID); err != nil {
		return nil, fmt.Errorf("select user roles failed: %w", err)
	}

	return names, nil
}

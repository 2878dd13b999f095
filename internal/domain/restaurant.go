package domain

import (
	"time"

	"github.com/google/uuid"
)

type Restaurant struct {
	ID                 uuid.UUID          `db:"id"`
	OwnerID            uuid.UUID          `db:"owner_id"`
	Name               string             `db:"name"`
	Email              string             `db:"email"`
	PhoneNumber        string             `db:"phone_number"`
	Address            string             `db:"address"`
	Description        string             `db:"description"`
	ConfirmationStatus ConfirmationStatus `db:"confirmation_status"`
	IsDeleted          bool               `db:"is_deleted"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

package domain

const (
	RoleAdmin           = "Admin"
	RoleRestaurantOwner = "RestaurantOwner"
	RoleUser            = "User"
)

type Role struct {
	ID          int    `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

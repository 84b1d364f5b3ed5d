package ports

import (
	"context"

	"github.com/userhub/identity-system/internal/core/domain"
)

// UpdateUserFields carries a full profile-and-role rewrite for one user.
// The password hash is deliberately absent: it is only mutable through the
// registration path.
type UpdateUserFields struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	Role      domain.Role
}

// UserRepository defines the persistence contract for user records.
// Implementations must enforce email uniqueness at write time, rejecting
// the losing insert with domain.ErrEmailTaken even under concurrency.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// List returns all users in arbitrary order.
	List(ctx context.Context) ([]*domain.User, error)
	// Insert persists a new user and returns its newly assigned id.
	Insert(ctx context.Context, user *domain.User) (int64, error)
	Update(ctx context.Context, id int64, fields UpdateUserFields) error
	UpdateRole(ctx context.Context, id int64, role domain.Role) error
	Delete(ctx context.Context, id int64) error
}

package ports

import (
	"context"

	"github.com/userhub/identity-system/internal/core/domain"
)

// RegisterInput carries the profile fields for a new account. The role is
// not a caller choice: every registration lands on domain.RoleDefault.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Address   string
}

// AuthService verifies credentials and manages session issuance.
type AuthService interface {
	// Login authenticates an (email, password) pair and on success issues
	// an authenticated session carrying a snapshot of the user's role.
	Login(ctx context.Context, email, password string) (*domain.Session, *domain.User, error)
	// Register creates a new default-role account and issues a session for
	// it. The session is not authenticated; an explicit login is required
	// before any gated operation.
	Register(ctx context.Context, input RegisterInput) (*domain.Session, *domain.User, error)
	// Logout destroys the session behind token. Unknown tokens are a no-op.
	Logout(ctx context.Context, token string) error
}

package ports

import (
	"context"

	"github.com/userhub/identity-system/internal/core/domain"
)

// UserService exposes directory operations over user records. Access
// gating happens at the HTTP boundary; the service enforces the invariants
// that must hold regardless of caller (protected admin, session snapshot
// consistency).
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	// Current resolves the session owner's record. A nil session or a
	// deleted owner yields (nil, nil): anonymous callers degrade to empty.
	Current(ctx context.Context, session *domain.Session) (*domain.User, error)
	Update(ctx context.Context, id int64, fields UpdateUserFields) error
	// AdoptUserRole sets the caller's own role to domain.RoleUser and
	// refreshes the session's role snapshot to match.
	AdoptUserRole(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id int64) error
	// DeleteSelf removes the session owner's record and invalidates the
	// session.
	DeleteSelf(ctx context.Context, session *domain.Session) error
}

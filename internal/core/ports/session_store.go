package ports

import (
	"context"

	"github.com/userhub/identity-system/internal/core/domain"
)

// SessionStore maps opaque tokens to identity claims. Get returns
// domain.ErrSessionNotFound for unknown or expired tokens; Delete is
// idempotent and succeeds on tokens that no longer exist.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
	// SetRole rewrites the role snapshot of an existing session.
	SetRole(ctx context.Context, token string, role domain.Role) error
}

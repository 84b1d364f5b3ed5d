package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

// UserService implements directory operations over user records. The
// protected-admin invariant lives here so every deletion path, including
// self-delete, is covered no matter which repository backs the store.
type UserService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	logger   zerolog.Logger
}

func NewUserService(users ports.UserRepository, sessions ports.SessionStore, logger zerolog.Logger) *UserService {
	return &UserService{users: users, sessions: sessions, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Current resolves the session owner's record. Anonymous sessions and
// sessions whose owner has been deleted both degrade to (nil, nil) rather
// than an error.
func (s *UserService) Current(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if session == nil {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, fields ports.UpdateUserFields) error {
	if err := s.users.Update(ctx, id, fields); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Str("role", fields.Role.String()).Msg("user updated")
	return nil
}

// AdoptUserRole switches the caller's own role to domain.RoleUser, then
// refreshes the session's role snapshot so subsequent gate checks see the
// new role without re-querying the store.
func (s *UserService) AdoptUserRole(ctx context.Context, session *domain.Session) error {
	if err := s.users.UpdateRole(ctx, session.UserID, domain.RoleUser); err != nil {
		return err
	}
	if err := s.sessions.SetRole(ctx, session.Token, domain.RoleUser); err != nil {
		return fmt.Errorf("refresh session role: %w", err)
	}
	session.Role = domain.RoleUser
	s.logger.Info().Int64("user_id", session.UserID).Msg("caller adopted user role")
	return nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if id == domain.ProtectedAdminID {
		return domain.ErrProtectedAdmin
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// DeleteSelf removes the session owner's record and destroys the session.
// The protected admin cannot remove itself either.
func (s *UserService) DeleteSelf(ctx context.Context, session *domain.Session) error {
	if err := s.Delete(ctx, session.UserID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, session.Token); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

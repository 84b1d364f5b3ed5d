package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

// AuthService implements credential verification and session issuance.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	hasher   ports.PasswordHasher
	logger   zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, hasher ports.PasswordHasher, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, sessions: sessions, hasher: hasher, logger: logger}
}

// Login verifies the (email, password) pair and on success issues an
// authenticated session whose role snapshot is taken from the user record.
// The distinct ErrUserNotFound / ErrWrongPassword sentinels exist for
// operator logs; the HTTP boundary folds both into one generic response.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, *domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Warn().Int64("user_id", user.ID).Msg("login rejected: password mismatch")
		return nil, nil, domain.ErrWrongPassword
	}

	session := &domain.Session{
		Token:         newSessionToken(),
		UserID:        user.ID,
		Username:      user.Username,
		Role:          user.Role,
		Authenticated: true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", user.Role.String()).Msg("login succeeded")

	return session, user, nil
}

// Register creates a new default-role account. The returned session is not
// authenticated: it identifies the new user but passes no gate until an
// explicit login.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Session, *domain.User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Address:      input.Address,
		Role:         domain.RoleDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	user.ID = id

	session := &domain.Session{
		Token:         newSessionToken(),
		UserID:        id,
		Username:      user.Username,
		Role:          user.Role,
		Authenticated: false,
		CreatedAt:     now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info().Int64("user_id", id).Msg("user registered")

	return session, user, nil
}

// Logout destroys the session behind token. Destroying an already absent
// session is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// newSessionToken returns a 256-bit random token. It carries no user data
// and is not derivable from any.
func newSessionToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("session token: %v", err))
	}
	return hex.EncodeToString(b)
}

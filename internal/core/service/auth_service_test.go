package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (int64, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return 0, domain.ErrEmailTaken
		}
	}
	r.nextID++
	clone := cloneUser(user)
	clone.ID = r.nextID
	r.users[clone.ID] = clone
	return clone.ID, nil
}

func (r *stubUserRepo) Update(_ context.Context, id int64, fields ports.UpdateUserFields) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Username = fields.Username
	u.Email = fields.Email
	u.FirstName = fields.FirstName
	u.LastName = fields.LastName
	u.Phone = fields.Phone
	u.Address = fields.Address
	u.Role = fields.Role
	return nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id int64, role domain.Role) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubSessionStore struct {
	sessions map[string]*domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Create(_ context.Context, session *domain.Session) error {
	clone := *session
	s.sessions[session.Token] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func (s *stubSessionStore) SetRole(_ context.Context, token string, role domain.Role) error {
	session, ok := s.sessions[token]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Role = role
	return nil
}

func newAuthService(repo *stubUserRepo, sessions *stubSessionStore) *AuthService {
	return NewAuthService(repo, sessions, NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessionStore()
	svc := newAuthService(repo, sessions)

	regSession, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "anna",
		Email:    "a@x.com",
		Password: "p1",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleDefault {
		t.Fatalf("expected default role, got %s", user.Role)
	}
	if user.PasswordHash == "p1" {
		t.Fatalf("password stored in plaintext")
	}
	if regSession.Authenticated {
		t.Fatalf("registration session must not be authenticated")
	}
	if regSession.UserID != user.ID {
		t.Fatalf("session references user %d, want %d", regSession.UserID, user.ID)
	}

	loginSession, loginUser, err := svc.Login(context.Background(), "a@x.com", "p1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !loginSession.Authenticated {
		t.Fatalf("login session must be authenticated")
	}
	if loginSession.Role != domain.RoleDefault {
		t.Fatalf("role snapshot is %s, want default", loginSession.Role)
	}
	if loginSession.Token == "" || loginSession.Token == regSession.Token {
		t.Fatalf("login must issue a fresh opaque token")
	}
	if loginUser.ID != user.ID {
		t.Fatalf("login resolved user %d, want %d", loginUser.ID, user.ID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessionStore()
	svc := newAuthService(repo, sessions)

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "anna", Email: "a@x.com", Password: "p1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	before := len(sessions.sessions)

	if _, _, err := svc.Login(context.Background(), "a@x.com", "wrong"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if len(sessions.sessions) != before {
		t.Fatalf("failed login must not create a session")
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), newStubSessionStore())

	if _, _, err := svc.Login(context.Background(), "ghost@x.com", "p"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_AdminRoleSnapshot(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessionStore()
	svc := newAuthService(repo, sessions)

	hash, _ := NewBcryptHasher(bcrypt.MinCost).Hash("root")
	id, _ := repo.Insert(context.Background(), &domain.User{Username: "admin", Email: "admin@x.com", PasswordHash: hash, Role: domain.RoleAdmin})

	session, _, err := svc.Login(context.Background(), "admin@x.com", "root")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.Role != domain.RoleAdmin {
		t.Fatalf("role snapshot is %s, want admin", session.Role)
	}
	if session.UserID != id {
		t.Fatalf("session user id %d, want %d", session.UserID, id)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, newStubSessionStore())

	_, first, err := svc.Register(context.Background(), ports.RegisterInput{Username: "anna", Email: "a@x.com", Password: "p1"})
	if err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "impostor", Email: "a@x.com", Password: "p2"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// the winner is unaffected
	kept, err := repo.FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("winner lookup failed: %v", err)
	}
	if kept.ID != first.ID || kept.Username != "anna" {
		t.Fatalf("duplicate insert disturbed the original record: %+v", kept)
	}
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessionStore()
	svc := newAuthService(repo, sessions)

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "anna", Email: "a@x.com", Password: "p1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	session, _, err := svc.Login(context.Background(), "a@x.com", "p1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), session.Token); err != nil {
		t.Fatalf("first logout failed: %v", err)
	}
	if _, err := sessions.Get(context.Background(), session.Token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("session survived logout")
	}
	if err := svc.Logout(context.Background(), session.Token); err != nil {
		t.Fatalf("second logout must be a no-op, got %v", err)
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("logout without token must be a no-op, got %v", err)
	}
}

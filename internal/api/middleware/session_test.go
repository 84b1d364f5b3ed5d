package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/identity-system/internal/core/domain"
)

type stubSessionStore struct {
	sessions map[string]*domain.Session
	err      error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Create(_ context.Context, session *domain.Session) error {
	s.sessions[session.Token] = session
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
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

func loaderContext(t *testing.T, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSessionLoader_ResolvesCookie(t *testing.T) {
	store := newStubSessionStore()
	session := &domain.Session{Token: "tok1", UserID: 3, Username: "anna", Role: domain.RoleDefault, Authenticated: true}
	_ = store.Create(context.Background(), session)

	c, _ := loaderContext(t, "tok1")

	var got *domain.Session
	handler := SessionLoader(store, zerolog.Nop())(func(c echo.Context) error {
		got = Session(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got == nil || got.UserID != 3 || !got.Authenticated {
		t.Fatalf("unexpected session in context: %+v", got)
	}
}

func TestSessionLoader_AnonymousWithoutCookie(t *testing.T) {
	c, _ := loaderContext(t, "")

	handler := SessionLoader(newStubSessionStore(), zerolog.Nop())(func(c echo.Context) error {
		if Session(c) != nil {
			t.Fatalf("expected anonymous request")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSessionLoader_StaleTokenIsAnonymous(t *testing.T) {
	c, _ := loaderContext(t, "destroyed-token")

	handler := SessionLoader(newStubSessionStore(), zerolog.Nop())(func(c echo.Context) error {
		if Session(c) != nil {
			t.Fatalf("stale token must behave as anonymous")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSessionLoader_StoreFailure(t *testing.T) {
	store := newStubSessionStore()
	store.err = errors.New("connection refused")

	c, _ := loaderContext(t, "tok1")

	handler := SessionLoader(store, zerolog.Nop())(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 HTTPError, got %v", err)
	}
}

func TestLogout_GatedRequestBehavesAnonymous(t *testing.T) {
	store := newStubSessionStore()
	session := &domain.Session{Token: "tok1", UserID: 3, Username: "anna", Role: domain.RoleDefault, Authenticated: true}
	_ = store.Create(context.Background(), session)
	_ = store.Delete(context.Background(), "tok1") // logout

	c, rec := loaderContext(t, "tok1")

	chain := SessionLoader(store, zerolog.Nop())(RequireAuthenticated("/login")(func(c echo.Context) error {
		t.Fatalf("destroyed session must not pass the gate")
		return nil
	}))
	if err := chain(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect to login, got %d", rec.Code)
	}
}

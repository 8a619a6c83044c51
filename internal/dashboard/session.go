package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"weather-dashboard/internal/api"
)

var validate = validator.New()

// Principal is the authenticated user identity. It exists only between
// a successful login and logout; nothing is persisted across restarts.
type Principal struct {
	Email string
	ID    int64
}

// Session holds the current principal and owns the login/logout
// transitions, including the atomic teardown of the other state holders
// on logout.
type Session struct {
	mu        sync.Mutex
	remote    RemoteService
	locations *LocationStore
	selection *Selection
	history   *HistoryNavigator
	presenter Presenter

	principal *Principal
}

// Principal returns a copy of the current principal.
func (s *Session) Principal() (Principal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil {
		return Principal{}, false
	}
	return *s.principal, true
}

// Authenticated reports whether a principal is present.
func (s *Session) Authenticated() bool {
	_, ok := s.Principal()
	return ok
}

// currentPrincipal returns a detached pointer copy, nil when absent —
// the shape the store and navigator take.
func (s *Session) currentPrincipal() *Principal {
	p, ok := s.Principal()
	if !ok {
		return nil
	}
	return &p
}

// Login authenticates by email. The identifier must be non-empty and
// contain both "@" and "." — a local sanity check only, rejected before
// any network call. On success the saved-location list is reloaded and
// the dashboard switches to the device location. On any failure the
// prior principal is left untouched.
func (s *Session) Login(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,contains=@,contains=."); err != nil {
		s.presenter.Notify(LevelError, msgInvalidEmail)
		return ErrMalformedIdentifier
	}

	result, err := s.remote.Login(ctx, email)
	if err != nil {
		var serverErr *api.ServerError
		if errors.As(err, &serverErr) {
			s.presenter.Notify(LevelError, "Login failed: "+serverErr.Message)
		} else {
			s.presenter.Notify(LevelError, msgLoginTransport)
		}
		return fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	s.principal = &Principal{Email: email, ID: result.UserID}
	s.mu.Unlock()

	if result.Message != "" {
		s.presenter.Notify(LevelSuccess, result.Message)
	}

	if err := s.locations.Reload(ctx, s.currentPrincipal()); err != nil {
		// Login itself succeeded; the list can be reloaded later.
		log.Printf("session: initial location reload failed: %v", err)
	}
	return s.selection.SwitchTo(ctx, View{Kind: ViewDevice})
}

// Logout clears the principal and resets every dependent state holder:
// history mode off, saved locations emptied, dashboard back to Default.
// The mutations happen back-to-back with no network calls in between,
// so no caller can observe a cleared principal alongside stale saved
// locations. The Default forecast is fetched only after the teardown.
func (s *Session) Logout(ctx context.Context) error {
	s.history.deactivate()
	s.selection.reset()
	s.locations.Clear()

	s.mu.Lock()
	s.principal = nil
	s.mu.Unlock()

	return s.selection.Refresh(ctx)
}

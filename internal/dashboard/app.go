// Package dashboard is the client-side state-coordination core: the
// session, the saved-location list, the active dashboard view, and the
// history cursor, kept mutually consistent across user, network, and
// timer events. Rendering and event wiring live outside, behind the
// Presenter and Confirmer interfaces.
package dashboard

import (
	"context"
	"sync"
)

// App bundles the four cooperating state holders, wired together with
// explicit references at construction.
type App struct {
	Session   *Session
	Locations *LocationStore
	Selection *Selection
	History   *HistoryNavigator

	mu          sync.Mutex
	initialized bool
}

// New constructs the core with all collaborators injected.
func New(remote RemoteService, geo Geolocator, confirmer Confirmer, presenter Presenter) *App {
	selection := newSelection(remote, geo, presenter)
	locations := newLocationStore(remote, confirmer, presenter)
	history := newHistoryNavigator(remote, presenter)
	session := &Session{
		remote:    remote,
		locations: locations,
		selection: selection,
		history:   history,
		presenter: presenter,
	}

	selection.locations = locations
	locations.selection = selection
	history.selection = selection
	history.locations = locations
	history.session = session

	return &App{
		Session:   session,
		Locations: locations,
		Selection: selection,
		History:   history,
	}
}

// Initialize performs the first fetch for the Default view. Repeat
// calls are no-ops, so racing startup paths cannot double-fetch.
func (a *App) Initialize(ctx context.Context) error {
	a.mu.Lock()
	if a.initialized {
		a.mu.Unlock()
		return nil
	}
	a.initialized = true
	a.mu.Unlock()

	return a.Selection.Refresh(ctx)
}

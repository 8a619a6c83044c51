package dashboard

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"weather-dashboard/internal/weather"
)

// resolveAttempts bounds the reload-and-match loop after a save; the
// service may not list a new row immediately.
const (
	resolveAttempts = 3
	resolveDelay    = 200 * time.Millisecond
)

// LocationStore holds the authoritative client-side copy of the user's
// saved locations. The list is replaced wholesale by Reload; order is
// server-defined, so the selected location is tracked by stable id and
// the derived index is valid-or-absent by construction.
type LocationStore struct {
	mu        sync.Mutex
	remote    RemoteService
	confirmer Confirmer
	presenter Presenter
	selection *Selection

	list       []weather.SavedLocation
	selectedID string
	pending    *weather.Candidate
}

func newLocationStore(remote RemoteService, confirmer Confirmer, presenter Presenter) *LocationStore {
	return &LocationStore{
		remote:    remote,
		confirmer: confirmer,
		presenter: presenter,
	}
}

// Snapshot returns a copy of the current list in server order.
func (ls *LocationStore) Snapshot() []weather.SavedLocation {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	out := make([]weather.SavedLocation, len(ls.list))
	copy(out, ls.list)
	return out
}

// ByID resolves a stable id against the current list.
func (ls *LocationStore) ByID(id string) (weather.SavedLocation, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for _, loc := range ls.list {
		if loc.ID == id {
			return loc, true
		}
	}
	return weather.SavedLocation{}, false
}

// SelectedIndex returns the index of the selected location in the
// current list, or false when nothing is selected or the selected id is
// no longer present.
func (ls *LocationStore) SelectedIndex() (int, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.selectedID == "" {
		return 0, false
	}
	for i, loc := range ls.list {
		if loc.ID == ls.selectedID {
			return i, true
		}
	}
	return 0, false
}

// Select marks a location as the one backing the dashboard view. An
// empty id clears the selection.
func (ls *LocationStore) Select(id string) {
	ls.mu.Lock()
	list := ls.copyLocked()
	ls.selectedID = id
	ls.mu.Unlock()
	ls.presenter.ShowLocations(list, id)
}

// Reload replaces the list from the service. With no principal the list
// is cleared without error. A failed reload leaves the previous list
// untouched. Selection survives only if the selected stable id is still
// present afterwards.
func (ls *LocationStore) Reload(ctx context.Context, principal *Principal) error {
	if principal == nil {
		ls.Clear()
		return nil
	}

	locations, err := ls.remote.ListLocations(ctx, principal.Email)
	if err != nil {
		return fmt.Errorf("reload locations: %w", err)
	}

	ls.mu.Lock()
	ls.list = locations
	if ls.selectedID != "" {
		found := false
		for _, loc := range locations {
			if loc.ID == ls.selectedID {
				found = true
				break
			}
		}
		if !found {
			ls.selectedID = ""
		}
	}
	list := ls.copyLocked()
	selected := ls.selectedID
	ls.mu.Unlock()

	ls.presenter.ShowLocations(list, selected)
	return nil
}

// Search geocodes a free-text query into a candidate and parks it as
// the pending candidate awaiting confirmation. Nothing is persisted
// until ConfirmSave.
func (ls *LocationStore) Search(ctx context.Context, principal *Principal, query string) (weather.Candidate, error) {
	if principal == nil {
		return weather.Candidate{}, ErrNotAuthenticated
	}
	if query == "" {
		return weather.Candidate{}, fmt.Errorf("empty location query")
	}

	cand, err := ls.remote.SearchLocation(ctx, query)
	if err != nil {
		ls.presenter.Notify(LevelError, fetchMessage(err))
		return weather.Candidate{}, err
	}

	ls.mu.Lock()
	ls.pending = &cand
	ls.mu.Unlock()
	return cand, nil
}

// Pending returns the candidate awaiting confirmation, if any.
func (ls *LocationStore) Pending() (weather.Candidate, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.pending == nil {
		return weather.Candidate{}, false
	}
	return *ls.pending, true
}

// CancelPending discards the candidate without saving.
func (ls *LocationStore) CancelPending() {
	ls.mu.Lock()
	ls.pending = nil
	ls.mu.Unlock()
}

// ConfirmSave persists the pending candidate, reloads the list, and
// resolves the stored record by coordinate match — the service does not
// guarantee the new row's position or immediate visibility, so the id
// is never assumed from the echo and never from list position. On
// success the dashboard switches to the new saved location.
func (ls *LocationStore) ConfirmSave(ctx context.Context, principal *Principal, customName string) (weather.SavedLocation, error) {
	if principal == nil {
		return weather.SavedLocation{}, ErrNotAuthenticated
	}

	ls.mu.Lock()
	if ls.pending == nil {
		ls.mu.Unlock()
		return weather.SavedLocation{}, ErrNoPendingCandidate
	}
	cand := *ls.pending
	ls.mu.Unlock()

	echoed, message, err := ls.remote.SaveLocation(ctx, principal.Email, cand, customName)
	if err != nil {
		ls.presenter.Notify(LevelError, fetchMessage(err))
		return weather.SavedLocation{}, err
	}
	if message != "" {
		ls.presenter.Notify(LevelSuccess, message)
	}

	ls.mu.Lock()
	ls.pending = nil
	ls.mu.Unlock()

	resolved, err := retry.DoWithData(
		func() (weather.SavedLocation, error) {
			if err := ls.Reload(ctx, principal); err != nil {
				return weather.SavedLocation{}, err
			}
			for _, loc := range ls.Snapshot() {
				if weather.CoordsMatch(loc.Latitude, loc.Longitude, cand.Latitude, cand.Longitude) {
					return loc, nil
				}
			}
			return weather.SavedLocation{}, ErrLocationNotConfirmed
		},
		retry.Attempts(resolveAttempts),
		retry.Delay(resolveDelay),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		log.Printf("location store: could not resolve saved location %q (echoed id %q): %v", cand.Name, echoed.ID, err)
		return weather.SavedLocation{}, err
	}

	ls.Select(resolved.ID)
	if err := ls.selection.SwitchTo(ctx, View{Kind: ViewSaved, SavedID: resolved.ID}); err != nil {
		return resolved, err
	}
	return resolved, nil
}

// Remove deletes a saved location by stable id after interactive
// confirmation. If the removed location backs the active dashboard
// view, the dashboard falls back to the device location as part of the
// same operation.
func (ls *LocationStore) Remove(ctx context.Context, principal *Principal, id string) error {
	if principal == nil {
		return ErrNotAuthenticated
	}
	loc, ok := ls.ByID(id)
	if !ok {
		return ErrUnknownLocation
	}

	if !ls.confirmer.Confirm(fmt.Sprintf("Remove %q from your saved locations?", loc.Name)) {
		return nil
	}

	message, err := ls.remote.RemoveLocation(ctx, principal.Email, id)
	if err != nil {
		ls.presenter.Notify(LevelError, fetchMessage(err))
		return err
	}

	view, _ := ls.selection.Current()
	wasActive := (view.Kind == ViewSaved || view.Kind == ViewHistory) && view.SavedID == id

	if err := ls.Reload(ctx, principal); err != nil {
		log.Printf("location store: reload after remove failed: %v", err)
	}
	if message != "" {
		ls.presenter.Notify(LevelSuccess, message)
	}

	if wasActive {
		ls.Select("")
		return ls.selection.SwitchTo(ctx, View{Kind: ViewDevice})
	}
	return nil
}

// Clear empties the list, the selection, and any pending candidate.
func (ls *LocationStore) Clear() {
	ls.mu.Lock()
	ls.list = nil
	ls.selectedID = ""
	ls.pending = nil
	ls.mu.Unlock()
	ls.presenter.ShowLocations(nil, "")
}

func (ls *LocationStore) copyLocked() []weather.SavedLocation {
	out := make([]weather.SavedLocation, len(ls.list))
	copy(out, ls.list)
	return out
}

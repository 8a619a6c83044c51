package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"weather-dashboard/internal/api"
	"weather-dashboard/internal/weather"
)

// HistoryNavigator owns the (year, month) cursor while the dashboard is
// in history mode. History is a sub-mode of a saved-location view: it
// can only be entered from Saved while authenticated, and the cursor
// can never point past the current calendar month.
type HistoryNavigator struct {
	mu        sync.Mutex
	remote    RemoteService
	presenter Presenter
	selection *Selection
	locations *LocationStore
	session   *Session
	now       func() time.Time

	active  bool
	loc     weather.SavedLocation
	year    int
	month   int
	payload *weather.HistoryPayload
}

func newHistoryNavigator(remote RemoteService, presenter Presenter) *HistoryNavigator {
	return &HistoryNavigator{
		remote:    remote,
		presenter: presenter,
		now:       time.Now,
	}
}

// Active reports whether history mode is on.
func (h *HistoryNavigator) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Cursor returns the current (year, month) while active.
func (h *HistoryNavigator) Cursor() (year, month int, active bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.year, h.month, h.active
}

// Enter switches the dashboard into history mode for the currently
// selected saved location, starting at the current calendar month.
func (h *HistoryNavigator) Enter(ctx context.Context) error {
	principal := h.session.currentPrincipal()
	if principal == nil {
		h.presenter.Notify(LevelError, "Please log in to view weather history")
		return ErrNotAuthenticated
	}

	view, _ := h.selection.Current()
	if view.Kind != ViewSaved {
		h.presenter.Notify(LevelInfo, "Weather history is only available for saved locations")
		return ErrHistoryUnavailable
	}
	loc, ok := h.locations.ByID(view.SavedID)
	if !ok {
		return ErrUnknownLocation
	}

	today := h.now()
	h.mu.Lock()
	h.active = true
	h.loc = loc
	h.year = today.Year()
	h.month = int(today.Month())
	h.payload = nil
	h.mu.Unlock()

	h.selection.enterHistory(loc.ID)
	return h.LoadMonth(ctx)
}

// Navigate moves the cursor by one month (delta −1 or +1) with year
// rollover. A move past the current calendar month is rejected: the
// cursor stays put, ErrFutureDateRejected is reported, and no fetch is
// issued.
func (h *HistoryNavigator) Navigate(ctx context.Context, delta int) error {
	if delta != -1 && delta != 1 {
		return fmt.Errorf("navigate: delta must be -1 or +1, got %d", delta)
	}

	h.mu.Lock()
	if !h.active {
		h.mu.Unlock()
		return ErrNotInHistory
	}

	year, month := h.year, h.month+delta
	if month > 12 {
		month = 1
		year++
	} else if month < 1 {
		month = 12
		year--
	}

	today := h.now()
	requested := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	current := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	if requested.After(current) {
		h.mu.Unlock()
		h.presenter.Notify(LevelError, "Cannot view future weather data")
		return ErrFutureDateRejected
	}

	h.year, h.month = year, month
	h.mu.Unlock()

	return h.LoadMonth(ctx)
}

// LoadMonth fetches the cursor month for the active location and
// renders its daily records with aggregate statistics. Partial months
// (the current month, or archive gaps) aggregate over whatever days
// came back.
func (h *HistoryNavigator) LoadMonth(ctx context.Context) error {
	h.mu.Lock()
	if !h.active {
		h.mu.Unlock()
		return ErrNotInHistory
	}
	loc := h.loc
	year, month := h.year, h.month
	h.mu.Unlock()

	principal := h.session.currentPrincipal()
	if principal == nil {
		return ErrNotAuthenticated
	}

	payload, err := h.remote.MonthlyHistory(ctx, principal.Email, loc.ID, year, month)
	if err != nil {
		h.mu.Lock()
		stale := !h.active || h.year != year || h.month != month
		h.mu.Unlock()
		if stale {
			// The cursor moved on while this month was in flight; the
			// newer load's outcome is the one the user sees.
			return nil
		}
		h.presenter.Notify(LevelError, historyMessage(err))
		return err
	}

	h.mu.Lock()
	if !h.active || h.year != year || h.month != month {
		// Navigated away while the fetch was in flight.
		h.mu.Unlock()
		return nil
	}
	h.payload = &payload
	h.mu.Unlock()

	if payload.FromCache {
		log.Printf("history: %s %d-%02d served from cache (%d days)", loc.Name, year, month, payload.Period.TotalDays)
	}

	h.presenter.ShowHistory(loc, payload, weather.AggregateMonth(payload.Days))
	return nil
}

// Exit leaves history mode and hands control back to the saved-location
// view the navigator was entered from, re-fetching its forecast.
func (h *HistoryNavigator) Exit(ctx context.Context) error {
	h.mu.Lock()
	if !h.active {
		h.mu.Unlock()
		return nil
	}
	savedID := h.loc.ID
	h.clearLocked()
	h.mu.Unlock()

	return h.selection.exitHistory(ctx, savedID)
}

// deactivate silently drops history state without touching the
// selection. Only logout uses this; it resets the selection itself.
func (h *HistoryNavigator) deactivate() {
	h.mu.Lock()
	h.clearLocked()
	h.mu.Unlock()
}

func (h *HistoryNavigator) clearLocked() {
	h.active = false
	h.loc = weather.SavedLocation{}
	h.year = 0
	h.month = 0
	h.payload = nil
}

func historyMessage(err error) string {
	var serverErr *api.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Message
	}
	return msgHistoryLoadFailed
}

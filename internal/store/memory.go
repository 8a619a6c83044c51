// Package store is the dashboard service's in-memory persistence:
// users, their saved locations, and a per-location cache of historical
// weather days. State lives for the process lifetime only.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when a user or location does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateLocation is returned when a user saves a location
	// they already have (within coordinate tolerance).
	ErrDuplicateLocation = errors.New("location already saved")
)

// User is a registered dashboard user.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type savedRow struct {
	id         string
	userID     int64
	baseName   string
	customName string
	region     string
	country    string
	latitude   float64
	longitude  float64
	createdAt  time.Time
}

func (r savedRow) displayName() string {
	if r.customName != "" {
		return r.customName
	}
	return r.baseName
}

func (r savedRow) toSaved() weather.SavedLocation {
	return weather.SavedLocation{
		ID:        r.id,
		Name:      r.displayName(),
		Region:    r.region,
		Country:   r.country,
		Latitude:  r.latitude,
		Longitude: r.longitude,
		CreatedAt: r.createdAt.UTC().Format(time.RFC3339),
	}
}

// MemoryStore is a concurrency-safe in-memory implementation of the
// service's persistence.
type MemoryStore struct {
	mu sync.RWMutex

	nextUserID int64
	users      map[string]*User // key: email

	locations map[int64][]savedRow // key: user id, server order

	// history cache, key: coordinate key, inner key: YYYY-MM-DD
	history map[string]map[string]weather.HistoryDay
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextUserID: 1,
		users:      make(map[string]*User),
		locations:  make(map[int64][]savedRow),
		history:    make(map[string]map[string]weather.HistoryDay),
	}
}

// GetOrCreateUser returns the user for an email, creating it on first
// login. The second result reports whether the user already existed.
func (s *MemoryStore) GetOrCreateUser(email string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[email]; ok {
		return *u, true
	}
	u := &User{
		ID:        s.nextUserID,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	s.nextUserID++
	s.users[email] = u
	return *u, false
}

// UserByEmail looks up a registered user.
func (s *MemoryStore) UserByEmail(email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[email]; ok {
		return *u, nil
	}
	return User{}, fmt.Errorf("user %q: %w", email, ErrNotFound)
}

// ListLocations returns a user's saved locations in server order.
func (s *MemoryStore) ListLocations(userID int64) []weather.SavedLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.locations[userID]
	out := make([]weather.SavedLocation, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toSaved())
	}
	return out
}

// GetLocation resolves a user's saved location by stable id.
func (s *MemoryStore) GetLocation(userID int64, id string) (weather.SavedLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.locations[userID] {
		if r.id == id {
			return r.toSaved(), nil
		}
	}
	return weather.SavedLocation{}, fmt.Errorf("location %q: %w", id, ErrNotFound)
}

// SaveLocation persists a confirmed candidate for a user. The stable id
// is assigned here and never reused.
func (s *MemoryStore) SaveLocation(userID int64, cand weather.Candidate, customName string) (weather.SavedLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.locations[userID] {
		if weather.CoordsMatch(r.latitude, r.longitude, cand.Latitude, cand.Longitude) {
			return weather.SavedLocation{}, fmt.Errorf("%q: %w", r.displayName(), ErrDuplicateLocation)
		}
	}

	row := savedRow{
		id:         uuid.NewString(),
		userID:     userID,
		baseName:   cand.Name,
		customName: customName,
		region:     cand.Region,
		country:    cand.Country,
		latitude:   cand.Latitude,
		longitude:  cand.Longitude,
		createdAt:  time.Now().UTC(),
	}
	s.locations[userID] = append(s.locations[userID], row)
	return row.toSaved(), nil
}

// RemoveLocation deletes a user's saved location by stable id and
// returns its display name.
func (s *MemoryStore) RemoveLocation(userID int64, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.locations[userID]
	for i, r := range rows {
		if r.id == id {
			s.locations[userID] = append(rows[:i:i], rows[i+1:]...)
			return r.displayName(), nil
		}
	}
	return "", fmt.Errorf("location %q: %w", id, ErrNotFound)
}

// coordKey buckets coordinates for the history cache; locations within
// matching tolerance share cached history.
func coordKey(lat, lon float64) string {
	return fmt.Sprintf("%.3f:%.3f", lat, lon)
}

// HistoryRange returns the cached history days for a date range in
// ascending date order, and whether every day in the range is present.
func (s *MemoryStore) HistoryRange(lat, lon float64, start, end time.Time) ([]weather.HistoryDay, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDate := s.history[coordKey(lat, lon)]
	if byDate == nil {
		return nil, false
	}

	var out []weather.HistoryDay
	complete := true
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if day, ok := byDate[d.Format("2006-01-02")]; ok {
			out = append(out, day)
		} else {
			complete = false
		}
	}
	return out, complete
}

// PutHistory upserts history days into the cache.
func (s *MemoryStore) PutHistory(lat, lon float64, days []weather.HistoryDay) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := coordKey(lat, lon)
	byDate := s.history[key]
	if byDate == nil {
		byDate = make(map[string]weather.HistoryDay)
		s.history[key] = byDate
	}
	for _, day := range days {
		byDate[day.Date] = day
	}
}

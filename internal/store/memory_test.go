package store

import (
	"errors"
	"testing"
	"time"

	"weather-dashboard/internal/weather"
)

func TestGetOrCreateUser(t *testing.T) {
	s := NewMemoryStore()

	u1, existed := s.GetOrCreateUser("a@example.com")
	if existed {
		t.Fatal("first login reported as existing")
	}
	u2, existed := s.GetOrCreateUser("a@example.com")
	if !existed {
		t.Fatal("second login reported as new")
	}
	if u1.ID != u2.ID {
		t.Fatalf("ids differ across logins: %d vs %d", u1.ID, u2.ID)
	}

	u3, _ := s.GetOrCreateUser("b@example.com")
	if u3.ID == u1.ID {
		t.Fatal("distinct users share an id")
	}

	if _, err := s.UserByEmail("nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UserByEmail(missing) = %v, want ErrNotFound", err)
	}
}

func TestSaveLocation(t *testing.T) {
	s := NewMemoryStore()
	u, _ := s.GetOrCreateUser("a@example.com")

	paris := weather.Candidate{Name: "Paris, France", Country: "France", Latitude: 48.8567, Longitude: 2.3521}
	saved, err := s.SaveLocation(u.ID, paris, "")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("no stable id assigned")
	}
	if saved.Name != "Paris, France" {
		t.Fatalf("name = %q", saved.Name)
	}

	// A near-identical coordinate pair is the same place.
	dup := weather.Candidate{Name: "Paris", Latitude: 48.8569, Longitude: 2.3519}
	if _, err := s.SaveLocation(u.ID, dup, ""); !errors.Is(err, ErrDuplicateLocation) {
		t.Fatalf("duplicate save = %v, want ErrDuplicateLocation", err)
	}

	// Another user may save the same place.
	other, _ := s.GetOrCreateUser("b@example.com")
	if _, err := s.SaveLocation(other.ID, paris, ""); err != nil {
		t.Fatalf("other user's save: %v", err)
	}
}

func TestCustomNameWinsOverBase(t *testing.T) {
	s := NewMemoryStore()
	u, _ := s.GetOrCreateUser("a@example.com")

	cand := weather.Candidate{Name: "London, England, United Kingdom", Latitude: 51.5074, Longitude: -0.1278}
	saved, err := s.SaveLocation(u.ID, cand, "Home")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Name != "Home" {
		t.Fatalf("name = %q, want custom name Home", saved.Name)
	}

	got, err := s.GetLocation(u.ID, saved.ID)
	if err != nil || got.Name != "Home" {
		t.Fatalf("GetLocation = %+v, %v", got, err)
	}
}

func TestRemoveLocation(t *testing.T) {
	s := NewMemoryStore()
	u, _ := s.GetOrCreateUser("a@example.com")

	first, _ := s.SaveLocation(u.ID, weather.Candidate{Name: "Oslo", Latitude: 59.91, Longitude: 10.75}, "")
	second, _ := s.SaveLocation(u.ID, weather.Candidate{Name: "Bergen", Latitude: 60.39, Longitude: 5.32}, "")

	name, err := s.RemoveLocation(u.ID, first.ID)
	if err != nil || name != "Oslo" {
		t.Fatalf("remove = %q, %v", name, err)
	}

	list := s.ListLocations(u.ID)
	if len(list) != 1 || list[0].ID != second.ID {
		t.Fatalf("list after remove = %+v", list)
	}

	if _, err := s.RemoveLocation(u.ID, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second remove = %v, want ErrNotFound", err)
	}
	// A user cannot remove someone else's location.
	other, _ := s.GetOrCreateUser("b@example.com")
	if _, err := s.RemoveLocation(other.ID, second.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user remove = %v, want ErrNotFound", err)
	}
}

func TestHistoryRange(t *testing.T) {
	s := NewMemoryStore()
	lat, lon := 48.8567, 2.3521
	start := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.July, 3, 0, 0, 0, 0, time.UTC)

	if _, complete := s.HistoryRange(lat, lon, start, end); complete {
		t.Fatal("empty cache reported complete")
	}

	s.PutHistory(lat, lon, []weather.HistoryDay{
		{Date: "2026-07-03", MaxTempF: 80},
		{Date: "2026-07-01", MaxTempF: 76},
	})

	days, complete := s.HistoryRange(lat, lon, start, end)
	if complete {
		t.Fatal("gap on 2026-07-02 reported complete")
	}
	if len(days) != 2 || days[0].Date != "2026-07-01" || days[1].Date != "2026-07-03" {
		t.Fatalf("days = %+v, want ascending date order", days)
	}

	s.PutHistory(lat, lon, []weather.HistoryDay{{Date: "2026-07-02", MaxTempF: 78}})
	days, complete = s.HistoryRange(lat, lon, start, end)
	if !complete || len(days) != 3 {
		t.Fatalf("filled range: complete=%v, days=%d", complete, len(days))
	}

	// Coordinates within matching tolerance share the cache bucket.
	if _, complete := s.HistoryRange(48.857, 2.352, start, end); !complete {
		t.Fatal("tolerance-equal coordinates missed the cache")
	}
}

package traffic

import (
	"errors"
	"time"

	"bikeflow/internal/domain/models"
)

// ErrNotLoaded is returned when a refresh is requested before the initial
// load of stations and trips has completed.
var ErrNotLoaded = errors.New("trip store not loaded")

// Store holds the stations and trips for one reporting period. It is never
// mutated after NewStore returns.
type Store struct {
	stations []models.Station
	trips    []models.Trip
	loadedAt time.Time
}

func NewStore(stations []models.Station, trips []models.Trip) *Store {
	s := &Store{
		stations: make([]models.Station, len(stations)),
		trips:    make([]models.Trip, len(trips)),
		loadedAt: time.Now(),
	}
	copy(s.stations, stations)
	copy(s.trips, trips)
	return s
}

// Stations and Trips must be treated as read-only by callers.
func (s *Store) Stations() []models.Station {
	if s == nil {
		return nil
	}
	return s.stations
}

func (s *Store) Trips() []models.Trip {
	if s == nil {
		return nil
	}
	return s.trips
}

func (s *Store) LoadedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.loadedAt
}

func (s *Store) Ready() bool {
	return s != nil
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bikeflow/internal/domain"
	"bikeflow/internal/domain/models"
	"bikeflow/internal/repositories"
	"bikeflow/internal/traffic"
	"bikeflow/internal/utils"

	"github.com/patrickmn/go-cache"
)

// StoreStats summarizes the currently loaded trip store.
type StoreStats struct {
	Loaded   bool         `json:"loaded"`
	Stations int          `json:"stations"`
	Trips    int          `json:"trips"`
	Skipped  int          `json:"skipped_rows"`
	LoadedAt time.Time    `json:"loaded_at,omitempty"`
	Period   domain.Range `json:"period"`
}

// TrafficService owns the trip store and serves per-filter snapshots.
// Snapshots are cached per filter until the next Load.
type TrafficService struct {
	StationRepo repositories.StationRepository
	TripsRepo   repositories.TripsRepository
	Period      domain.Range

	// Loader replaces the repositories when set.
	Loader func(ctx context.Context) ([]models.Station, []models.Trip, error)

	mu       sync.RWMutex
	store    *traffic.Store
	skipped  int
	pipeline traffic.Pipeline
	cache    *cache.Cache
}

func NewTrafficService(stationRepo repositories.StationRepository, tripsRepo repositories.TripsRepository, period domain.Range, ttl time.Duration) *TrafficService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &TrafficService{
		StationRepo: stationRepo,
		TripsRepo:   tripsRepo,
		Period:      period,
		cache:       cache.New(ttl, 2*ttl),
	}
}

func snapshotKey(f traffic.TimeFilter) string {
	return "snapshot:" + f.Key()
}

// Load reads stations and trips and replaces the store. Cached snapshots
// from the previous store are dropped.
func (s *TrafficService) Load(ctx context.Context, requestID string) (StoreStats, error) {
	stations, trips, skipped, err := s.load(ctx)
	if err != nil {
		utils.LogEvent(requestID, "traffic", "load_error", err.Error())
		return StoreStats{}, err
	}

	store := traffic.NewStore(stations, trips)

	s.mu.Lock()
	s.store = store
	s.skipped = skipped
	if s.cache == nil {
		s.cache = cache.New(10*time.Minute, 20*time.Minute)
	}
	s.cache.Flush()
	s.mu.Unlock()

	utils.LogEvent(requestID, "traffic", "load", utils.Fields(map[string]any{
		"stations": len(stations),
		"trips":    len(trips),
		"skipped":  skipped,
	}))
	return s.Stats(), nil
}

func (s *TrafficService) load(ctx context.Context) ([]models.Station, []models.Trip, int, error) {
	if s.Loader != nil {
		stations, trips, err := s.Loader(ctx)
		return stations, trips, 0, err
	}

	stations, err := s.StationRepo.ListStations(ctx)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("load stations: %w", err)
	}
	trips, err := s.TripsRepo.ListTrips(ctx, s.Period)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("load trips: %w", err)
	}
	return stations.Stations, trips.Trips, stations.Skipped + trips.Skipped, nil
}

// Snapshot runs the refresh pipeline for f, or returns a copy of the cached
// result.
func (s *TrafficService) Snapshot(requestID string, f traffic.TimeFilter) (traffic.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.store.Ready() {
		return traffic.Snapshot{}, domain.UnavailableError{Resource: "traffic", Err: traffic.ErrNotLoaded}
	}

	key := snapshotKey(f)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if snap, ok := v.(traffic.Snapshot); ok {
				return snap.Clone(), nil
			}
		}
	}

	snap, err := s.pipeline.Run(s.store, f)
	if err != nil {
		return traffic.Snapshot{}, domain.InternalError{Msg: "refresh failed", Err: err}
	}
	if s.cache != nil {
		s.cache.SetDefault(key, snap)
	}

	utils.LogEvent(requestID, "traffic", "refresh", utils.Fields(map[string]any{
		"filter":    f.Key(),
		"trips":     snap.TripCount,
		"max_total": snap.MaxTotal,
	}))
	return snap.Clone(), nil
}

// Stations returns the loaded station list, read-only.
func (s *TrafficService) Stations() ([]models.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.store.Ready() {
		return nil, domain.UnavailableError{Resource: "stations", Err: traffic.ErrNotLoaded}
	}
	return s.store.Stations(), nil
}

func (s *TrafficService) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.store.Ready() {
		return StoreStats{Period: s.Period}
	}
	return StoreStats{
		Loaded:   true,
		Stations: len(s.store.Stations()),
		Trips:    len(s.store.Trips()),
		Skipped:  s.skipped,
		LoadedAt: s.store.LoadedAt(),
		Period:   s.Period,
	}
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bikeflow/internal/domain"
	"bikeflow/internal/domain/models"
	"bikeflow/internal/repositories"
	"bikeflow/internal/traffic"

	"github.com/DATA-DOG/go-sqlmock"
)

func fixtureLoader(calls *int) func(context.Context) ([]models.Station, []models.Trip, error) {
	return func(context.Context) ([]models.Station, []models.Trip, error) {
		*calls++
		at := func(h, m int) time.Time { return time.Date(2024, 3, 5, h, m, 0, 0, time.UTC) }
		return []models.Station{{ID: "A", Name: "Alpha"}, {ID: "B", Name: "Bravo"}},
			[]models.Trip{
				{StartStationID: "A", EndStationID: "B", StartedAt: at(8, 0), EndedAt: at(8, 0)},
				{StartStationID: "A", EndStationID: "A", StartedAt: at(8, 5), EndedAt: at(8, 5)},
			}, nil
	}
}

func TestTrafficServiceSnapshotBeforeLoad(t *testing.T) {
	svc := NewTrafficService(repositories.StationRepository{}, repositories.TripsRepository{}, domain.Range{}, time.Minute)
	_, err := svc.Snapshot("req", traffic.Unfiltered())
	if !domain.IsUnavailable(err) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if !errors.Is(err, traffic.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded in chain, got %v", err)
	}
	if _, err := svc.Stations(); !domain.IsUnavailable(err) {
		t.Fatalf("expected unavailable error for stations, got %v", err)
	}
	if svc.Stats().Loaded {
		t.Fatalf("stats should report not loaded")
	}
}

func TestTrafficServiceSnapshot(t *testing.T) {
	calls := 0
	svc := NewTrafficService(repositories.StationRepository{}, repositories.TripsRepository{}, domain.Range{}, time.Minute)
	svc.Loader = fixtureLoader(&calls)

	stats, err := svc.Load(context.Background(), "req")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !stats.Loaded || stats.Stations != 2 || stats.Trips != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	snap, err := svc.Snapshot("req", traffic.Unfiltered())
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if snap.Stations[0].Total != 3 || snap.Stations[1].Total != 1 {
		t.Fatalf("unexpected totals %+v", snap.Stations)
	}

	late, err := svc.Snapshot("req", traffic.At(10*60+30))
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if late.TripCount != 0 || late.MaxTotal != 0 || late.RadiusMax != traffic.FilteredRadius {
		t.Fatalf("unexpected filtered snapshot %+v", late)
	}

	// the unfiltered snapshot must not be affected by the later refresh
	again, err := svc.Snapshot("req", traffic.Unfiltered())
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if again.Stations[0].Total != 3 {
		t.Fatalf("unfiltered snapshot changed: %+v", again.Stations[0])
	}
}

func TestTrafficServiceSnapshotCallerCannotCorruptCache(t *testing.T) {
	calls := 0
	svc := NewTrafficService(repositories.StationRepository{}, repositories.TripsRepository{}, domain.Range{}, time.Minute)
	svc.Loader = fixtureLoader(&calls)
	if _, err := svc.Load(context.Background(), "req"); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	for i := 0; i < 2; i++ {
		snap, err := svc.Snapshot("req", traffic.Unfiltered())
		if err != nil {
			t.Fatalf("Snapshot returned error: %v", err)
		}
		if snap.Stations[0].ID != "A" || snap.Stations[0].Total != 3 {
			t.Fatalf("call %d: unexpected first station %+v", i, snap.Stations[0])
		}
		snap.Stations[0].Total = 0
		snap.Stations[0], snap.Stations[1] = snap.Stations[1], snap.Stations[0]
	}
}

func TestTrafficServiceReloadFlushesCache(t *testing.T) {
	calls := 0
	svc := NewTrafficService(repositories.StationRepository{}, repositories.TripsRepository{}, domain.Range{}, time.Minute)
	svc.Loader = fixtureLoader(&calls)
	if _, err := svc.Load(context.Background(), ""); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, err := svc.Snapshot("", traffic.Unfiltered()); err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}

	svc.Loader = func(context.Context) ([]models.Station, []models.Trip, error) {
		return []models.Station{{ID: "A"}}, nil, nil
	}
	if _, err := svc.Load(context.Background(), ""); err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	snap, err := svc.Snapshot("", traffic.Unfiltered())
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if len(snap.Stations) != 1 || snap.Stations[0].Total != 0 {
		t.Fatalf("expected fresh snapshot after reload, got %+v", snap.Stations)
	}
}

func TestTrafficServiceLoadError(t *testing.T) {
	svc := NewTrafficService(repositories.StationRepository{}, repositories.TripsRepository{}, domain.Range{}, time.Minute)
	svc.Loader = func(context.Context) ([]models.Station, []models.Trip, error) {
		return nil, nil, errors.New("db down")
	}
	if _, err := svc.Load(context.Background(), ""); err == nil {
		t.Fatalf("expected load error")
	}
	if svc.Stats().Loaded {
		t.Fatalf("failed load must not mark the store loaded")
	}
}

func TestTrafficServiceLoadFromRepositories(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	started := time.Date(2024, 3, 5, 17, 30, 0, 0, time.UTC)
	mock.ExpectQuery("information_schema\\.tables").WithArgs("stations").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("stations"))
	mock.ExpectQuery("information_schema\\.columns").WithArgs("stations", "name").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))
	mock.ExpectQuery("SELECT short_name, '', lon, lat FROM stations").
		WillReturnRows(sqlmock.NewRows([]string{"short_name", "name", "lon", "lat"}).AddRow("A", "", -71.1, 42.3).
			AddRow("C", "", nil, nil))
	mock.ExpectQuery("information_schema\\.tables").WithArgs("trips").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("trips"))
	mock.ExpectQuery("SELECT start_station_id, end_station_id, started_at, ended_at FROM trips").
		WillReturnRows(sqlmock.NewRows([]string{"start_station_id", "end_station_id", "started_at", "ended_at"}).
			AddRow("A", "A", started, started.Add(20*time.Minute)).
			AddRow("A", "B", nil, started))

	svc := NewTrafficService(repositories.StationRepository{DB: db}, repositories.TripsRepository{DB: db}, domain.Range{}, time.Minute)
	stats, err := svc.Load(context.Background(), "req")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if stats.Stations != 1 || stats.Trips != 1 || stats.Skipped != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

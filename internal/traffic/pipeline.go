package traffic

import (
	"sync"
	"sync/atomic"

	"bikeflow/internal/domain"
)

// Stage is a refresh pipeline state.
type Stage int

const (
	StageIdle Stage = iota
	StageFiltering
	StageAggregating
	StageScaling
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageFiltering:
		return "filtering"
	case StageAggregating:
		return "aggregating"
	case StageScaling:
		return "scaling"
	default:
		return "unknown"
	}
}

// StationView is what the map client needs to draw one station.
type StationView struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Lon            float64 `json:"lon"`
	Lat            float64 `json:"lat"`
	Departures     int     `json:"departures"`
	Arrivals       int     `json:"arrivals"`
	Total          int     `json:"total_traffic"`
	Radius         float64 `json:"radius"`
	DepartureRatio float64 `json:"departure_ratio"`
	Tooltip        string  `json:"tooltip"`
}

// Snapshot is the result of one refresh. It shares nothing mutable with
// the store or with other snapshots.
type Snapshot struct {
	Filter    TimeFilter    `json:"-"`
	TimeKey   string        `json:"time"`
	Label     string        `json:"label"`
	TripCount int           `json:"trip_count"`
	MaxTotal  int           `json:"max_total"`
	RadiusMax float64       `json:"radius_max"`
	Stations  []StationView `json:"stations"`
}

// Station returns the view for id.
func (s Snapshot) Station(id string) (StationView, error) {
	for _, v := range s.Stations {
		if v.ID == id {
			return v, nil
		}
	}
	return StationView{}, domain.NotFoundError{Resource: "station " + id}
}

// Clone copies the station views so the result can be modified without
// affecting s.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Stations != nil {
		out.Stations = make([]StationView, len(s.Stations))
		copy(out.Stations, s.Stations)
	}
	return out
}

// Pipeline runs filter -> aggregate -> scale. Concurrent Run calls are
// serialized; each runs to completion before the next starts.
type Pipeline struct {
	// OnStage, if set, is called on every stage transition from inside
	// Run. It may call Stage but must not call Run.
	OnStage func(Stage)

	mu    sync.Mutex
	stage atomic.Int32
}

func (p *Pipeline) Stage() Stage {
	return Stage(p.stage.Load())
}

func (p *Pipeline) enter(s Stage) {
	p.stage.Store(int32(s))
	if p.OnStage != nil {
		p.OnStage(s)
	}
}

func (p *Pipeline) Run(store *Store, f TimeFilter) (Snapshot, error) {
	if !store.Ready() {
		return Snapshot{}, ErrNotLoaded
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.enter(StageIdle)

	p.enter(StageFiltering)
	trips := FilterTrips(store.Trips(), f)

	p.enter(StageAggregating)
	counts := Aggregate(store.Stations(), trips)

	p.enter(StageScaling)
	radius := NewRadiusScale(counts, f)

	views := make([]StationView, len(counts))
	for i, st := range counts {
		views[i] = StationView{
			ID:             st.Station.ID,
			Name:           st.Station.Name,
			Lon:            st.Station.Lon,
			Lat:            st.Station.Lat,
			Departures:     st.Departures,
			Arrivals:       st.Arrivals,
			Total:          st.Total,
			Radius:         radius.Radius(st.Total),
			DepartureRatio: RatioBucket(st),
			Tooltip:        st.Tooltip(),
		}
	}

	return Snapshot{
		Filter:    f,
		TimeKey:   f.Key(),
		Label:     f.Label(),
		TripCount: len(trips),
		MaxTotal:  int(radius.DomainMax),
		RadiusMax: radius.RangeMax,
		Stations:  views,
	}, nil
}

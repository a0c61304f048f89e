package traffic

import (
	"fmt"

	"bikeflow/internal/domain/models"
)

// StationTraffic is one station's counts for a single aggregation.
type StationTraffic struct {
	Station    models.Station `json:"station"`
	Departures int            `json:"departures"`
	Arrivals   int            `json:"arrivals"`
	Total      int            `json:"total"`
}

// Tooltip is the hover text shown for the station circle.
func (st StationTraffic) Tooltip() string {
	return fmt.Sprintf("%d trips (Departures: %d, Arrivals: %d)", st.Total, st.Departures, st.Arrivals)
}

// CountByStation tallies departures by start station and arrivals by end
// station. A trip that starts and ends at the same station counts in both.
func CountByStation(trips []models.Trip) (departures, arrivals map[string]int) {
	departures = make(map[string]int)
	arrivals = make(map[string]int)
	for _, trp := range trips {
		departures[trp.StartStationID]++
		arrivals[trp.EndStationID]++
	}
	return departures, arrivals
}

// Aggregate builds a fresh result in station order. Stations without trips
// get zero counts; trips at unknown stations are ignored.
func Aggregate(stations []models.Station, trips []models.Trip) []StationTraffic {
	dep, arr := CountByStation(trips)

	out := make([]StationTraffic, len(stations))
	for i, stn := range stations {
		d := dep[stn.ID]
		a := arr[stn.ID]
		out[i] = StationTraffic{
			Station:    stn,
			Departures: d,
			Arrivals:   a,
			Total:      d + a,
		}
	}
	return out
}

// MaxTotal is 0 for an empty slice.
func MaxTotal(traffic []StationTraffic) int {
	m := 0
	for _, st := range traffic {
		if st.Total > m {
			m = st.Total
		}
	}
	return m
}

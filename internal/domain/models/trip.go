package models

import "time"

// Trip is one rental. Station ids may reference stations that are not loaded.
type Trip struct {
	StartStationID string    `json:"start_station_id"`
	EndStationID   string    `json:"end_station_id"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at"`
}

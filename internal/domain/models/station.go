package models

// Station is a fixed bike dock. ID is the station short name, the same key
// trips use for start_station_id / end_station_id.
type Station struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

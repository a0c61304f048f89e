package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "bikeflow/internal/config"
	intdb "bikeflow/internal/db"
	"bikeflow/internal/domain/models"
)

// StationRepository reads the dock list. Station ids are short names, the
// same keys the trip log uses.
type StationRepository struct {
	DB *sql.DB
}

// StationLoadResult carries the stations plus the number of rows rejected
// for a blank short name or missing coordinates.
type StationLoadResult struct {
	Stations []models.Station
	Skipped  int
}

func (r StationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListStations returns an empty list when the stations table is missing.
// Rows without a usable id or coordinates are skipped and counted.
func (r StationRepository) ListStations(ctx context.Context) (StationLoadResult, error) {
	res := StationLoadResult{Stations: []models.Station{}}

	db := r.db()
	if db == nil || !intdb.HasTable(ctx, db, "stations") {
		return res, nil
	}

	nameCol := "''"
	if intdb.HasColumn(ctx, db, "stations", "name") {
		nameCol = "COALESCE(name,'')"
	}

	query := fmt.Sprintf(`SELECT short_name, %s, lon, lat FROM stations ORDER BY short_name ASC`, nameCol)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return res, fmt.Errorf("list stations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, name sql.NullString
			lon, lat sql.NullFloat64
		)
		if err := rows.Scan(&id, &name, &lon, &lat); err != nil {
			return res, fmt.Errorf("scan station: %w", err)
		}
		shortName := strings.TrimSpace(id.String)
		if !id.Valid || shortName == "" || !lon.Valid || !lat.Valid {
			res.Skipped++
			continue
		}
		res.Stations = append(res.Stations, models.Station{
			ID:   shortName,
			Name: strings.TrimSpace(name.String),
			Lon:  lon.Float64,
			Lat:  lat.Float64,
		})
	}
	return res, rows.Err()
}

package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "bikeflow/internal/config"
	intdb "bikeflow/internal/db"
	"bikeflow/internal/domain"
	"bikeflow/internal/domain/models"
	"bikeflow/internal/utils"
)

// TripsRepository reads the trip log for a reporting period.
type TripsRepository struct {
	DB *sql.DB
}

// TripLoadResult carries the trips plus the number of rows rejected for
// missing timestamps or station ids.
type TripLoadResult struct {
	Trips   []models.Trip
	Skipped int
}

func (r TripsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListTrips loads trips whose started_at falls in rng (open bounds when
// empty). Rows with NULL timestamps are skipped here so the aggregation
// core only ever sees well-formed trips.
func (r TripsRepository) ListTrips(ctx context.Context, rng domain.Range) (TripLoadResult, error) {
	res := TripLoadResult{Trips: []models.Trip{}}

	db := r.db()
	if db == nil || !intdb.HasTable(ctx, db, "trips") {
		return res, nil
	}

	where := []string{"1=1"}
	args := []any{}
	if from := strings.TrimSpace(rng.From); from != "" {
		if _, err := utils.ParseDate(from); err != nil {
			return res, domain.ValidationError{Field: "from", Msg: "expected YYYY-MM-DD", Err: err}
		}
		where = append(where, "started_at>=?")
		args = append(args, from)
	}
	if to := strings.TrimSpace(rng.To); to != "" {
		if _, err := utils.ParseDate(to); err != nil {
			return res, domain.ValidationError{Field: "to", Msg: "expected YYYY-MM-DD", Err: err}
		}
		where = append(where, "started_at<?")
		args = append(args, to)
	}

	query := fmt.Sprintf(`SELECT start_station_id, end_station_id, started_at, ended_at FROM trips WHERE %s ORDER BY started_at ASC`, strings.Join(where, " AND "))
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return res, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			start, end         sql.NullString
			startedAt, endedAt sql.NullTime
		)
		if err := rows.Scan(&start, &end, &startedAt, &endedAt); err != nil {
			return res, fmt.Errorf("scan trip: %w", err)
		}
		if !startedAt.Valid || !endedAt.Valid || !start.Valid || !end.Valid {
			res.Skipped++
			continue
		}
		res.Trips = append(res.Trips, models.Trip{
			StartStationID: strings.TrimSpace(start.String),
			EndStationID:   strings.TrimSpace(end.String),
			StartedAt:      startedAt.Time,
			EndedAt:        endedAt.Time,
		})
	}
	return res, rows.Err()
}

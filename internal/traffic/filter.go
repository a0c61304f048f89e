package traffic

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bikeflow/internal/domain"
	"bikeflow/internal/domain/models"
)

const (
	// WindowMinutes is the tolerance around the selected time. Distance is
	// linear minute-of-day difference and does not wrap past midnight.
	WindowMinutes = 60

	MinutesPerDay = 24 * 60
)

// TimeFilter is either Unfiltered or At(minute) with minute in [0, 1439].
type TimeFilter struct {
	minute int
	active bool
}

func Unfiltered() TimeFilter {
	return TimeFilter{}
}

// At panics on a minute outside [0, 1439]; use ParseTimeFilter for user input.
func At(minute int) TimeFilter {
	if minute < 0 || minute >= MinutesPerDay {
		panic(fmt.Sprintf("traffic: minute %d out of range", minute))
	}
	return TimeFilter{minute: minute, active: true}
}

// Minute returns the selected minute-of-day and whether a filter is active.
func (f TimeFilter) Minute() (int, bool) {
	return f.minute, f.active
}

func (f TimeFilter) Active() bool {
	return f.active
}

// Key is a stable identifier usable as a cache key.
func (f TimeFilter) Key() string {
	if !f.active {
		return "any"
	}
	return strconv.Itoa(f.minute)
}

// Label renders the filter the way the time slider shows it.
func (f TimeFilter) Label() string {
	if !f.active {
		return "Any time"
	}
	t := time.Date(2000, 1, 1, f.minute/60, f.minute%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}

func (f TimeFilter) String() string {
	return f.Label()
}

// ParseTimeFilter accepts "", "-1" or "any" (unfiltered), a minute-of-day
// integer, or a "HH:MM" clock time.
func ParseTimeFilter(raw string) (TimeFilter, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "", "-1", "any":
		return Unfiltered(), nil
	}

	if strings.Contains(s, ":") {
		t, err := time.Parse("15:04", s)
		if err != nil {
			return TimeFilter{}, domain.ValidationError{Field: "time", Msg: "expected HH:MM", Err: err}
		}
		return At(t.Hour()*60 + t.Minute()), nil
	}

	m, err := strconv.Atoi(s)
	if err != nil {
		return TimeFilter{}, domain.ValidationError{Field: "time", Msg: "expected minute of day or HH:MM", Err: err}
	}
	if m < 0 || m >= MinutesPerDay {
		return TimeFilter{}, domain.ValidationError{Field: "time", Msg: fmt.Sprintf("minute must be between 0 and %d", MinutesPerDay-1)}
	}
	return At(m), nil
}

// MinuteOfDay ignores the date and seconds of t.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FilterTrips keeps trips that start or end within WindowMinutes of the
// filter's minute. An unfiltered filter returns trips unchanged.
func FilterTrips(trips []models.Trip, f TimeFilter) []models.Trip {
	target, ok := f.Minute()
	if !ok {
		return trips
	}

	out := make([]models.Trip, 0, len(trips))
	for _, trp := range trips {
		if withinWindow(MinuteOfDay(trp.StartedAt), target) || withinWindow(MinuteOfDay(trp.EndedAt), target) {
			out = append(out, trp)
		}
	}
	return out
}

func withinWindow(minute, target int) bool {
	d := minute - target
	if d < 0 {
		d = -d
	}
	return d <= WindowMinutes
}

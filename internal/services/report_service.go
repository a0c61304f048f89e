package services

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"bikeflow/internal/traffic"
	"bikeflow/internal/utils"

	"github.com/phpdave11/gofpdf"
)

const defaultReportLimit = 25

// ReportService renders traffic snapshots as PDF.
type ReportService struct {
	RequestID string

	// Limit caps the station table; zero means defaultReportLimit.
	Limit int
	Now   func() time.Time
}

// GenerateTrafficReport lists the busiest stations of snap, ordered by
// total traffic then station id.
func (s ReportService) GenerateTrafficReport(snap traffic.Snapshot) ([]byte, string, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = defaultReportLimit
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	rows := topStations(snap.Stations, limit)
	utils.LogEvent(s.RequestID, "report", "generate_traffic", fmt.Sprintf("filter=%s rows=%d", snap.TimeKey, len(rows)))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Station Traffic", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "STATION TRAFFIC")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	header := []string{
		fmt.Sprintf("Time filter    : %s", safe(snap.Label, "Any time")),
		fmt.Sprintf("Trips counted  : %d", snap.TripCount),
		fmt.Sprintf("Busiest total  : %d", snap.MaxTotal),
		fmt.Sprintf("Stations       : %d", len(snap.Stations)),
		fmt.Sprintf("Generated      : %s", utils.FormatDateTime(now())),
	}
	for _, line := range header {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(30, 7, "Station", "1", 0, "", false, 0, "")
	pdf.CellFormat(70, 7, "Name", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 7, "Departures", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Arrivals", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, v := range rows {
		pdf.CellFormat(30, 6, truncate(v.ID, 14), "1", 0, "", false, 0, "")
		pdf.CellFormat(70, 6, truncate(safe(v.Name, "-"), 38), "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", v.Departures), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", v.Arrivals), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", v.Total), "1", 1, "R", false, 0, "")
	}

	if len(rows) == 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "No stations loaded.", "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("TRAFFIC_%s_%s.pdf", safeFilenamePart(snap.TimeKey), now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

func topStations(views []traffic.StationView, limit int) []traffic.StationView {
	out := make([]traffic.StationView, len(views))
	copy(out, views)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return replacer.Replace(s)
}

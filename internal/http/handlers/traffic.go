package handlers

import (
	"net/http"

	"bikeflow/internal/http/middleware"
	"bikeflow/internal/services"
	"bikeflow/internal/traffic"
	"bikeflow/internal/utils"

	"github.com/gin-gonic/gin"
)

// TrafficHandler serves station traffic for the map client.
type TrafficHandler struct {
	Svc *services.TrafficService
}

// GET /api/stations
func (h TrafficHandler) GetStations(c *gin.Context) {
	stations, err := h.Svc.Stations()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stations": stations, "count": len(stations)})
}

// GET /api/traffic?time=<minute|HH:MM|-1>
func (h TrafficHandler) GetTraffic(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GET /api/traffic/stations/:id?time=...
func (h TrafficHandler) GetStationTraffic(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	view, err := snap.Station(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time": snap.TimeKey, "label": snap.Label, "station": view})
}

// GET /api/traffic/report?time=...
func (h TrafficHandler) GetTrafficReport(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	svc := services.ReportService{RequestID: middleware.GetRequestID(c)}
	pdfBytes, filename, err := svc.GenerateTrafficReport(snap)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "report_failed", "failed to render report", err.Error())
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /api/traffic/stats
func (h TrafficHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Svc.Stats())
}

// POST /api/admin/reload
func (h TrafficHandler) Reload(c *gin.Context) {
	rid := middleware.GetRequestID(c)
	if caller, err := middleware.GetAuth(c); err == nil {
		utils.LogEvent(rid, "admin", "reload", "sub="+caller.Subject)
	}
	stats, err := h.Svc.Load(c.Request.Context(), rid)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trip store reloaded", "stats": stats})
}

func (h TrafficHandler) snapshot(c *gin.Context) (traffic.Snapshot, bool) {
	f, err := traffic.ParseTimeFilter(c.Query("time"))
	if err != nil {
		RespondDomainError(c, err)
		return traffic.Snapshot{}, false
	}
	snap, err := h.Svc.Snapshot(middleware.GetRequestID(c), f)
	if err != nil {
		RespondDomainError(c, err)
		return traffic.Snapshot{}, false
	}
	return snap, true
}

package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	intconfig "bikeflow/internal/config"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for /api/routes.
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "bikeflow running"})
}

func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database not connected", nil)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	var stations, trips int
	if err := intconfig.DB.QueryRowContext(ctx, "SELECT (SELECT COUNT(*) FROM stations), (SELECT COUNT(*) FROM trips)").Scan(&stations, &trips); err != nil {
		respondError(c, http.StatusInternalServerError, "db_query_failed", "database query failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database OK", "stations_in_db": stations, "trips_in_db": trips})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "router_not_ready", "router not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}

package api

import (
	"log"
	stdhttp "net/http"

	intconfig "bikeflow/internal/config"
	h "bikeflow/internal/http/handlers"
	"bikeflow/internal/http/middleware"
	"bikeflow/internal/services"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, svc *services.TrafficService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	trafficH := h.TrafficHandler{Svc: svc}
	authH := h.AuthHandler{
		Secret:       []byte(env.JWTSecret),
		Username:     env.AdminUsername,
		PasswordHash: env.AdminPasswordHash,
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		api.GET("/stations", trafficH.GetStations)

		tr := api.Group("/traffic")
		tr.GET("", trafficH.GetTraffic)
		tr.GET("/report", trafficH.GetTrafficReport)
		tr.GET("/stats", trafficH.GetStats)
		tr.GET("/stations/:id", trafficH.GetStationTraffic)

		api.POST("/auth/token", authH.IssueToken)

		admin := api.Group("/admin", middleware.RequireAdmin([]byte(env.JWTSecret)))
		admin.POST("/reload", trafficH.Reload)
	}

	h.SetRouter(r)
	return r
}

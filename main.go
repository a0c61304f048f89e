package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "bikeflow/internal/config"
	"bikeflow/internal/domain"
	router "bikeflow/internal/http"
	"bikeflow/internal/repositories"
	"bikeflow/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(env)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer intconfig.CloseDB()

	svc := services.NewTrafficService(
		repositories.StationRepository{DB: db},
		repositories.TripsRepository{DB: db},
		domain.Range{From: env.TripsFrom, To: env.TripsTo},
		env.SnapshotCacheTTL,
	)

	// The store must be fully loaded before the first refresh is served.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	stats, err := svc.Load(loadCtx, "startup")
	cancelLoad()
	if err != nil {
		log.Fatalf("failed to load trip store: %v", err)
	}
	log.Printf("trip store ready: stations=%d trips=%d skipped=%d", stats.Stations, stats.Trips, stats.Skipped)

	r := router.NewRouter(env, svc)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped.")
}

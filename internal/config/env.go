package config

import (
	"os"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	CORSAllowedOrigins []string

	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string

	SnapshotCacheTTL time.Duration

	// Reporting period loaded into the trip store, YYYY-MM-DD, half-open.
	TripsFrom string
	TripsTo   string
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	ttl := 10 * time.Minute
	if raw := strings.TrimSpace(os.Getenv("SNAPSHOT_CACHE_TTL")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			ttl = d
		}
	}

	return Env{
		AppAddr: appAddr,
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBHost:     getEnvOrDefault("DB_HOST", "127.0.0.1"),
		DBPort:     getEnvOrDefault("DB_PORT", "3306"),
		DBUser:     getEnvOrDefault("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnvOrDefault("DB_NAME", "bikeflow"),

		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AdminUsername:     getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH")),

		SnapshotCacheTTL: ttl,

		TripsFrom: strings.TrimSpace(os.Getenv("TRIPS_FROM")),
		TripsTo:   strings.TrimSpace(os.Getenv("TRIPS_TO")),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Addr            string
	Latitude        float64
	Longitude       float64
	SeedFix         bool
	DBPath          string
	UpdateInterval  time.Duration
	GrantDelay      time.Duration
	DenyAll         bool
	AuthNagInterval time.Duration
	Debug           bool
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.Addr = getEnv("GEOTRACK_ADDR", ":8080")
	cfg.Latitude = getEnvFloat("GEOTRACK_LAT", 40.4168)
	cfg.Longitude = getEnvFloat("GEOTRACK_LNG", -3.7038)
	cfg.SeedFix = getEnvBool("GEOTRACK_SEED_FIX", false)
	cfg.DBPath = getEnv("GEOTRACK_DB", getDefaultDBPath())
	cfg.DenyAll = getEnvBool("GEOTRACK_DENY", false)

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.Float64Var(&cfg.Latitude, "lat", cfg.Latitude, "Simulator starting latitude")
	flag.Float64Var(&cfg.Longitude, "lng", cfg.Longitude, "Simulator starting longitude")
	flag.BoolVar(&cfg.SeedFix, "seed-fix", cfg.SeedFix, "Treat the starting point as an already-known fix")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite database")
	flag.DurationVar(&cfg.UpdateInterval, "interval", time.Second, "Simulator update interval")
	flag.DurationVar(&cfg.GrantDelay, "grant-delay", 200*time.Millisecond, "Simulated permission dialog delay")
	flag.BoolVar(&cfg.DenyAll, "deny", cfg.DenyAll, "Simulated user denies every permission request")
	flag.DurationVar(&cfg.AuthNagInterval, "auth-nag-interval", 30*time.Second, "Minimum spacing between automatic permission re-requests (0 disables the bound)")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")

	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getDefaultDBPath returns the default database path in user's home directory.
// Creates the directory if it doesn't exist.
func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return "geotrack.db"
	}

	dir := filepath.Join(home, ".geotrack")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create .geotrack directory, using current dir: %v", err)
		return "geotrack.db"
	}

	return filepath.Join(dir, "geotrack.db")
}

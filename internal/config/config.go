// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; required ones are enforced by must() and abort
// startup when missing.
type Config struct {
	Env            string  // application environment (dev/test/prod)
	Port           string  // HTTP port to listen on
	DBUser         string  // database username
	DBPass         string  // database password (optional)
	DBHost         string  // database host address
	DBPort         string  // database port number
	DBName         string  // database name
	JWTSecret      string  // secret used to sign JWTs
	AccessTTLMin   int     // access token time-to-live in minutes
	RefreshTTLDays int     // refresh token time-to-live in days
	BcryptCost     int     // bcrypt cost for password hashing
	SeatingWindow  int     // minutes around now a reservation claims its table
	TableWidth     float64 // rendered table width in layout units
	TableHeight    float64 // rendered table height in layout units
}

// Load reads configuration from the environment.  Floor geometry and the
// seating window have sensible defaults; everything else is required.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		SeatingWindow:  envInt("SEATING_WINDOW_MIN", 90),
		TableWidth:     envFloat("TABLE_WIDTH", 160),
		TableHeight:    envFloat("TABLE_HEIGHT", 180),
	}
}

// must retrieves a required environment variable.  If the variable is unset
// or empty the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Fatalf("invalid float for %s: %q", key, v)
	}
	return f
}

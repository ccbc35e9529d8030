package config // package config loads application configuration from environment variables

import (
	"fmt"     // fmt formats the aggregated configuration error
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"

	"github.com/joho/godotenv" // godotenv loads an optional .env file
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	Migrate        bool   // apply the embedded schema on startup
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time‑to‑live in minutes
	RefreshTTLDays int    // refresh token time‑to‑live in days
	BcryptCost     int    // bcrypt cost for password hashing
	AMQPURL        string // RabbitMQ URL; empty disables booking events
	BookingLogPath string // file the booking consumer appends to
	AdminRegNo     string // bootstrap administrator, created when missing
	AdminPassword  string
}

// Load reads an optional .env file and then the environment.  Every
// missing or malformed required variable is reported in one error so a
// misconfigured deployment can be fixed in a single pass.
func Load() (Config, error) {
	// Ignored when there is no .env: production sets real env vars.
	_ = godotenv.Load()

	r := &reader{}
	cfg := Config{
		Env:            r.must("APP_ENV"),
		Port:           r.must("APP_PORT"),
		DBUser:         r.must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         r.must("DB_HOST"),
		DBPort:         r.must("DB_PORT"),
		DBName:         r.must("DB_NAME"),
		Migrate:        envBool("DB_MIGRATE", true),
		JWTSecret:      r.must("JWT_SECRET"),
		AccessTTLMin:   r.mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: r.mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     r.mustInt("BCRYPT_COST"),
		AMQPURL:        firstEnv("AMQP_URL", "RABBITMQ_URL"),
		BookingLogPath: envStr("BOOKING_LOG_PATH", "bookings.log"),
		AdminRegNo:     os.Getenv("ADMIN_REG_NO"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
	}
	if len(r.problems) > 0 {
		return Config{}, fmt.Errorf("config: %s", strings.Join(r.problems, "; "))
	}
	return cfg, nil
}

// reader accumulates problems instead of exiting on the first one.
type reader struct {
	problems []string
}

func (r *reader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		r.problems = append(r.problems, "missing required env var: "+key)
	}
	return v
}

func (r *reader) mustInt(key string) int {
	s := r.must(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.problems = append(r.problems, fmt.Sprintf("invalid int for %s: %q", key, s))
	}
	return n
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Only SESSION_SECRET is required; everything else
// has a default suitable for local development against the API on :8000.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	LogLevel      string        // echo logger level: debug, info, warn, error
	APIBaseURL    string        // base origin of the restroom REST API
	APITimeout    time.Duration // upper bound for a single API round trip
	SessionSecret string        // secret used to sign the visitor cookie
	VisitorTTL    time.Duration // lifetime of the visitor cookie and its storage namespace
	SecureCookie  bool          // mark the visitor cookie Secure (HTTPS only)
	Store         StoreConfig
}

// StoreConfig selects and configures the key/value backend that holds the
// persisted credential record (token + user) of every visitor.
type StoreConfig struct {
	Driver        string // memory | redis | mysql
	Prefix        string // key namespace prefix
	EncryptionKey string // optional 64 hex chars; seals the token at rest
	DBUser        string // mysql username
	DBPass        string // mysql password (optional)
	DBHost        string // mysql host address
	DBPort        string // mysql port number
	DBName        string // mysql database name
}

// Load reads configuration values from environment variables and returns a
// Config.  A missing SESSION_SECRET or an unknown STORE_DRIVER causes the
// program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:           getenv("APP_ENV", "dev"),
		Port:          getenv("APP_PORT", "3000"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		APIBaseURL:    strings.TrimRight(getenv("API_BASE_URL", "http://localhost:8000/api"), "/"),
		APITimeout:    parseDur(getenv("API_TIMEOUT", "10s"), 10*time.Second),
		SessionSecret: must("SESSION_SECRET"),
		VisitorTTL:    parseDur(getenv("VISITOR_TTL", "720h"), 30*24*time.Hour),
		SecureCookie:  envBool("COOKIE_SECURE", false),
		Store: StoreConfig{
			Driver:        strings.ToLower(getenv("STORE_DRIVER", "memory")),
			Prefix:        getenv("STORE_PREFIX", "rr"),
			EncryptionKey: os.Getenv("STORE_ENCRYPTION_KEY"),
			DBUser:        getenv("DB_USER", "root"),
			DBPass:        os.Getenv("DB_PASS"),
			DBHost:        getenv("DB_HOST", "127.0.0.1"),
			DBPort:        getenv("DB_PORT", "3306"),
			DBName:        getenv("DB_NAME", "restroom_web"),
		},
	}
	switch cfg.Store.Driver {
	case "memory", "redis", "mysql":
	default:
		log.Fatalf("invalid STORE_DRIVER: %q", cfg.Store.Driver)
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

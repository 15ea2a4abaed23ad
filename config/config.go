package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Default enumeration tables, used when the matching env var is unset.
var (
	DefaultSeniorityOptions = []string{"Entry-Level", "Mid-Level", "Senior-Level"}
	DefaultSalaryBands      = []string{"11532-20000", "20001-30000", "30001-45000", "45001-60000", "60000+"}
	DefaultJobCategories    = []string{
		"Accounting",
		"Administration",
		"Customer Service",
		"Engineering",
		"Finance",
		"Human Resources",
		"IT",
		"Marketing",
		"Operations",
		"Sales",
	}
)

type Config struct {
	Port        string
	DBUrl       string
	FrontendURL string
	LogLevel    string
	GinMode     string
	// Database pool
	DBMaxConns    int
	DBMinConns    int
	RunMigrations bool
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Logo handling
	LogoCacheTTLSeconds int
	MaxLogoBytes        int
	LogoMaxDimension    int
	// Malware scanning of logo uploads; empty address disables it
	ClamAVAddr           string
	ClamAVTimeoutSeconds int
	// Listing
	ListLimit int
	// Rate Limiting Configuration
	RateLimitWindowSeconds  int
	RateLimitWriteThreshold int
	// Enumerations
	SeniorityOptions []string
	SalaryBands      []string
	JobCategories    []string
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; ignored in production
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		GinMode:     getEnv("GIN_MODE", "debug"),

		DBMaxConns:    getEnvInt("DB_MAX_CONNS", 25),
		DBMinConns:    getEnvInt("DB_MIN_CONNS", 5),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		LogoCacheTTLSeconds: getEnvInt("LOGO_CACHE_TTL_SECONDS", 3600),
		MaxLogoBytes:        getEnvInt("MAX_LOGO_BYTES", 2<<20),
		LogoMaxDimension:    getEnvInt("LOGO_MAX_DIMENSION", 512),

		ClamAVAddr:           getEnv("CLAMAV_ADDR", ""),
		ClamAVTimeoutSeconds: getEnvInt("CLAMAV_TIMEOUT_SECONDS", 30),

		ListLimit: getEnvInt("LIST_LIMIT", 500),

		RateLimitWindowSeconds:  getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitWriteThreshold: getEnvInt("RATE_LIMIT_WRITE_THRESHOLD", 60),

		SeniorityOptions: getEnvList("JOB_SENIORITY_OPTIONS", DefaultSeniorityOptions),
		SalaryBands:      getEnvList("JOB_SALARY_BANDS", DefaultSalaryBands),
		JobCategories:    getEnvList("JOB_CATEGORIES", DefaultJobCategories),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Logo cache disabled, rate limiting in-memory.")
	}

	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 500
	}

	return cfg, nil
}

// AllowedOrigins splits FRONTEND_URL into the CORS allow list.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// IsRelease reports whether the server runs in gin release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks.
// An unset or blank variable yields a copy of fallback.
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}

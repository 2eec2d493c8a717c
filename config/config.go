// ABOUTME: Configuration loader for the license calculator service
// ABOUTME: Loads an optional .env file, then environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port               string
	CacheTTL           int      // seconds, default for general cache
	ImportCacheTTL     int      // seconds, parsed workbook imports (default 600)
	CORSAllowedOrigins []string // allowed CORS origins (empty = any origin)
	MaxUploadMB        int      // workbook upload limit (default 16)

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitDefault int  // Requests per minute for most endpoints (default: 100)
	RateLimitUpload  int  // Requests per minute for workbook uploads (default: 10)

	// Business rates
	LicenseRatesFile string // optional YAML overriding models.DefaultLicenseRates

	// vSphere (optional)
	VSphereHost       string
	VSphereUsername   string
	VSpherePassword   string
	VSphereDatacenter string
	VSphereInsecure   bool
}

// VSphereConfigured returns true if vSphere credentials are set
func (c *Config) VSphereConfigured() bool {
	return c.VSphereHost != "" && c.VSphereUsername != "" && c.VSpherePassword != "" && c.VSphereDatacenter != ""
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Load reads ENV_FILE (default .env) when present and builds the config.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CacheTTL:           getEnvInt("CACHE_TTL", 300),
		ImportCacheTTL:     getEnvInt("IMPORT_CACHE_TTL", 600),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		MaxUploadMB:        getEnvInt("MAX_UPLOAD_MB", 16),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 100),
		RateLimitUpload:  getEnvInt("RATE_LIMIT_UPLOAD", 10),

		LicenseRatesFile: os.Getenv("LICENSE_RATES_FILE"),

		VSphereHost:       os.Getenv("VSPHERE_HOST"),
		VSphereUsername:   os.Getenv("VSPHERE_USERNAME"),
		VSpherePassword:   os.Getenv("VSPHERE_PASSWORD"),
		VSphereDatacenter: os.Getenv("VSPHERE_DATACENTER"),
		VSphereInsecure:   getEnvBool("VSPHERE_INSECURE", false),
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("PORT must be a number between 1 and 65535, got %q", cfg.Port)
	}

	if cfg.MaxUploadMB < 1 || cfg.MaxUploadMB > 256 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be between 1 and 256, got %d", cfg.MaxUploadMB)
	}

	for _, ttl := range []struct {
		name  string
		value int
	}{
		{"CACHE_TTL", cfg.CacheTTL},
		{"IMPORT_CACHE_TTL", cfg.ImportCacheTTL},
	} {
		if ttl.value < 1 {
			return nil, fmt.Errorf("%s must be positive, got %d", ttl.name, ttl.value)
		}
	}

	// Validate rate limit values
	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault},
		{"RATE_LIMIT_UPLOAD", cfg.RateLimitUpload},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return nil, fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

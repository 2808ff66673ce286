package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config captures all environment-derived settings once at startup and
// is passed into each component constructor. Storage credentials are
// required up front; the admin token and site password may be absent,
// in which case the guarded endpoints fail closed at request time.
type Config struct {
	Port string

	SupabaseURL string
	ServiceRole string

	AdminToken    string
	SitePassword  string
	SessionSecret string

	// AllowBinaryEvidence accepts the "bin" fallback extension on
	// uploads. Historical revisions disagreed; this makes it a
	// deployment choice.
	AllowBinaryEvidence bool

	RedisAddr        string
	RedisPassword    string
	ReportLimitQueue string
	ReportDailyLimit int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:             getenvDefault("PORT", "8080"),
		SupabaseURL:      strings.TrimSuffix(os.Getenv("SUPABASE_URL"), "/"),
		ServiceRole:      os.Getenv("SUPABASE_SERVICE_ROLE"),
		AdminToken:       os.Getenv("ADMIN_TOKEN"),
		SitePassword:     os.Getenv("SITE_PASSWORD"),
		SessionSecret:    os.Getenv("JWT_SECRET"),
		RedisAddr:        os.Getenv("REDIS_ADDRESS"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		ReportLimitQueue: getenvDefault("REDIS_QUEUE_FOR_REPORT_LIMIT", "report-limit"),
		ReportDailyLimit: 20,
	}
	cfg.AllowBinaryEvidence, _ = strconv.ParseBool(os.Getenv("ALLOW_BINARY_EVIDENCE"))
	if v := os.Getenv("REPORT_DAILY_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return nil, fmt.Errorf("invalid REPORT_DAILY_LIMIT: %q", v)
		}
		cfg.ReportDailyLimit = limit
	}

	if cfg.SupabaseURL == "" || cfg.ServiceRole == "" {
		return nil, fmt.Errorf("missing server configuration: SUPABASE_URL and SUPABASE_SERVICE_ROLE are required")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

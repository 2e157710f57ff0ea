package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	UpstreamURL  string
	UpstreamKey  string
	QuotaTotal   int
	IPSalt       string
}

// KioskConfig holds settings for the on-site kiosk client.
type KioskConfig struct {
	APIBaseURL string
	StateDir   string
}

// ParseFlags validates server flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("stallgen-server", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Upstream image model
	fs.StringVar(&cfg.UpstreamURL, "upstream", "", "Image generation service base URL")
	fs.StringVar(&cfg.UpstreamKey, "upstream-key", "", "Image generation service API key (prefer env)")

	// Competition settings
	fs.IntVar(&cfg.QuotaTotal, "quota", 0, "Generations allowed per stall")
	fs.StringVar(&cfg.IPSalt, "ip-salt", "", "Salt for submission IP hashing (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8000 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.UpstreamURL == "" {
		cfg.UpstreamURL = os.Getenv("UPSTREAM_URL")
	}
	if cfg.UpstreamURL == "" {
		return Config{}, errors.New("upstream image service URL required (use -upstream or UPSTREAM_URL env)")
	}
	cfg.UpstreamURL = strings.TrimRight(cfg.UpstreamURL, "/")

	if cfg.UpstreamKey == "" {
		cfg.UpstreamKey = os.Getenv("UPSTREAM_KEY")
	}

	if cfg.QuotaTotal == 0 {
		if quotaStr := os.Getenv("QUOTA_TOTAL"); quotaStr != "" {
			quota, err := strconv.Atoi(quotaStr)
			if err != nil {
				return Config{}, errors.New("invalid QUOTA_TOTAL env variable")
			}
			cfg.QuotaTotal = quota
		} else {
			cfg.QuotaTotal = 3 // competition default
		}
	}
	if cfg.QuotaTotal < 1 {
		return Config{}, errors.New("quota must be at least 1")
	}

	// Secrets - MUST be provided
	if cfg.IPSalt == "" {
		cfg.IPSalt = os.Getenv("IP_SALT")
	}
	if cfg.IPSalt == "" {
		return Config{}, errors.New("IP_SALT required")
	}

	return cfg, nil
}

// ParseKioskFlags parses flags for the kiosk binary
func ParseKioskFlags(args []string) (KioskConfig, error) {
	var cfg KioskConfig

	fs := flag.NewFlagSet("stallgen-kiosk", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "server", "", "Competition API base URL")
	fs.StringVar(&cfg.StateDir, "state-dir", "", "Directory for persisted kiosk state")

	if err := fs.Parse(args); err != nil {
		return KioskConfig{}, err
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = os.Getenv("STALLGEN_SERVER")
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8000" // default
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.StateDir == "" {
		cfg.StateDir = os.Getenv("STALLGEN_STATE_DIR")
	}

	return cfg, nil
}

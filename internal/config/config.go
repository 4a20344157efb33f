package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobfeed/internal/secrets"
)

// Config is the root configuration for jobfeed.
type Config struct {
	Search    SearchConfig
	Filters   FilterConfig
	Export    ExportConfig
	Upload    UploadConfig
	HTTP      HTTPConfig
	RateLimit RateLimitConfig
	Ledger    LedgerConfig
	Watch     WatchConfig
}

// SearchConfig describes the upstream job-search API and what to ask it.
type SearchConfig struct {
	BaseURL         string
	AppID           string // resolved from yaml, env or keychain
	AppKey          string
	Keywords        string
	ResultsPerPage  int
	TargetRegion    string
	DefaultLocation string              // used when a listing has no location
	ProxyRegions    map[string][]string // target region -> partitions queried in its place
	StripHTML       bool
}

// Partitions returns the partitions to query for the target region. When the
// target has a proxy mapping the proxies are queried instead of the target.
func (s SearchConfig) Partitions() []string {
	if proxies, ok := s.ProxyRegions[s.TargetRegion]; ok && len(proxies) > 0 {
		out := make([]string, len(proxies))
		copy(out, proxies)
		return out
	}
	return []string{s.TargetRegion}
}

// FilterConfig holds keyword and location filter settings.
type FilterConfig struct {
	TitleKeywords        []string `yaml:"title_keywords"`
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
	Locations            []string `yaml:"locations"`
	ExcludeLocations     []string `yaml:"exclude_locations"`
}

// ExportConfig controls where and how the deduplicated postings are written.
type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Format string `yaml:"format"` // "csv" or "json"
}

// UploadConfig describes the optional upload target.
type UploadConfig struct {
	Target string // "rest", "postgres" or "log"
	URL    string // base project URL, e.g. https://xyz.supabase.co
	Table  string
	APIKey string
	DSN    string // postgres target only
}

// Endpoint returns the REST table endpoint for the configured project URL.
func (u UploadConfig) Endpoint() string {
	return strings.TrimRight(u.URL, "/") + "/rest/v1/" + u.Table
}

// HTTPConfig controls the shared HTTP client.
type HTTPConfig struct {
	Timeout time.Duration
}

// RateLimitConfig paces requests per host. Zero RequestsPerSecond disables pacing.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// LedgerConfig controls the local SQLite run ledger.
type LedgerConfig struct {
	Enabled bool
	Path    string
}

// WatchConfig controls the `watch` loop.
type WatchConfig struct {
	Interval time.Duration
}

const (
	defaultBaseURL         = "https://api.adzuna.com/v1/api/jobs"
	DefaultKeywords        = "Driver, Restaurant, Hotel, Construction"
	defaultResultsPerPage  = 10
	maxResultsPerPage      = 50
	defaultTargetRegion    = "lu"
	defaultDefaultLocation = "Luxembourg"
	defaultExportPrefix    = "jobs_luxembourg"
	defaultUploadTable     = "jobs"
	defaultLedgerPath      = "jobfeed.db"
)

// Environment variable names consulted when the yaml leaves a credential empty.
var (
	AppIDEnv     = []string{"ADZUNA_APP_ID"}
	AppKeyEnv    = []string{"ADZUNA_APP_KEY"}
	UploadKeyEnv = []string{"SUPABASE_SERVICE_ROLE_KEY", "SUPABASE_KEY"}
	UploadURLEnv = []string{"SUPABASE_URL", "VITE_SUPABASE_URL"}
	PostgresEnv  = []string{"JOBFEED_PG_DSN"}
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Search    rawSearchConfig `yaml:"search"`
	Filters   FilterConfig    `yaml:"filters"`
	Export    ExportConfig    `yaml:"export"`
	Upload    rawUploadConfig `yaml:"upload"`
	HTTP      rawHTTPConfig   `yaml:"http"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Ledger    rawLedgerConfig `yaml:"ledger"`
	Watch     rawWatchConfig  `yaml:"watch"`
}

type rawSearchConfig struct {
	BaseURL         string              `yaml:"base_url"`
	AppID           string              `yaml:"app_id"`
	AppKey          string              `yaml:"app_key"`
	Keywords        string              `yaml:"keywords"`
	ResultsPerPage  int                 `yaml:"results_per_page"`
	TargetRegion    string              `yaml:"target_region"`
	DefaultLocation *string             `yaml:"default_location"`
	ProxyRegions    map[string][]string `yaml:"proxy_regions"`
	StripHTML       bool                `yaml:"strip_html"`
}

type rawUploadConfig struct {
	Target string `yaml:"target"`
	URL    string `yaml:"url"`
	Table  string `yaml:"table"`
	APIKey string `yaml:"api_key"`
	DSN    string `yaml:"dsn"`
}

type rawHTTPConfig struct {
	Timeout string `yaml:"timeout"`
}

type rawLedgerConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type rawWatchConfig struct {
	Interval string `yaml:"interval"`
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes. Empty input yields the defaults.
// Environment variables referenced as ${VAR} are expanded first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	timeout := 30 * time.Second // default
	if raw.HTTP.Timeout != "" {
		d, err := time.ParseDuration(raw.HTTP.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse http.timeout %q: %w", raw.HTTP.Timeout, err)
		}
		timeout = d
	}

	interval := time.Hour // default
	if raw.Watch.Interval != "" {
		d, err := time.ParseDuration(raw.Watch.Interval)
		if err != nil {
			return nil, fmt.Errorf("parse watch.interval %q: %w", raw.Watch.Interval, err)
		}
		interval = d
	}

	cfg := &Config{
		Search: SearchConfig{
			BaseURL:         orDefault(raw.Search.BaseURL, defaultBaseURL),
			AppID:           raw.Search.AppID,
			AppKey:          raw.Search.AppKey,
			Keywords:        orDefault(raw.Search.Keywords, DefaultKeywords),
			ResultsPerPage:  raw.Search.ResultsPerPage,
			TargetRegion:    strings.ToLower(orDefault(raw.Search.TargetRegion, defaultTargetRegion)),
			DefaultLocation: defaultDefaultLocation,
			ProxyRegions:    raw.Search.ProxyRegions,
			StripHTML:       raw.Search.StripHTML,
		},
		Filters: raw.Filters,
		Export: ExportConfig{
			Dir:    orDefault(raw.Export.Dir, "."),
			Prefix: orDefault(raw.Export.Prefix, defaultExportPrefix),
			Format: strings.ToLower(orDefault(raw.Export.Format, "csv")),
		},
		Upload: UploadConfig{
			Target: strings.ToLower(orDefault(raw.Upload.Target, "rest")),
			URL:    raw.Upload.URL,
			Table:  orDefault(raw.Upload.Table, defaultUploadTable),
			APIKey: raw.Upload.APIKey,
			DSN:    raw.Upload.DSN,
		},
		HTTP:      HTTPConfig{Timeout: timeout},
		RateLimit: raw.RateLimit,
		Ledger: LedgerConfig{
			Enabled: true,
			Path:    orDefault(raw.Ledger.Path, defaultLedgerPath),
		},
		Watch: WatchConfig{Interval: interval},
	}

	if cfg.Search.ResultsPerPage == 0 {
		cfg.Search.ResultsPerPage = defaultResultsPerPage
	}
	// An explicit empty default_location means "fall back to the partition code".
	if raw.Search.DefaultLocation != nil {
		cfg.Search.DefaultLocation = *raw.Search.DefaultLocation
	}
	if cfg.Search.ProxyRegions == nil {
		cfg.Search.ProxyRegions = map[string][]string{
			defaultTargetRegion: {"be", "de", "fr"}, // Adzuna has no Luxembourg instance
		}
	}
	if raw.Ledger.Enabled != nil {
		cfg.Ledger.Enabled = *raw.Ledger.Enabled
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 1
	}

	resolveSecrets(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveSecrets fills credentials the yaml left empty from the environment
// or the OS keychain. Nothing is ever defaulted to a baked-in value.
func resolveSecrets(cfg *Config) {
	if cfg.Search.AppID == "" {
		cfg.Search.AppID = secrets.Lookup(AppIDEnv, secrets.AccountAdzunaAppID)
	}
	if cfg.Search.AppKey == "" {
		cfg.Search.AppKey = secrets.Lookup(AppKeyEnv, secrets.AccountAdzunaAppKey)
	}
	if cfg.Upload.URL == "" {
		cfg.Upload.URL = secrets.Lookup(UploadURLEnv, secrets.AccountUploadURL)
	}
	if cfg.Upload.APIKey == "" {
		cfg.Upload.APIKey = secrets.Lookup(UploadKeyEnv, secrets.AccountUploadKey)
	}
	if cfg.Upload.DSN == "" {
		cfg.Upload.DSN = secrets.Lookup(PostgresEnv, "")
	}
}

func validate(cfg *Config) error {
	if cfg.Search.ResultsPerPage < 1 || cfg.Search.ResultsPerPage > maxResultsPerPage {
		return fmt.Errorf("search.results_per_page must be between 1 and %d, got %d", maxResultsPerPage, cfg.Search.ResultsPerPage)
	}
	for target, proxies := range cfg.Search.ProxyRegions {
		if len(proxies) == 0 {
			return fmt.Errorf("search.proxy_regions[%q] must list at least one partition", target)
		}
	}
	if cfg.Export.Format != "csv" && cfg.Export.Format != "json" {
		return fmt.Errorf("export.format must be \"csv\" or \"json\", got %q", cfg.Export.Format)
	}
	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %v", cfg.HTTP.Timeout)
	}
	if cfg.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("rate_limit.requests_per_second must not be negative, got %v", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %v", cfg.Watch.Interval)
	}
	switch cfg.Upload.Target {
	case "rest", "postgres", "log":
	default:
		return fmt.Errorf("upload.target must be \"rest\", \"postgres\" or \"log\", got %q", cfg.Upload.Target)
	}
	return nil
}

// RequireSearchCredentials fails loudly when the search API credentials are
// missing. Commands that query the API call it before building a fetcher.
func (c *Config) RequireSearchCredentials() error {
	var missing []string
	if c.Search.AppID == "" {
		missing = append(missing, "search.app_id (or "+strings.Join(AppIDEnv, "/")+")")
	}
	if c.Search.AppKey == "" {
		missing = append(missing, "search.app_key (or "+strings.Join(AppKeyEnv, "/")+")")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing search credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

// UploadConfigured reports whether the selected upload target has what it
// needs. The second value names what is missing.
func (c *Config) UploadConfigured() (bool, string) {
	switch c.Upload.Target {
	case "postgres":
		if c.Upload.DSN == "" {
			return false, "upload.dsn (or " + strings.Join(PostgresEnv, "/") + ")"
		}
	case "rest":
		if c.Upload.URL == "" {
			return false, "upload.url (or " + strings.Join(UploadURLEnv, "/") + ")"
		}
		if c.Upload.APIKey == "" {
			return false, "upload.api_key (or " + strings.Join(UploadKeyEnv, "/") + ")"
		}
	}
	return true, ""
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"

	"github.com/umputun/nwsalerts/pkg/alerts"
	"github.com/umputun/nwsalerts/pkg/domain"
	"github.com/umputun/nwsalerts/pkg/scheduler"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		Metrics bool          `yaml:"metrics" json:"metrics" jsonschema:"default=false,description=Expose prometheus metrics on /metrics"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:nwsalerts.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
		Seed            string `yaml:"seed" json:"seed" jsonschema:"description=SQL file with locations and county codes loaded at startup"`
	} `yaml:"database" json:"database" jsonschema:"description=Location directory database"`

	Feed FeedConfig `yaml:"feed" json:"feed" jsonschema:"description=CAP feed retrieval"`

	Alerts AlertsConfig `yaml:"alerts" json:"alerts" jsonschema:"description=Alert filtering and ranking"`

	Warm WarmConfig `yaml:"warm" json:"warm" jsonschema:"description=Background feed cache warm-up"`
}

// FeedConfig holds feed retrieval settings
type FeedConfig struct {
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Feed request timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=nwsalerts/1.0,description=User agent sent to the CAP server"`
	CacheTTL  time.Duration `yaml:"cache_ttl" json:"cache_ttl" jsonschema:"default=3m,description=How long a fetched feed is reused, negative disables caching"`
	CacheSize int           `yaml:"cache_size" json:"cache_size" jsonschema:"default=1000,description=Maximum number of cached feeds"`
}

// AlertsConfig holds allow-lists, ranking order and refresh rates
type AlertsConfig struct {
	EventTypes    []string `yaml:"event_types" json:"event_types,omitempty" jsonschema:"description=Allowed CAP event types"`
	MsgTypes      []string `yaml:"msg_types" json:"msg_types,omitempty" jsonschema:"description=Allowed CAP message types"`
	StatusTypes   []string `yaml:"status_types" json:"status_types,omitempty" jsonschema:"description=Allowed CAP status values"`
	EventPriority []string `yaml:"event_priority" json:"event_priority,omitempty" jsonschema:"description=Event types in display order, unlisted events are not shown"`
	DefaultLimit  int      `yaml:"default_limit" json:"default_limit" jsonschema:"default=0,minimum=0,description=Maximum alerts per response when the request sets none, 0 for unlimited"`
	Refresh       int      `yaml:"refresh" json:"refresh" jsonschema:"default=15,minimum=1,description=Client refresh rate in minutes"`
	Elevated      int      `yaml:"elevated_refresh" json:"elevated_refresh" jsonschema:"default=3,minimum=1,description=Client refresh rate in minutes while a tornado or severe thunderstorm warning is on top"`
}

// WarmConfig lists locations whose feeds are refreshed in the background
type WarmConfig struct {
	Interval time.Duration `yaml:"interval" json:"interval" jsonschema:"default=2m,description=How often warm targets are rebuilt, keep below feed cache_ttl"`
	Workers  int           `yaml:"workers" json:"workers" jsonschema:"default=3,minimum=1,description=Maximum concurrent warm-up builds"`
	Targets  []WarmTarget  `yaml:"targets" json:"targets,omitempty" jsonschema:"description=Locations to keep warm, empty disables warm-up"`
}

// WarmTarget is a single zip and scope pair kept in the feed cache
type WarmTarget struct {
	Zip   string `yaml:"zip" json:"zip" jsonschema:"description=Zip code, not needed for national scope"`
	Scope string `yaml:"scope" json:"scope" jsonschema:"enum=county,enum=state,enum=national,description=Alert scope, county if empty"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds the configuration from YAML data, environment variables are expanded
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// schema check is supplementary, report and continue
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	var cfg Config
	setDefaults(&cfg)
	return &cfg
}

func setDefaults(cfg *Config) {
	// server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:nwsalerts.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// feed
	if cfg.Feed.Timeout == 0 {
		cfg.Feed.Timeout = 10 * time.Second
	}
	if cfg.Feed.UserAgent == "" {
		cfg.Feed.UserAgent = "nwsalerts/1.0"
	}
	if cfg.Feed.CacheTTL == 0 {
		cfg.Feed.CacheTTL = 3 * time.Minute
	}
	if cfg.Feed.CacheSize == 0 {
		cfg.Feed.CacheSize = 1000
	}

	// alerts
	if len(cfg.Alerts.EventTypes) == 0 {
		cfg.Alerts.EventTypes = append([]string(nil), alerts.DefaultEventTypes...)
	}
	if len(cfg.Alerts.MsgTypes) == 0 {
		cfg.Alerts.MsgTypes = append([]string(nil), alerts.DefaultMsgTypes...)
	}
	if len(cfg.Alerts.StatusTypes) == 0 {
		cfg.Alerts.StatusTypes = append([]string(nil), alerts.DefaultStatusTypes...)
	}
	if len(cfg.Alerts.EventPriority) == 0 {
		cfg.Alerts.EventPriority = append([]string(nil), alerts.DefaultEventPriority...)
	}
	if cfg.Alerts.Refresh == 0 {
		cfg.Alerts.Refresh = 15
	}
	if cfg.Alerts.Elevated == 0 {
		cfg.Alerts.Elevated = 3
	}

	// warm
	if cfg.Warm.Interval == 0 {
		cfg.Warm.Interval = 2 * time.Minute
	}
	if cfg.Warm.Workers == 0 {
		cfg.Warm.Workers = 3
	}
	for i := range cfg.Warm.Targets {
		if cfg.Warm.Targets[i].Scope == "" {
			cfg.Warm.Targets[i].Scope = string(domain.ScopeCounty)
		}
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return errors.New("server timeout must be at least 1 second")
	}
	if cfg.Feed.Timeout < 100*time.Millisecond {
		return errors.New("feed timeout must be at least 100ms")
	}
	if cfg.Feed.CacheSize < 0 {
		return errors.New("feed cache_size must be non-negative")
	}
	if cfg.Alerts.DefaultLimit < 0 {
		return errors.New("alerts default_limit must be non-negative")
	}
	if cfg.Alerts.Refresh < 1 || cfg.Alerts.Elevated < 1 {
		return errors.New("alerts refresh rates must be at least 1 minute")
	}
	if cfg.Alerts.Elevated > cfg.Alerts.Refresh {
		return fmt.Errorf("alerts elevated_refresh %d is longer than refresh %d", cfg.Alerts.Elevated, cfg.Alerts.Refresh)
	}

	if err := validateWarm(cfg); err != nil {
		return err
	}

	// an allowed event missing from the priority list would be filtered out by ranking
	prio := make(map[string]bool, len(cfg.Alerts.EventPriority))
	for _, ev := range cfg.Alerts.EventPriority {
		prio[ev] = true
	}
	for _, ev := range cfg.Alerts.EventTypes {
		if !prio[ev] {
			lgr.Printf("[WARN] allowed event %q is not in event_priority and will never be shown", ev)
		}
	}
	return nil
}

func validateWarm(cfg *Config) error {
	if cfg.Warm.Interval < time.Second {
		return errors.New("warm interval must be at least 1 second")
	}
	if cfg.Warm.Workers < 1 {
		return errors.New("warm workers must be at least 1")
	}
	for i, t := range cfg.Warm.Targets {
		scope, err := domain.ParseScope(t.Scope)
		if err != nil {
			return fmt.Errorf("warm target %d: %w", i, err)
		}
		if scope != domain.ScopeNational && t.Zip == "" {
			return fmt.Errorf("warm target %d: zip is required for %s scope", i, scope)
		}
	}
	if len(cfg.Warm.Targets) > 0 && cfg.Feed.CacheTTL > 0 && cfg.Warm.Interval >= cfg.Feed.CacheTTL {
		lgr.Printf("[WARN] warm interval %v is not shorter than cache_ttl %v, warm feeds will expire between runs",
			cfg.Warm.Interval, cfg.Feed.CacheTTL)
	}
	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetDefaultLimit returns the alert limit used when a request sets none
func (c *Config) GetDefaultLimit() int {
	return c.Alerts.DefaultLimit
}

// PipelineConfig returns the alert pipeline configuration
func (c *Config) PipelineConfig() alerts.Config {
	return alerts.Config{
		Filter: alerts.FilterConfig{
			EventTypes:  c.Alerts.EventTypes,
			MsgTypes:    c.Alerts.MsgTypes,
			StatusTypes: c.Alerts.StatusTypes,
		},
		Rank: alerts.RankConfig{
			EventPriority: c.Alerts.EventPriority,
			Urgency:       alerts.UrgencyOrder,
			Severity:      alerts.SeverityOrder,
			Certainty:     alerts.CertaintyOrder,
		},
		Refresh: alerts.RefreshConfig{Default: c.Alerts.Refresh, Elevated: c.Alerts.Elevated},
	}
}

// WarmTargets returns the configured warm-up targets
func (c *Config) WarmTargets() []scheduler.Target {
	res := make([]scheduler.Target, 0, len(c.Warm.Targets))
	for _, t := range c.Warm.Targets {
		scope, err := domain.ParseScope(t.Scope)
		if err != nil {
			continue // rejected by validate
		}
		res = append(res, scheduler.Target{Zip: t.Zip, Scope: scope})
	}
	return res
}

// Package config provides configuration management for the Moirai dashboard.
// Values come from an optional YAML file overlaid by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"moirai-dashboard/src/provider"
)

// MaxNumberedServers is the highest N read from CI_SERVER_N_* variables.
const MaxNumberedServers = 10

// Config holds the application configuration.
type Config struct {
	Port      string         `yaml:"port" env:"PORT"`
	Debug     bool           `yaml:"debug" env:"DEBUG"`
	StaticDir string         `yaml:"static_dir" env:"STATIC_DIR"`
	Logging   LoggingConfig  `yaml:"logging"`
	Settings  Settings       `yaml:"settings"`
	Servers   []ServerConfig `yaml:"servers"`
}

// LoggingConfig selects level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" validate:"omitempty,oneof=trace debug info warn warning error"`
	Format string `yaml:"format" env:"LOG_FORMAT" validate:"omitempty,oneof=console json"`
}

// Settings are the knobs the dashboard engines consume.
type Settings struct {
	StatsPeriodDays  int     `yaml:"stats_period_days" env:"STATS_PERIOD_DAYS" validate:"oneof=7 14 30 90"`
	BuildsPerPage    int     `yaml:"builds_per_page" env:"BUILDS_PER_PAGE" validate:"min=50,max=1000"`
	CPUCostPerHour   float64 `yaml:"cpu_cost_per_hour" env:"CPU_COST_PER_HOUR" validate:"gte=0"`
	FilterEmptyRepos bool    `yaml:"filter_empty_repos" env:"FILTER_EMPTY_REPOS"`
}

// ServerConfig is one CI server.
type ServerConfig struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	URL   string `yaml:"url" validate:"required,url"`
	Token string `yaml:"token" validate:"required"`
	Type  string `yaml:"type" validate:"omitempty,oneof=auto woodpecker drone"`
}

// serverEnv is the CI_SERVER_[N_]* variable set for one server.
type serverEnv struct {
	URL   string `env:"URL"`
	Token string `env:"TOKEN"`
	Name  string `env:"NAME"`
	Type  string `env:"TYPE"`
}

// DefaultSettings mirrors the dashboard's defaults.
func DefaultSettings() Settings {
	return Settings{
		StatsPeriodDays: 30,
		BuildsPerPage:   100,
		CPUCostPerHour:  0.05,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the YAML file named by MOIRAI_CONFIG, if any, then applies
// environment overrides and CI_SERVER_* definitions. A missing file is
// skipped.
func Load() (*Config, error) {
	cfg := &Config{Settings: DefaultSettings()}

	if path := os.Getenv("MOIRAI_CONFIG"); path != "" {
		if err := readYAML(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env vars: %w", err)
	}

	envServers, err := serversFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.Servers = append(cfg.Servers, envServers...)

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad loads configuration and panics on error.
// This is useful for initialization in main() where configuration errors should be fatal.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks settings and every server.
func (c *Config) Validate() error {
	if err := validate.Struct(c.Logging); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}
	if err := validate.Struct(c.Settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	seen := make(map[string]bool, len(c.Servers))
	for _, s := range c.Servers {
		if err := validate.Struct(s); err != nil {
			return fmt.Errorf("invalid server %s: %w", s.ID, err)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate server id %s", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// ProviderServers converts the configured servers for the registry.
func (c *Config) ProviderServers() []provider.Server {
	out := make([]provider.Server, 0, len(c.Servers))
	for _, s := range c.Servers {
		kind, err := provider.ParseKind(s.Type)
		if err != nil {
			kind = provider.KindAuto
		}
		out = append(out, provider.Server{ID: s.ID, Name: s.Name, URL: s.URL, Token: s.Token, Type: kind})
	}
	return out
}

func readYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode config yaml: %w", err)
	}
	return nil
}

// serversFromEnv reads CI_SERVER_* as server-0 and CI_SERVER_N_* as
// server-N. A server needs both URL and token; partial definitions are
// skipped.
func serversFromEnv() ([]ServerConfig, error) {
	var out []ServerConfig

	s, err := serverFromEnv("CI_SERVER_")
	if err != nil {
		return nil, err
	}
	if s.URL != "" && s.Token != "" {
		s.ID = "server-0"
		if s.Name == "" {
			s.Name = "CI Server"
		}
		out = append(out, s)
	}

	for i := 1; i <= MaxNumberedServers; i++ {
		s, err := serverFromEnv("CI_SERVER_" + strconv.Itoa(i) + "_")
		if err != nil {
			return nil, err
		}
		if s.URL == "" || s.Token == "" {
			continue
		}
		s.ID = "server-" + strconv.Itoa(i)
		if s.Name == "" {
			s.Name = "CI Server " + strconv.Itoa(i)
		}
		out = append(out, s)
	}
	return out, nil
}

func serverFromEnv(prefix string) (ServerConfig, error) {
	var s serverEnv
	if err := env.ParseWithOptions(&s, env.Options{Prefix: prefix}); err != nil {
		return ServerConfig{}, fmt.Errorf("parse %s* env vars: %w", prefix, err)
	}
	return ServerConfig{Name: s.Name, URL: s.URL, Token: s.Token, Type: s.Type}, nil
}

func (c *Config) normalize() {
	if c.Port == "" {
		c.Port = "80"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.Debug {
		c.Logging.Level = "debug"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	for i := range c.Servers {
		s := &c.Servers[i]
		s.URL = strings.TrimRight(s.URL, "/")
		if s.Type == "" {
			s.Type = string(provider.KindAuto)
		}
		if s.ID == "" {
			s.ID = "config-" + strconv.Itoa(i)
		}
		if s.Name == "" {
			s.Name = s.ID
		}
	}
}

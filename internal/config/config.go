package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	APIBase       string // roster endpoint base, "/devices.json" is appended
	CollectorBase string // collector endpoint base, "/server.php" is appended
	CachePath     string // local roster cache file
	LogDir        string // logs directory
	LogLevel      string // debug|info|warn|error
	StatusAddr    string // status API bind address; empty disables it

	MaxConcurrentProbes int
	ProbeTimeout        time.Duration
	SNMPRetries         int           // retries after the first attempt
	SNMPRetryBackoff    time.Duration // 0 means retry immediately
	SNMPPort            int
	SNMPVersion         string // "1" or "2c"
	ICMPPrivileged      bool   // raw ICMP sockets instead of unprivileged UDP ping

	RefreshInterval time.Duration
	SweepInterval   time.Duration
	HTTPTimeout     time.Duration
}

func Default() Config {
	return Config{
		APIBase:             "http://localhost/network",
		CollectorBase:       "http://localhost/network",
		CachePath:           "devices.json",
		LogDir:              "logs",
		LogLevel:            "info",
		MaxConcurrentProbes: 50,
		ProbeTimeout:        3 * time.Second,
		SNMPRetries:         3,
		SNMPPort:            161,
		SNMPVersion:         "2c",
		RefreshInterval:     10 * time.Minute,
		SweepInterval:       3 * time.Second,
		HTTPTimeout:         10 * time.Second,
	}
}

// FromEnv returns the defaults overridden by environment variables.
func FromEnv() Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// Load reads an optional TOML or YAML file (picked by extension) and then
// applies environment overrides on top. An empty path behaves like FromEnv.
func Load(path string) (Config, error) {
	if path == "" {
		return FromEnv(), nil
	}
	cfg := Default()
	if err := cfg.applyFile(path); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.APIBase, "API_BASE")
	setString(&c.CollectorBase, "COLLECTOR_BASE")
	setString(&c.CachePath, "CACHE_PATH")
	setString(&c.LogDir, "LOG_DIR")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.StatusAddr, "STATUS_ADDR")
	setString(&c.SNMPVersion, "SNMP_VERSION")

	// Probe tuning
	setInt(&c.MaxConcurrentProbes, "MAX_CONCURRENT_PROBES", 1)
	setMillis(&c.ProbeTimeout, "PROBE_TIMEOUT_MS", 1)
	setInt(&c.SNMPRetries, "SNMP_RETRIES", 0)
	setMillis(&c.SNMPRetryBackoff, "SNMP_RETRY_BACKOFF_MS", 0)
	setInt(&c.SNMPPort, "SNMP_PORT", 1)
	if v := os.Getenv("ICMP_PRIVILEGED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ICMPPrivileged = b
		}
	}

	// Timers
	setMillis(&c.RefreshInterval, "REFRESH_INTERVAL_MS", 0)
	setMillis(&c.SweepInterval, "SWEEP_INTERVAL_MS", 0)
	setMillis(&c.HTTPTimeout, "HTTP_TIMEOUT_MS", 1)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// setInt keeps the current value when the variable is unset, malformed or
// below min.
func setInt(dst *int, key string, min int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= min {
			*dst = n
		}
	}
}

func setMillis(dst *time.Duration, key string, min int) {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= min {
			*dst = time.Duration(ms) * time.Millisecond
		}
	}
}

// fileConfig is the on-disk shape. Durations are strings like "3s" or "10m";
// pointers distinguish "absent" from zero.
type fileConfig struct {
	APIBase       string `toml:"api_base" yaml:"api_base"`
	CollectorBase string `toml:"collector_base" yaml:"collector_base"`
	CachePath     string `toml:"cache_path" yaml:"cache_path"`
	LogDir        string `toml:"log_dir" yaml:"log_dir"`
	LogLevel      string `toml:"log_level" yaml:"log_level"`
	StatusAddr    string `toml:"status_addr" yaml:"status_addr"`

	MaxConcurrentProbes *int   `toml:"max_concurrent_probes" yaml:"max_concurrent_probes"`
	ProbeTimeout        string `toml:"probe_timeout" yaml:"probe_timeout"`
	SNMPRetries         *int   `toml:"snmp_retries" yaml:"snmp_retries"`
	SNMPRetryBackoff    string `toml:"snmp_retry_backoff" yaml:"snmp_retry_backoff"`
	SNMPPort            *int   `toml:"snmp_port" yaml:"snmp_port"`
	SNMPVersion         string `toml:"snmp_version" yaml:"snmp_version"`
	ICMPPrivileged      *bool  `toml:"icmp_privileged" yaml:"icmp_privileged"`

	RefreshInterval string `toml:"refresh_interval" yaml:"refresh_interval"`
	SweepInterval   string `toml:"sweep_interval" yaml:"sweep_interval"`
	HTTPTimeout     string `toml:"http_timeout" yaml:"http_timeout"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("%w: unsupported config file type %q", ErrInvalid, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	overrideString(&c.APIBase, fc.APIBase)
	overrideString(&c.CollectorBase, fc.CollectorBase)
	overrideString(&c.CachePath, fc.CachePath)
	overrideString(&c.LogDir, fc.LogDir)
	overrideString(&c.LogLevel, fc.LogLevel)
	overrideString(&c.StatusAddr, fc.StatusAddr)
	overrideString(&c.SNMPVersion, fc.SNMPVersion)

	if fc.MaxConcurrentProbes != nil {
		c.MaxConcurrentProbes = *fc.MaxConcurrentProbes
	}
	if fc.SNMPRetries != nil {
		c.SNMPRetries = *fc.SNMPRetries
	}
	if fc.SNMPPort != nil {
		c.SNMPPort = *fc.SNMPPort
	}
	if fc.ICMPPrivileged != nil {
		c.ICMPPrivileged = *fc.ICMPPrivileged
	}

	for _, d := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"probe_timeout", fc.ProbeTimeout, &c.ProbeTimeout},
		{"snmp_retry_backoff", fc.SNMPRetryBackoff, &c.SNMPRetryBackoff},
		{"refresh_interval", fc.RefreshInterval, &c.RefreshInterval},
		{"sweep_interval", fc.SweepInterval, &c.SweepInterval},
		{"http_timeout", fc.HTTPTimeout, &c.HTTPTimeout},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, d.name, err)
		}
		*d.dst = v
	}
	return nil
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate reports every problem found, joined into one error.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	for _, b := range []struct{ name, base string }{
		{"api_base", c.APIBase},
		{"collector_base", c.CollectorBase},
	} {
		name, base := b.name, b.base
		if base == "" {
			add("%s is empty", name)
			continue
		}
		u, err := url.Parse(base)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			add("%s must be an http(s) URL, got %q", name, base)
		}
	}
	if c.CachePath == "" {
		add("cache_path is empty")
	}
	switch strings.ToLower(c.SNMPVersion) {
	case "1", "v1", "2c", "v2c":
	default:
		add("unsupported snmp_version %q", c.SNMPVersion)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		add("unknown log_level %q", c.LogLevel)
	}
	if c.MaxConcurrentProbes < 1 {
		add("max_concurrent_probes must be >= 1")
	}
	if c.SNMPRetries < 0 {
		add("snmp_retries must be >= 0")
	}
	if c.SNMPPort < 1 || c.SNMPPort > 65535 {
		add("snmp_port out of range: %d", c.SNMPPort)
	}
	if c.ProbeTimeout <= 0 {
		add("probe_timeout must be positive")
	}
	if c.HTTPTimeout <= 0 {
		add("http_timeout must be positive")
	}
	if c.RefreshInterval <= 0 {
		add("refresh_interval must be positive")
	}
	if c.SweepInterval <= 0 {
		add("sweep_interval must be positive")
	}
	return errors.Join(errs...)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"dbotcounter/internal/countup"
	"dbotcounter/internal/eventbus"
)

// FileName is the per-directory config file name
const FileName = ".dbotcounter.toml"

// Config represents the application configuration
type Config struct {
	Version  int            `toml:"version"`
	Endpoint EndpointConfig `toml:"endpoint"`
	Poll     PollConfig     `toml:"poll"`
	Counter  CounterConfig  `toml:"counter"`
	Log      LogConfig      `toml:"log"`
}

// EndpointConfig describes the message-count endpoint
type EndpointConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Attempts       uint   `toml:"attempts"` // total tries per fetch, including the first
}

// PollConfig controls how often the total is refreshed
type PollConfig struct {
	IntervalSeconds   int   `toml:"interval_seconds"`
	Backfill          int64 `toml:"backfill"` // the first run starts this far below the total
	MinRefreshSeconds int   `toml:"min_refresh_seconds"`
}

// CounterConfig holds the counter display settings
type CounterConfig struct {
	Decimals         int     `toml:"decimals"`
	DurationSeconds  float64 `toml:"duration_seconds"`
	FrameRate        int     `toml:"frame_rate"`
	UseEasing        bool    `toml:"use_easing"`
	UseGrouping      bool    `toml:"use_grouping"`
	GroupSeparator   string  `toml:"group_separator"`
	DecimalSeparator string  `toml:"decimal_separator"`
	Prefix           string  `toml:"prefix"`
	Suffix           string  `toml:"suffix"`
}

// LogConfig controls the log file
type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// DisplayOptions converts the counter settings into countup options
func (c CounterConfig) DisplayOptions() countup.Options {
	return countup.Options{
		UseEasing:        c.UseEasing,
		UseGrouping:      c.UseGrouping,
		GroupSeparator:   c.GroupSeparator,
		DecimalSeparator: c.DecimalSeparator,
		Prefix:           c.Prefix,
		Suffix:           c.Suffix,
	}
}

// FrameInterval is the time between redraws
func (c CounterConfig) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return countup.DefaultFrameInterval
	}
	return time.Second / time.Duration(c.FrameRate)
}

// Interval is the time between scheduled fetches
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSeconds) * time.Second
}

// MinRefresh is the minimum spacing of manual refreshes
func (p PollConfig) MinRefresh() time.Duration {
	return time.Duration(p.MinRefreshSeconds) * time.Second
}

// Timeout is the per-request timeout
func (e EndpointConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// Validate reports settings the application cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Endpoint.URL == "" {
		errs = append(errs, errors.New("endpoint.url is required"))
	}
	if c.Endpoint.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("endpoint.timeout_seconds must be positive"))
	}
	if c.Endpoint.Attempts == 0 {
		errs = append(errs, errors.New("endpoint.attempts must be at least 1"))
	}
	if c.Poll.IntervalSeconds <= 0 {
		errs = append(errs, errors.New("poll.interval_seconds must be positive"))
	}
	if c.Poll.Backfill < 0 {
		errs = append(errs, errors.New("poll.backfill must not be negative"))
	}
	if c.Counter.FrameRate < 1 || c.Counter.FrameRate > 240 {
		errs = append(errs, fmt.Errorf("counter.frame_rate must be between 1 and 240, got %d", c.Counter.FrameRate))
	}
	if c.Counter.Decimals < 0 {
		errs = append(errs, errors.New("counter.decimals must not be negative"))
	}
	return errors.Join(errs...)
}

// ApplyOverrides copies every key set in v (flags, environment) onto c.
// Keys use the TOML names, e.g. "endpoint.url" or "counter.use_easing".
func (c *Config) ApplyOverrides(v *viper.Viper) {
	if v == nil {
		return
	}
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	integer := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	boolean := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	str("endpoint.url", &c.Endpoint.URL)
	integer("endpoint.timeout_seconds", &c.Endpoint.TimeoutSeconds)
	if v.IsSet("endpoint.attempts") {
		c.Endpoint.Attempts = v.GetUint("endpoint.attempts")
	}

	integer("poll.interval_seconds", &c.Poll.IntervalSeconds)
	if v.IsSet("poll.backfill") {
		c.Poll.Backfill = v.GetInt64("poll.backfill")
	}
	integer("poll.min_refresh_seconds", &c.Poll.MinRefreshSeconds)

	integer("counter.decimals", &c.Counter.Decimals)
	if v.IsSet("counter.duration_seconds") {
		c.Counter.DurationSeconds = v.GetFloat64("counter.duration_seconds")
	}
	integer("counter.frame_rate", &c.Counter.FrameRate)
	boolean("counter.use_easing", &c.Counter.UseEasing)
	boolean("counter.use_grouping", &c.Counter.UseGrouping)
	str("counter.group_separator", &c.Counter.GroupSeparator)
	str("counter.decimal_separator", &c.Counter.DecimalSeparator)
	str("counter.prefix", &c.Counter.Prefix)
	str("counter.suffix", &c.Counter.Suffix)

	str("log.path", &c.Log.Path)
	str("log.level", &c.Log.Level)
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service backed by the user config directory
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "dbotcounter", "config.toml"),
	}
}

// NewConfigServiceAt creates a config service for an explicit file
func NewConfigServiceAt(path string, bus eventbus.EventBus) ConfigService {
	return &configService{filePath: path, bus: bus}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Path returns the file Load and Save use
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, returning defaults when it does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:     cs.filePath,
			Endpoint: cfg.Endpoint.URL,
		})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the settings of the DBOT homepage counter: a one
// minute poll, a linear one minute run and space-grouped digits.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Endpoint: EndpointConfig{
			URL:            "http://localhost:8080/messages",
			TimeoutSeconds: 10,
			Attempts:       3,
		},
		Poll: PollConfig{
			IntervalSeconds:   60,
			Backfill:          100,
			MinRefreshSeconds: 5,
		},
		Counter: CounterConfig{
			Decimals:         0,
			DurationSeconds:  60,
			FrameRate:        60,
			UseEasing:        false,
			UseGrouping:      true,
			GroupSeparator:   " ",
			DecimalSeparator: ".",
		},
		Log: LogConfig{
			Path:  "dbotcounter.log",
			Level: "info",
		},
	}
}

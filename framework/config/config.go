package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the central typed configuration struct.
type Config struct {
	App     AppConfig     `toml:"app" yaml:"app"`
	Clock   ClockConfig   `toml:"clock" yaml:"clock"`
	Inspect InspectConfig `toml:"inspect" yaml:"inspect"`
	Log     LogConfig     `toml:"log" yaml:"log"`
}

type AppConfig struct {
	Name   string `toml:"name" yaml:"name"`
	Env    string `toml:"env" yaml:"env"` // local | production | testing
	Debug  bool   `toml:"debug" yaml:"debug"`
	Strict bool   `toml:"strict" yaml:"strict"` // panic on caller-bug registry errors
}

// ClockConfig drives the frame clock. Rates are per second, durations are
// seconds.
type ClockConfig struct {
	FrameRate float64 `toml:"frame_rate" yaml:"frame_rate"`
	FixedRate float64 `toml:"fixed_rate" yaml:"fixed_rate"`
	MaxDelta  float64 `toml:"max_delta" yaml:"max_delta"`
	TimeScale float64 `toml:"time_scale" yaml:"time_scale"`
	RunFor    float64 `toml:"run_for" yaml:"run_for"` // 0 runs until interrupted
}

type InspectConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Addr    string `toml:"addr" yaml:"addr"`
}

type LogConfig struct {
	Level   string `toml:"level" yaml:"level"`
	JSON    bool   `toml:"json" yaml:"json"`
	NoColor bool   `toml:"no_color" yaml:"no_color"`
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:   Get("APP_NAME", "GoEntry"),
			Env:    Get("APP_ENV", "local"),
			Debug:  GetBool("APP_DEBUG", true),
			Strict: GetBool("APP_STRICT", false),
		},
		Clock: ClockConfig{
			FrameRate: GetFloat("CLOCK_FRAME_RATE", 60),
			FixedRate: GetFloat("CLOCK_FIXED_RATE", 50),
			MaxDelta:  GetFloat("CLOCK_MAX_DELTA", 1.0/3.0),
			TimeScale: GetFloat("CLOCK_TIME_SCALE", 1),
			RunFor:    GetFloat("CLOCK_RUN_FOR", 0),
		},
		Inspect: InspectConfig{
			Enabled: GetBool("INSPECT_ENABLED", true),
			Addr:    Get("INSPECT_ADDR", ":8089"),
		},
		Log: LogConfig{
			Level:   Get("LOG_LEVEL", "info"),
			JSON:    GetBool("LOG_JSON", false),
			NoColor: GetBool("LOG_NOCOLOR", false),
		},
	}
}

// LoadFile loads the env defaults and then overlays a TOML or YAML file,
// picked by extension. The result is validated.
func LoadFile(path string, envFiles ...string) (*Config, error) {
	cfg := Load(envFiles...)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config load failed (%s): unsupported extension", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool { return c.App.Env == "production" }

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// GetBool returns a bool env value. Malformed values fall back.
func GetBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

// GetFloat returns a float env value. Malformed values fall back.
func GetFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

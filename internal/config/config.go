// Package config assembles runtime configuration from an optional YAML
// file overlaid with environment variables. Env wins over file, file wins
// over defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Webhook is one alert destination.
type Webhook struct {
	URL  string `yaml:"url" validate:"required,url"`
	Kind string `yaml:"kind" validate:"omitempty,oneof=generic discord slack"`
}

// Config captures runtime configuration for the scanner and API server.
type Config struct {
	ListenAddr     string    `yaml:"listen_addr"`
	DataDir        string    `yaml:"data_dir"`
	StatePath      string    `yaml:"state_path"`
	StaticDataPath string    `yaml:"static_data_path"`
	Tickers        []string  `yaml:"tickers"`
	Universe       string    `yaml:"universe" validate:"omitempty,oneof=sp500 nasdaq100"`
	LookbackDays   int       `yaml:"lookback_days" validate:"gte=1,lte=365"`
	Concurrency    int       `yaml:"concurrency" validate:"gte=1,lte=64"`
	RescanInterval string    `yaml:"rescan_interval"`
	AlertThreshold float64   `yaml:"alert_threshold" validate:"gte=0,lte=100"`
	SECUserAgent   string    `yaml:"sec_user_agent"`
	GroqAPIKey     string    `yaml:"groq_api_key"`
	GroqModel      string    `yaml:"groq_model"`
	LLMTemperature float64   `yaml:"llm_temperature" validate:"gte=0,lte=2"`
	LLMMaxTokens   int       `yaml:"llm_max_tokens" validate:"gte=0"`
	Webhooks       []Webhook `yaml:"webhooks" validate:"dive"`
}

// Defaults returns the baseline configuration before file and env overlays.
func Defaults() Config {
	return Config{
		ListenAddr:     ":8080",
		DataDir:        "data/history",
		StatePath:      "data/scan_state.json",
		LookbackDays:   30,
		Concurrency:    4,
		RescanInterval: "6h",
		AlertThreshold: 70,
		SECUserAgent:   "stockradar/1.0 (contact@stockradar.dev)",
		GroqModel:      "llama-3.3-70b-versatile",
		LLMTemperature: 0.1,
		LLMMaxTokens:   1000,
	}
}

// Load builds the configuration: defaults, then the YAML file at path (when
// path is non-empty), then environment variables.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("STOCKRADAR_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("STOCKRADAR_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("STOCKRADAR_STATE_PATH"); v != "" {
		c.StatePath = v
	}
	if v := os.Getenv("STOCKRADAR_STATIC_DATA"); v != "" {
		c.StaticDataPath = v
	}
	if v := os.Getenv("STOCKRADAR_TICKERS"); v != "" {
		c.Tickers = splitList(v)
	}
	if v := os.Getenv("STOCKRADAR_UNIVERSE"); v != "" {
		c.Universe = strings.ToLower(v)
	}
	if v := os.Getenv("STOCKRADAR_LOOKBACK_DAYS"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &c.LookbackDays); err != nil {
			return fmt.Errorf("parse STOCKRADAR_LOOKBACK_DAYS: %w", err)
		}
	}
	if v := os.Getenv("STOCKRADAR_CONCURRENCY"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &c.Concurrency); err != nil {
			return fmt.Errorf("parse STOCKRADAR_CONCURRENCY: %w", err)
		}
	}
	if v := os.Getenv("STOCKRADAR_RESCAN_INTERVAL"); v != "" {
		c.RescanInterval = v
	}
	if v := os.Getenv("STOCKRADAR_ALERT_THRESHOLD"); v != "" {
		if _, err := fmt.Sscanf(v, "%f", &c.AlertThreshold); err != nil {
			return fmt.Errorf("parse STOCKRADAR_ALERT_THRESHOLD: %w", err)
		}
	}
	if v := os.Getenv("STOCKRADAR_SEC_USER_AGENT"); v != "" {
		c.SECUserAgent = v
	}
	if v := os.Getenv("STOCKRADAR_GROQ_API_KEY"); v != "" {
		c.GroqAPIKey = v
	}
	if v := os.Getenv("STOCKRADAR_GROQ_MODEL"); v != "" {
		c.GroqModel = v
	}
	if v := os.Getenv("STOCKRADAR_LLM_TEMPERATURE"); v != "" {
		if _, err := fmt.Sscanf(v, "%f", &c.LLMTemperature); err != nil {
			return fmt.Errorf("parse STOCKRADAR_LLM_TEMPERATURE: %w", err)
		}
	}
	if v := os.Getenv("STOCKRADAR_WEBHOOK_URL"); v != "" {
		c.Webhooks = append(c.Webhooks, Webhook{
			URL:  v,
			Kind: strings.ToLower(os.Getenv("STOCKRADAR_WEBHOOK_KIND")),
		})
	}
	return nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.RescanIntervalDuration(); err != nil {
		return err
	}
	return nil
}

// RescanIntervalDuration parses the rescan interval.
func (c Config) RescanIntervalDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.RescanInterval)
	if err != nil {
		return 0, fmt.Errorf("parse rescan_interval %q: %w", c.RescanInterval, err)
	}
	return d, nil
}

// Lookback returns the collection window as a duration.
func (c Config) Lookback() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}

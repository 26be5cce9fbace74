package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"retail-price-alerts/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	Logging logging.Config `mapstructure:"logging"`
	Monitor MonitorConfig  `mapstructure:"monitor"`
	Webhook WebhookConfig  `mapstructure:"webhook"`
	History HistoryConfig  `mapstructure:"history"`
	Extract ExtractConfig  `mapstructure:"extract"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// MonitorConfig governs which pages are watched and how often.
type MonitorConfig struct {
	URLs           []string      `mapstructure:"urls"`
	Interval       time.Duration `mapstructure:"interval"`
	PageDelay      time.Duration `mapstructure:"page_delay"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// WebhookConfig captures notification delivery settings.
type WebhookConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// HistoryConfig selects and tunes the price history backend.
type HistoryConfig struct {
	Path            string        `mapstructure:"path"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ExtractConfig tunes the extraction heuristics.
type ExtractConfig struct {
	SiteName string `mapstructure:"site_name"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PRICEWATCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pricewatcher")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Registered so AutomaticEnv picks them up even without a config file.
	v.SetDefault("monitor.urls", []string{})
	v.SetDefault("webhook.url", "")
	v.SetDefault("history.dsn", "")

	v.SetDefault("monitor.interval", "300s")
	v.SetDefault("monitor.page_delay", "3s")
	v.SetDefault("monitor.request_timeout", "15s")
	v.SetDefault("monitor.user_agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15")

	v.SetDefault("webhook.timeout", "10s")

	v.SetDefault("history.path", "price_data.json")
	v.SetDefault("history.max_open_conns", 4)
	v.SetDefault("history.max_idle_conns", 2)
	v.SetDefault("history.conn_max_lifetime", "30m")

	v.SetDefault("extract.site_name", "ノジマ")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	urls := c.Monitor.CleanURLs()
	if len(urls) == 0 {
		return fmt.Errorf("monitor.urls must list at least one page URL")
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be greater than zero")
	}
	if c.Monitor.RequestTimeout <= 0 {
		return fmt.Errorf("monitor.request_timeout must be greater than zero")
	}
	if c.Monitor.PageDelay < 0 {
		return fmt.Errorf("monitor.page_delay cannot be negative")
	}
	if c.History.DSN == "" && c.History.Path == "" {
		return fmt.Errorf("history.path must be set when history.dsn is empty")
	}
	return nil
}

// CleanURLs returns the configured URLs with blanks trimmed away.
func (m MonitorConfig) CleanURLs() []string {
	cleaned := make([]string, 0, len(m.URLs))
	for _, u := range m.URLs {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	PushURL           string        `mapstructure:"push_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	KeepAliveInterval time.Duration `mapstructure:"keep_alive_interval"`
}

type CheckoutConfig struct {
	TaxRate   float64 `mapstructure:"tax_rate"`
	Currency  string  `mapstructure:"currency"`
	Provider  string  `mapstructure:"provider"`
	ReturnURL string  `mapstructure:"return_url"`
}

type StorageConfig struct {
	// Backend is "file" or "redis".
	Backend  string `mapstructure:"backend"`
	StateDir string `mapstructure:"state_dir"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Load reads an optional yaml config file and applies STOREFRONT_*
// environment overrides on top of the defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.push_url", "ws://localhost:8080/api/ws")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.keep_alive_interval", 60*time.Second)
	v.SetDefault("checkout.tax_rate", 0.18)
	v.SetDefault("checkout.currency", "INR")
	v.SetDefault("checkout.provider", "generic")
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.state_dir", defaultStateDir())
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(base, "storefront")
}

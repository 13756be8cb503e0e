package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Blockfrost BlockfrostConfig `yaml:"blockfrost"`
	CoinGecko  CoinGeckoConfig  `yaml:"coinGecko"`
	Storage    StorageConfig    `yaml:"storage"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// BlockfrostConfig holds the configuration for the Blockfrost indexer client
// and the wallet loading policy built on top of it.
type BlockfrostConfig struct {
	BaseURL              string `yaml:"baseURL"`
	ProjectID            string `yaml:"projectID"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	TransactionsPerPage  int    `yaml:"transactionsPerPage"`
	CountProbeSize       int    `yaml:"countProbeSize"`
	MaxAssetDetails      int    `yaml:"maxAssetDetails"`
	RateLimit            int    `yaml:"rateLimit"`
	BurstLimit           int    `yaml:"burstLimit"`
}

// CoinGeckoConfig holds the configuration for the CoinGecko price client.
type CoinGeckoConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// StorageConfig holds configuration for local persistence.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig holds configuration for the in-process caches.
type CacheConfig struct {
	AssetDetailTTLMinutes int `yaml:"assetDetailTTLMinutes"`
	PriceTTLMinutes       int `yaml:"priceTTLMinutes"`
	CleanupMinutes        int `yaml:"cleanupMinutes"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// LoadConfig loads configuration from a YAML file and applies defaults.
// The Blockfrost project credential may be supplied or overridden via the
// BLOCKFROST_PROJECT_ID environment variable.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	cfg.applyDefaults()

	if projectID := os.Getenv("BLOCKFROST_PROJECT_ID"); projectID != "" {
		cfg.Blockfrost.ProjectID = projectID
	}
	if cfg.Blockfrost.ProjectID == "" {
		logrus.Warn("Blockfrost projectID not set; indexer requests will be rejected as unauthorized")
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Blockfrost.BaseURL == "" {
		cfg.Blockfrost.BaseURL = "https://cardano-mainnet.blockfrost.io/api/v0"
	}
	if cfg.Blockfrost.RequestTimeoutMillis == 0 {
		cfg.Blockfrost.RequestTimeoutMillis = 10000
	}
	if cfg.Blockfrost.TransactionsPerPage == 0 {
		cfg.Blockfrost.TransactionsPerPage = 20
	}
	if cfg.Blockfrost.CountProbeSize == 0 {
		cfg.Blockfrost.CountProbeSize = 100
	}
	if cfg.Blockfrost.MaxAssetDetails == 0 {
		cfg.Blockfrost.MaxAssetDetails = 20
	}
	if cfg.Blockfrost.RateLimit == 0 {
		cfg.Blockfrost.RateLimit = 10
	}
	if cfg.Blockfrost.BurstLimit == 0 {
		cfg.Blockfrost.BurstLimit = 10
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.CoinGecko.RequestTimeoutMillis == 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
	}

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "data/recent_searches.json"
	}

	if cfg.Cache.AssetDetailTTLMinutes == 0 {
		cfg.Cache.AssetDetailTTLMinutes = 30
	}
	if cfg.Cache.PriceTTLMinutes == 0 {
		cfg.Cache.PriceTTLMinutes = 5
	}
	if cfg.Cache.CleanupMinutes == 0 {
		cfg.Cache.CleanupMinutes = 10
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

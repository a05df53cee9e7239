package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`

	// Catalog store (REST collection service)
	StoreURL           string `mapstructure:"STORE_URL"`
	StoreAdminEmail    string `mapstructure:"STORE_ADMIN_EMAIL"`
	StoreAdminPassword string `mapstructure:"STORE_ADMIN_PASSWORD"`

	// Redis (async import job queue)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Uploads
	UploadDir string `mapstructure:"UPLOAD_DIR"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("WORKER_POOL_SIZE", 3)
	viper.SetDefault("STORE_URL", "http://localhost:8090")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("UPLOAD_DIR", "/tmp/pelotazo/uploads")

	// Optional .env file for local development, does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

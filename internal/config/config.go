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

	// Table store (NocoDB)
	NocoDBURL   string `mapstructure:"NOCODB_URL"`
	NocoDBToken string `mapstructure:"NOCODB_TOKEN"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	// Business
	PDFStoragePath string `mapstructure:"PDF_STORAGE_PATH"`
	NombreNegocio  string `mapstructure:"NOMBRE_NEGOCIO"`
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
	viper.SetDefault("WORKER_POOL_SIZE", 5)
	viper.SetDefault("NOCODB_URL", "http://localhost:8080/api/v1/db/data/noco/forestal")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("PDF_STORAGE_PATH", "/tmp/forestal/pdfs")
	viper.SetDefault("NOMBRE_NEGOCIO", "ForestalApp")

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Cleanup CleanupConfig
	Geo     GeoConfig
	LogSink LogSinkConfig
}

type ServerConfig struct {
	Port            string
	BaseURL         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type CleanupConfig struct {
	Interval time.Duration
}

type GeoConfig struct {
	ProviderURL string
	Timeout     time.Duration
	CacheSize   int
	CacheTTL    time.Duration
}

type LogSinkConfig struct {
	CollectorURL string
	AuthToken    string
	BufferSize   int
	SendTimeout  time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "15s")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("LOG_OUTPUT_PATH", "")
	viper.SetDefault("LOG_MAX_SIZE_MB", 100)
	viper.SetDefault("LOG_MAX_BACKUPS", 3)
	viper.SetDefault("LOG_MAX_AGE_DAYS", 28)
	viper.SetDefault("LOG_COMPRESS", true)

	viper.SetDefault("CLEANUP_INTERVAL", "1h")

	viper.SetDefault("GEO_PROVIDER_URL", "https://ipwho.is")
	viper.SetDefault("GEO_TIMEOUT", "2s")
	viper.SetDefault("GEO_CACHE_SIZE", 1024)
	viper.SetDefault("GEO_CACHE_TTL", "12h")

	viper.SetDefault("LOGSINK_COLLECTOR_URL", "")
	viper.SetDefault("LOGSINK_AUTH_TOKEN", "")
	viper.SetDefault("LOGSINK_BUFFER_SIZE", 256)
	viper.SetDefault("LOGSINK_SEND_TIMEOUT", "5s")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, using default values")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetString("SERVER_PORT"),
			BaseURL:         viper.GetString("BASE_URL"),
			ReadTimeout:     viper.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    viper.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: viper.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Log: LogConfig{
			Level:      viper.GetString("LOG_LEVEL"),
			Format:     viper.GetString("LOG_FORMAT"),
			OutputPath: viper.GetString("LOG_OUTPUT_PATH"),
			MaxSizeMB:  viper.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: viper.GetInt("LOG_MAX_AGE_DAYS"),
			Compress:   viper.GetBool("LOG_COMPRESS"),
		},
		Cleanup: CleanupConfig{
			Interval: viper.GetDuration("CLEANUP_INTERVAL"),
		},
		Geo: GeoConfig{
			ProviderURL: viper.GetString("GEO_PROVIDER_URL"),
			Timeout:     viper.GetDuration("GEO_TIMEOUT"),
			CacheSize:   viper.GetInt("GEO_CACHE_SIZE"),
			CacheTTL:    viper.GetDuration("GEO_CACHE_TTL"),
		},
		LogSink: LogSinkConfig{
			CollectorURL: viper.GetString("LOGSINK_COLLECTOR_URL"),
			AuthToken:    viper.GetString("LOGSINK_AUTH_TOKEN"),
			BufferSize:   viper.GetInt("LOGSINK_BUFFER_SIZE"),
			SendTimeout:  viper.GetDuration("LOGSINK_SEND_TIMEOUT"),
		},
	}

	if cfg.Server.Port == "" {
		return nil, fmt.Errorf("SERVER_PORT must not be empty")
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/filegate-io/filegate/internal/shared/config"
)

type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server"`
	Database sharedConfig.DatabaseConfig `mapstructure:"database"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	Redis    sharedConfig.RedisConfig    `mapstructure:"redis"`
	Admin    sharedConfig.AdminConfig    `mapstructure:"admin"`
	Host     sharedConfig.HostConfig     `mapstructure:"host"`
	Uploads  sharedConfig.UploadsConfig  `mapstructure:"uploads"`
	Bot      sharedConfig.BotConfig      `mapstructure:"bot"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("FILEGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.base_url", "http://localhost:8080")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "filegate_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Admin API defaults
	viper.SetDefault("admin.jwt_secret", "change-me-in-production")
	viper.SetDefault("admin.jwt_exp_minutes", 60)
	viper.SetDefault("admin.username", "admin")
	viper.SetDefault("admin.password_hash", "")

	// Host application cookie scheme. Salts must be copied verbatim from
	// the host's own configuration.
	viper.SetDefault("host.auth_salt", "")
	viper.SetDefault("host.secure_auth_salt", "")
	viper.SetDefault("host.logged_in_salt", "")
	viper.SetDefault("host.auth_cookie", "")
	viper.SetDefault("host.secure_auth_cookie", "")
	viper.SetDefault("host.logged_in_cookie", "")

	// Upload tree defaults
	viper.SetDefault("uploads.base_dir", "/var/www/uploads")
	viper.SetDefault("uploads.base_url", "http://localhost:8080/uploads")
	viper.SetDefault("uploads.offload_proxy", "")
	viper.SetDefault("uploads.internal_prefix", "")
	viper.SetDefault("uploads.sendfile", false)

	// Bot verifier defaults
	viper.SetDefault("bot.resolver_timeout_ms", 300)
}

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver   string `mapstructure:"db_driver"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_sslmode"`
	SQLitePath string `mapstructure:"sqlite_path"`

	AutoMigrate bool `mapstructure:"auto_migrate"`

	ServerPort     string   `mapstructure:"server_port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	TokenMode      string `mapstructure:"token_mode"`
	TokenPrefix    string `mapstructure:"token_prefix"`
	JWTSecret      string `mapstructure:"jwt_secret"`
	JWTExpiryHours int    `mapstructure:"jwt_expiry_hours"`

	RedisAddr          string `mapstructure:"redis_addr"`
	RedisPassword      string `mapstructure:"redis_password"`
	RedisDB            int    `mapstructure:"redis_db"`
	RedisChannelPrefix string `mapstructure:"redis_channel_prefix"`

	SubscriberBuffer int `mapstructure:"subscriber_buffer"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

var defaults = map[string]any{
	"db_driver":            "postgres",
	"db_host":              "localhost",
	"db_port":              "5432",
	"db_user":              "cardtrack",
	"db_password":          "cardtrack",
	"db_name":              "cardtrack",
	"db_sslmode":           "disable",
	"sqlite_path":          "cardtrack.db",
	"auto_migrate":         true,
	"server_port":          "8080",
	"allowed_origins":      []string{},
	"token_mode":           "legacy",
	"token_prefix":         "fake-token",
	"jwt_secret":           "",
	"jwt_expiry_hours":     24,
	"redis_addr":           "",
	"redis_password":       "",
	"redis_db":             0,
	"redis_channel_prefix": "cardtrack",
	"subscriber_buffer":    64,
	"log_level":            "info",
	"log_format":           "text",
}

// Load reads .env (if present), then the optional config file, then the
// environment. Environment variables win, e.g. DB_HOST overrides db_host.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment variables")
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported db driver %q", c.DBDriver)
	}
	if c.SubscriberBuffer <= 0 {
		return fmt.Errorf("subscriber buffer must be positive, got %d", c.SubscriberBuffer)
	}
	return nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

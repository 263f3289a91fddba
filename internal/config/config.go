package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the application.
// It includes the environment type, HTTP listen port, database configuration,
// Telegram notification settings and the admin token guarding mutation endpoints.
type Config struct {
	Env        string         `yaml:"env"`       // Env is the current environment: local, dev, prod.
	Port       int            `yaml:"port"`      // Port is the HTTP listen port.
	Database   PostgresConfig `yaml:"postgres"`  // Database holds the postgres database configuration
	Telegram   TelegramConfig `yaml:"telegram"`  // Telegram holds the lead notification settings
	AdminToken string         `yaml:"admin_token"` // AdminToken guards the admin endpoints; empty keeps them locked.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Name     string `yaml:"db_name"`  // Name is the name of the database.
}

// TelegramConfig holds the settings for the Telegram lead notifier.
// An empty Token disables notifications entirely; FallbackChat is the chat
// used when a client record carries no chat identifier of its own.
type TelegramConfig struct {
	Token        string        `yaml:"token"`         // Token is the Telegram bot token.
	APIURL       string        `yaml:"api_url"`       // APIURL overrides the bot API endpoint; empty means the default.
	FallbackChat string        `yaml:"fallback_chat"` // FallbackChat is used when a client has no chat configured.
	Timeout      time.Duration `yaml:"timeout"`       // Timeout bounds a single sendMessage call.
}

// MustLoad loads the configuration and returns a Config struct.
// Values come from an optional YAML file pointed to by CONFIG_PATH,
// overridden by environment variables (a .env file is honored as well).
// It panics when a configured file cannot be read.
func MustLoad() *Config {
	_ = godotenv.Load()

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		// check if file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}

		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			panic("config error: " + err.Error())
		}
	}

	const (
		defHTTPPort      = 8080
		defNotifyTimeout = 5 * time.Second
	)

	viper.SetDefault("env", "production")
	viper.SetDefault("http.port", defHTTPPort)
	viper.SetDefault("postgres.port", "5432")
	// The upstream behavior is to notify a placeholder chat when a client has
	// none configured. Keeping it as a default makes the choice auditable.
	viper.SetDefault("telegram.fallback_chat", "0")
	viper.SetDefault("telegram.timeout", defNotifyTimeout)

	bindEnvs()

	return &Config{
		Env:        viper.GetString("env"),
		Port:       viper.GetInt("http.port"),
		AdminToken: viper.GetString("admin.token"),
		Telegram: TelegramConfig{
			Token:        viper.GetString("telegram.token"),
			APIURL:       viper.GetString("telegram.api_url"),
			FallbackChat: viper.GetString("telegram.fallback_chat"),
			Timeout:      viper.GetDuration("telegram.timeout"),
		},
		Database: PostgresConfig{
			Host:     viper.GetString("postgres.host"),
			Port:     viper.GetString("postgres.port"),
			User:     viper.GetString("postgres.user"),
			Password: viper.GetString("postgres.password"),
			Name:     viper.GetString("postgres.db_name"),
		},
	}
}

// bindEnvs maps the well-known environment variables onto viper keys so the
// service can run from the environment alone, without a config file.
func bindEnvs() {
	envs := map[string]string{
		"env":                    "LEADGATE_ENV",
		"http.port":              "PORT",
		"admin.token":            "ADMIN_TOKEN",
		"telegram.token":         "BOT_TOKEN",
		"telegram.api_url":       "TELEGRAM_API_URL",
		"telegram.fallback_chat": "TELEGRAM_FALLBACK_CHAT",
		"telegram.timeout":       "TELEGRAM_TIMEOUT",
		"postgres.host":          "DB_HOST",
		"postgres.port":          "DB_PORT",
		"postgres.user":          "DB_USERNAME",
		"postgres.password":      "DB_PASSWORD",
		"postgres.db_name":       "DB_NAME",
	}
	for key, env := range envs {
		_ = viper.BindEnv(key, env)
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the optional YAML file loaded before the environment.
const ConfigFileEnv = "CARPOOL_CONFIG"

// Config holds all configuration for the application.
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	API           APIConfig          `yaml:"api"`
	Redis         RedisConfig        `yaml:"redis"`
	NewRelic      NewRelicConfig     `yaml:"newrelic"`
	Shell         ShellConfig        `yaml:"shell"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// ServerConfig holds the local shell's HTTP server configuration.
type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// APIConfig holds the remote carpooling API configuration.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	CSRFCookie string        `yaml:"csrf_cookie"`
	CSRFHeader string        `yaml:"csrf_header"`
}

// RedisConfig holds Redis configuration. Redis is optional for the client.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string `yaml:"app_name"`
	LicenseKey string `yaml:"license_key"`
	Enabled    bool   `yaml:"enabled"`
}

// ShellConfig holds settings of the local shell itself.
type ShellConfig struct {
	InstanceID    string `yaml:"instance_id"`
	SessionSecret string `yaml:"session_secret"`
	CookieSecure  bool   `yaml:"cookie_secure"`
	ExportDir     string `yaml:"export_dir"`
}

// NotificationConfig holds notification polling configuration.
type NotificationConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "carpool-client"
	}
	return &Config{
		Server: ServerConfig{
			Port:         "3000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		API: APIConfig{
			BaseURL:    "http://localhost:8000/api",
			Timeout:    15 * time.Second,
			CSRFCookie: "csrftoken",
			CSRFHeader: "X-CSRFToken",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		NewRelic: NewRelicConfig{
			AppName: "carpool-client",
		},
		Shell: ShellConfig{
			InstanceID: host,
			ExportDir:  "exports",
		},
		Notifications: NotificationConfig{
			PollInterval: 30 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CARPOOL_CONFIG if set, then environment variables. Later sources win.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server = ServerConfig{
		Port:         getEnv("SERVER_PORT", c.Server.Port),
		ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", c.Server.ReadTimeout),
		WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout),
	}
	c.API = APIConfig{
		BaseURL:    getEnv("API_BASE_URL", c.API.BaseURL),
		Timeout:    getDurationEnv("API_TIMEOUT", c.API.Timeout),
		CSRFCookie: getEnv("API_CSRF_COOKIE", c.API.CSRFCookie),
		CSRFHeader: getEnv("API_CSRF_HEADER", c.API.CSRFHeader),
	}
	c.Redis = RedisConfig{
		Enabled:  getBoolEnv("REDIS_ENABLED", c.Redis.Enabled),
		Addr:     getEnv("REDIS_ADDR", c.Redis.Addr),
		Password: getEnv("REDIS_PASSWORD", c.Redis.Password),
		DB:       getIntEnv("REDIS_DB", c.Redis.DB),
	}
	c.NewRelic = NewRelicConfig{
		AppName:    getEnv("NEW_RELIC_APP_NAME", c.NewRelic.AppName),
		LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", c.NewRelic.LicenseKey),
		Enabled:    getBoolEnv("NEW_RELIC_ENABLED", c.NewRelic.Enabled),
	}
	c.Shell = ShellConfig{
		InstanceID:    getEnv("SHELL_INSTANCE_ID", c.Shell.InstanceID),
		SessionSecret: getEnv("SHELL_SESSION_SECRET", c.Shell.SessionSecret),
		CookieSecure:  getBoolEnv("SHELL_COOKIE_SECURE", c.Shell.CookieSecure),
		ExportDir:     getEnv("SHELL_EXPORT_DIR", c.Shell.ExportDir),
	}
	c.Notifications = NotificationConfig{
		PollInterval: getDurationEnv("NOTIFICATIONS_POLL_INTERVAL", c.Notifications.PollInterval),
	}
}

// Validate rejects settings the client cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.Notifications.PollInterval <= 0 {
		errs = append(errs, errors.New("notifications.poll_interval must be positive"))
	}
	if c.NewRelic.Enabled && c.NewRelic.LicenseKey == "" {
		errs = append(errs, errors.New("newrelic.license_key is required when newrelic is enabled"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

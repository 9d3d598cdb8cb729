package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"homework_status_bot/internal/infra/practicum"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrConfiguration is returned when required settings are absent or invalid.
// The bot cannot start without them.
var ErrConfiguration = errors.New("configuration error")

const (
	DefaultRetryTime      = 60 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogFile        = "log.log"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken    string        `yaml:"practicum_token"`
	TelegramToken     string        `yaml:"telegram_token"`
	TelegramChatID    int64         `yaml:"telegram_chat_id"`
	PracticumEndpoint string        `yaml:"practicum_endpoint"`
	RetryTime         time.Duration `yaml:"retry_time"`      // Pause between polls
	PollCronSpec      string        `yaml:"poll_cron_spec"`  // Overrides RetryTime when set
	RequestTimeout    time.Duration `yaml:"request_timeout"` // Bound for every outbound call
	LogLevel          string        `yaml:"log_level"`
	Environment       string        `yaml:"environment"`
	LogFile           string        `yaml:"log_file"` // "-" disables file logging
	HealthAddr        string        `yaml:"health_addr"`
	EnableCommands    bool          `yaml:"enable_commands"` // Answer /status and /help in the chat
}

// Load reads configuration from environment variables, .env file (if present)
// and an optional YAML file. Environment variables win over the file.
func Load(path string) (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	return LoadFrom(afero.NewOsFs(), path)
}

// LoadFrom is Load without the .env lookup, reading the YAML file from fs.
func LoadFrom(fs afero.Fs, path string) (*AppConfig, error) {
	cfg := &AppConfig{
		PracticumEndpoint: practicum.DefaultEndpoint,
		RetryTime:         DefaultRetryTime,
		RequestTimeout:    DefaultRequestTimeout,
		LogLevel:          "info",
		Environment:       "development",
		LogFile:           DefaultLogFile,
	}

	if path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read config file: %w", ErrConfiguration, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config file %s: %w", ErrConfiguration, path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// durationKeys are the YAML keys that, like their environment variables,
// accept a bare number of seconds.
var durationKeys = map[string]bool{
	"retry_time":      true,
	"request_timeout": true,
}

// UnmarshalYAML decodes the config file, reading bare integers under
// durationKeys as seconds.
func (c *AppConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			if durationKeys[key.Value] && val.Kind == yaml.ScalarNode && val.ShortTag() == "!!int" {
				val.Tag = "!!str"
				val.Value += "s"
			}
		}
	}

	type plain AppConfig
	return value.Decode((*plain)(c))
}

func applyEnv(cfg *AppConfig) error {
	setString(&cfg.PracticumToken, "PRACTICUM_TOKEN")
	setString(&cfg.TelegramToken, "TELEGRAM_TOKEN")
	setString(&cfg.PracticumEndpoint, "PRACTICUM_ENDPOINT")
	setString(&cfg.PollCronSpec, "POLL_CRON_SPEC")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Environment, "ENVIRONMENT")
	setString(&cfg.LogFile, "LOG_FILE")
	setString(&cfg.HealthAddr, "HEALTH_ADDR")

	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: invalid TELEGRAM_CHAT_ID: %w", ErrConfiguration, err)
		}
		cfg.TelegramChatID = chatID
	}

	if v := os.Getenv("ENABLE_COMMANDS"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: invalid ENABLE_COMMANDS: %w", ErrConfiguration, err)
		}
		cfg.EnableCommands = enabled
	}

	if err := setDuration(&cfg.RetryTime, "RETRY_TIME"); err != nil {
		return err
	}
	if err := setDuration(&cfg.RequestTimeout, "REQUEST_TIMEOUT"); err != nil {
		return err
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Environment = strings.ToLower(cfg.Environment)
	return nil
}

// Validate reports every missing required setting at once.
func (c *AppConfig) Validate() error {
	var missing []string
	if c.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}
	if c.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if c.TelegramChatID == 0 {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not set", ErrConfiguration, strings.Join(missing, ", "))
	}

	if c.RetryTime <= 0 {
		return fmt.Errorf("%w: RETRY_TIME must be positive", ErrConfiguration)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: REQUEST_TIMEOUT must be positive", ErrConfiguration)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// setDuration accepts Go durations ("10m") and plain seconds ("600").
func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(secs) * time.Second
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: invalid %s: %w", ErrConfiguration, key, err)
	}
	*dst = d
	return nil
}

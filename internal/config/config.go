package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is read from YAML and then overridden by the environment. The
// environment variable names are the ones the deployment already uses
// (TELEGRAM_BOT_TOKEN, VK_API_KEY, REDIS_HOST, QUIZ_FILEPATH, ...), so a
// config file is optional: an env-only setup works.
type Config struct {
	Telegram struct {
		Token     string `yaml:"token"`
		LogChatID string `yaml:"log_chat_id"`
		LogToken  string `yaml:"log_token"`
	} `yaml:"telegram"`
	VK struct {
		Token   string `yaml:"token"`
		GroupID int    `yaml:"group_id"`
	} `yaml:"vk"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Corpus struct {
		Path string `yaml:"path"`
		Name string `yaml:"name"`
	} `yaml:"corpus"`
	WS struct {
		Port string `yaml:"port"`
	} `yaml:"ws"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads YAML config from path (a missing file is fine) and applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		case os.IsNotExist(err):
			// env-only setup
		default:
			return cfg, err
		}
	}

	applyEnv(&cfg)

	if cfg.Corpus.Name == "" {
		cfg.Corpus.Name = "default"
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setEnv(&cfg.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	setEnv(&cfg.Telegram.LogChatID, "LOG_TG_CHAT_ID")
	setEnv(&cfg.Telegram.LogToken, "LOG_TG_BOT_TOKEN")
	setEnv(&cfg.VK.Token, "VK_API_KEY")
	setEnvInt(&cfg.VK.GroupID, "VK_GROUP_ID")
	setEnv(&cfg.Redis.Host, "REDIS_HOST")
	setEnv(&cfg.Redis.Port, "REDIS_PORT")
	setEnv(&cfg.Redis.Password, "REDIS_PASSWORD")
	setEnv(&cfg.Postgres.URL, "POSTGRES_URL")
	setEnv(&cfg.Corpus.Path, "QUIZ_FILEPATH")
	setEnv(&cfg.Corpus.Name, "QUIZ_NAME")
	setEnv(&cfg.WS.Port, "WS_PORT")
	setEnv(&cfg.Log.Level, "LOG_LEVEL")
}

// ValidateServe checks the pieces the serve command needs. Load itself
// stays lenient so commands like migrate and check can run with a
// partial configuration.
func (c Config) ValidateServe() error {
	if c.Telegram.Token == "" && c.VK.Token == "" && c.WS.Port == "" {
		return errors.New("no channel configured: set a telegram or vk token, or a ws port")
	}
	if c.VK.Token != "" && c.VK.GroupID == 0 {
		return errors.New("vk token set but vk group id missing")
	}
	if c.Corpus.Path == "" && c.Postgres.URL == "" {
		return errors.New("no corpus source: set QUIZ_FILEPATH or a postgres url")
	}
	return nil
}

// RedisAddr joins host and port; empty host disables Redis and the
// process falls back to the in-memory store.
func (c Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	port := c.Redis.Port
	if port == "" {
		port = "6379"
	}
	return c.Redis.Host + ":" + port
}

// LogForwardToken picks the token for the Telegram log sink, falling
// back to the main bot token when no dedicated one is set.
func (c Config) LogForwardToken() string {
	if c.Telegram.LogToken != "" {
		return c.Telegram.LogToken
	}
	return c.Telegram.Token
}

// StoreTimeout parses the per-operation store timeout, with a fallback.
func (c Config) StoreTimeout(fallback time.Duration) time.Duration {
	if c.Redis.Timeout == "" {
		return fallback
	}
	if d, err := time.ParseDuration(c.Redis.Timeout); err == nil {
		return d
	}
	return fallback
}

func setEnv(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setEnvInt(dst *int, key string) {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			*dst = n
		}
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL      = "http://localhost:5000"
	DefaultPort        = "8080"
	DefaultGeminiModel = "gemini-2.5-flash-lite"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config is resolved once at startup and passed to every component that
// needs it. Nothing else reads the environment.
type Config struct {
	Port    string
	GinMode string

	APIURL     string
	APITimeout time.Duration

	SessionBackend string
	RedisURL       string
	SessionTTL     time.Duration

	GeminiAPIKey string
	GeminiModel  string

	LogLevel string
}

type configFile struct {
	Server struct {
		Port    string `yaml:"port"`
		GinMode string `yaml:"gin_mode"`
	} `yaml:"server"`
	API struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Session struct {
		Backend  string `yaml:"backend"`
		RedisURL string `yaml:"redis_url"`
		TTL      string `yaml:"ttl"`
	} `yaml:"session"`
	Briefing struct {
		Model string `yaml:"model"`
	} `yaml:"briefing"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func defaults() Config {
	return Config{
		Port:           DefaultPort,
		GinMode:        "release",
		APIURL:         DefaultAPIURL,
		APITimeout:     30 * time.Second,
		SessionBackend: SessionBackendMemory,
		SessionTTL:     30 * time.Minute,
		GeminiModel:    DefaultGeminiModel,
		LogLevel:       "info",
	}
}

// Load reads .env (if present), then the YAML file at path (if path is set
// and the file exists), then environment overrides.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.applyFile(raw); err != nil {
				return Config{}, err
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.Port = orDefault(f.Server.Port, c.Port)
	c.GinMode = orDefault(f.Server.GinMode, c.GinMode)
	c.APIURL = orDefault(f.API.URL, c.APIURL)
	c.SessionBackend = orDefault(f.Session.Backend, c.SessionBackend)
	c.RedisURL = orDefault(f.Session.RedisURL, c.RedisURL)
	c.GeminiModel = orDefault(f.Briefing.Model, c.GeminiModel)
	c.LogLevel = orDefault(f.Log.Level, c.LogLevel)

	var err error
	if c.APITimeout, err = parseDuration("api.timeout", f.API.Timeout, c.APITimeout); err != nil {
		return err
	}
	if c.SessionTTL, err = parseDuration("session.ttl", f.Session.TTL, c.SessionTTL); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = envOrDefault("PORT", c.Port)
	c.GinMode = envOrDefault("GIN_MODE", c.GinMode)
	// REACT_APP_API_URL is what older deployments of the dashboard set.
	c.APIURL = envOrDefault("REACT_APP_API_URL", c.APIURL)
	c.APIURL = envOrDefault("API_URL", c.APIURL)
	c.SessionBackend = envOrDefault("SESSION_BACKEND", c.SessionBackend)
	c.RedisURL = envOrDefault("REDIS_URL", c.RedisURL)
	c.GeminiAPIKey = envOrDefault("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = envOrDefault("GEMINI_MODEL", c.GeminiModel)
	c.LogLevel = envOrDefault("LOG_LEVEL", c.LogLevel)

	var err error
	if c.APITimeout, err = parseDuration("API_TIMEOUT", os.Getenv("API_TIMEOUT"), c.APITimeout); err != nil {
		return err
	}
	if c.SessionTTL, err = parseDuration("SESSION_TTL", os.Getenv("SESSION_TTL"), c.SessionTTL); err != nil {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		return errors.New("api url must not be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Port, err)
	}
	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("unknown gin mode %q", c.GinMode)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	if c.APITimeout < 0 {
		return fmt.Errorf("api timeout must not be negative, got %s", c.APITimeout)
	}
	return nil
}

// BriefingEnabled reports whether a Gemini key was configured.
func (c Config) BriefingEnabled() bool {
	return c.GeminiAPIKey != ""
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func envOrDefault(name, fallback string) string {
	return orDefault(os.Getenv(name), fallback)
}

// parseDuration accepts Go duration strings ("45s") or a bare number of
// seconds ("45").
func parseDuration(name, raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return d, nil
}

// Package config loads agrilingo settings from defaults, an optional YAML
// file and AGRILINGO_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "AGRILINGO_"

// Config holds the application configuration.
type Config struct {
	Server struct {
		Addr              string        `env:"ADDR" yaml:"addr"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" yaml:"readHeaderTimeout"`
		ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" yaml:"shutdownTimeout"`
	} `envPrefix:"SERVER_" yaml:"server"`

	Translate struct {
		SourceLang     string        `env:"SOURCE_LANG" yaml:"sourceLang"`
		MinInterval    time.Duration `env:"MIN_INTERVAL" yaml:"minInterval"`
		RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" yaml:"requestTimeout"`
		FlushInterval  time.Duration `env:"FLUSH_INTERVAL" yaml:"flushInterval"`
		CacheCapacity  int           `env:"CACHE_CAPACITY" yaml:"cacheCapacity"`
		CacheTTL       time.Duration `env:"CACHE_TTL" yaml:"cacheTTL"`
		// DictionaryPath adds phrases on top of the bundled table.
		DictionaryPath string `env:"DICTIONARY" yaml:"dictionary"`
		// RetryAttempts is the number of extra calls for a text whose call failed
		// with a retryable error. Each one is paced like a fresh call.
		RetryAttempts int `env:"RETRY_ATTEMPTS" yaml:"retryAttempts"`
		// RequestsPerMinute caps remote calls on top of MinInterval; 0 disables.
		RequestsPerMinute int `env:"REQUESTS_PER_MINUTE" yaml:"requestsPerMinute"`
	} `envPrefix:"TRANSLATE_" yaml:"translate"`

	Provider struct {
		Name           string `env:"NAME" yaml:"name"`
		LibreTranslate struct {
			URL    string `env:"URL" yaml:"url"`
			APIKey string `env:"API_KEY" yaml:"apiKey"`
		} `envPrefix:"LIBRETRANSLATE_" yaml:"libretranslate"`
		OpenAI struct {
			APIKey  string `env:"API_KEY" yaml:"apiKey"`
			Model   string `env:"MODEL" yaml:"model"`
			BaseURL string `env:"BASE_URL" yaml:"baseURL"`
		} `envPrefix:"OPENAI_" yaml:"openai"`
	} `envPrefix:"PROVIDER_" yaml:"provider"`

	Store struct {
		Driver      string `env:"DRIVER" yaml:"driver"`
		Path        string `env:"PATH" yaml:"path"`
		RedisURL    string `env:"REDIS_URL" yaml:"redisURL"`
		RedisTTL    int    `env:"REDIS_TTL" yaml:"redisTTL"`
		RedisPrefix string `env:"REDIS_PREFIX" yaml:"redisPrefix"`
	} `envPrefix:"STORE_" yaml:"store"`

	Speech struct {
		Binary string `env:"BINARY" yaml:"binary"`
	} `envPrefix:"SPEECH_" yaml:"speech"`

	Log struct {
		Level  string `env:"LEVEL" yaml:"level"`
		Format string `env:"FORMAT" yaml:"format"`
	} `envPrefix:"LOG_" yaml:"log"`
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.readYAML(path); err != nil {
		return nil, err
	}
	if err := cfg.readEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}
	return cfg, nil
}

func (cfg *Config) readYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- Only loading a config file
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("configuration file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}
	return nil
}

func (cfg *Config) readEnv() error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

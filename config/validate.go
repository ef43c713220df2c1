package config

import (
	"errors"
	"fmt"

	"github.com/ZaguanLabs/agrilingo"
	"github.com/rs/zerolog"
)

// validation errors.
var (
	errUnknownProvider     = errors.New("provider.name must be libretranslate, openai or mock")
	errUnknownStore        = errors.New("store.driver must be memory, file, sqlite or redis")
	errUnknownLogFormat    = errors.New("log.format must be auto, console or json")
	errStorePathRequired   = errors.New("store.path is required for the file and sqlite drivers")
	errRedisURLRequired    = errors.New("store.redisURL is required for the redis driver")
	errOpenAIKeyRequired   = errors.New("provider.openai.apiKey is required for the openai provider")
	errLibreURLRequired    = errors.New("provider.libretranslate.url is required")
	errServerAddrRequired  = errors.New("server.addr is required")
	errNonPositiveInterval = errors.New("translate.flushInterval must be positive")
)

// Validate checks the configuration for values the application cannot run with.
func (cfg *Config) Validate() error {
	var errs []error

	if cfg.Server.Addr == "" {
		errs = append(errs, errServerAddrRequired)
	}

	if !agrilingo.IsSupported(cfg.Translate.SourceLang) {
		errs = append(errs, fmt.Errorf("translate.sourceLang %q is not a supported language", cfg.Translate.SourceLang))
	}
	if cfg.Translate.FlushInterval <= 0 {
		errs = append(errs, errNonPositiveInterval)
	}
	if cfg.Translate.MinInterval < 0 || cfg.Translate.RequestTimeout < 0 || cfg.Translate.CacheTTL < 0 {
		errs = append(errs, errors.New("translate durations must not be negative"))
	}
	if cfg.Translate.CacheCapacity < 0 || cfg.Translate.RetryAttempts < 0 || cfg.Translate.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("translate counts must not be negative"))
	}

	switch cfg.Provider.Name {
	case ProviderLibreTranslate:
		if cfg.Provider.LibreTranslate.URL == "" {
			errs = append(errs, errLibreURLRequired)
		}
	case ProviderOpenAI:
		if cfg.Provider.OpenAI.APIKey == "" {
			errs = append(errs, errOpenAIKeyRequired)
		}
	case ProviderMock:
	default:
		errs = append(errs, errUnknownProvider)
	}

	switch cfg.Store.Driver {
	case StoreMemory:
	case StoreFile, StoreSQLite:
		if cfg.Store.Path == "" {
			errs = append(errs, errStorePathRequired)
		}
	case StoreRedis:
		if cfg.Store.RedisURL == "" {
			errs = append(errs, errRedisURLRequired)
		}
	default:
		errs = append(errs, errUnknownStore)
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch cfg.Log.Format {
	case LogFormatAuto, LogFormatConsole, LogFormatJSON:
	default:
		errs = append(errs, errUnknownLogFormat)
	}

	return errors.Join(errs...)
}

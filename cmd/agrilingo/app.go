package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ZaguanLabs/agrilingo"
	"github.com/ZaguanLabs/agrilingo/cache"
	"github.com/ZaguanLabs/agrilingo/config"
	"github.com/ZaguanLabs/agrilingo/internal/logging"
	"github.com/ZaguanLabs/agrilingo/provider"
	"github.com/ZaguanLabs/agrilingo/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	configPath string
	cfg        *config.Config
	log        zerolog.Logger

	// newProvider replaces provider construction in tests.
	newProvider func(*config.Config) (agrilingo.Provider, error)
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	override("log-level", &cfg.Log.Level)
	override("log-format", &cfg.Log.Format)
	override("provider", &cfg.Provider.Name)
	override("store", &cfg.Store.Driver)
	override("store-path", &cfg.Store.Path)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	log, err := logging.New(a.stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	return nil
}

// buildProvider creates the configured provider.
func (a *app) buildProvider() (agrilingo.Provider, error) {
	if a.newProvider != nil {
		return a.newProvider(a.cfg)
	}
	return newProvider(a.cfg)
}

func newProvider(cfg *config.Config) (agrilingo.Provider, error) {
	switch cfg.Provider.Name {
	case config.ProviderLibreTranslate:
		return provider.NewLibreTranslateProvider(provider.LibreTranslateConfig{
			BaseURL: cfg.Provider.LibreTranslate.URL,
			APIKey:  cfg.Provider.LibreTranslate.APIKey,
			Timeout: cfg.Translate.RequestTimeout,
		}), nil
	case config.ProviderOpenAI:
		return provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:  cfg.Provider.OpenAI.APIKey,
			Model:   cfg.Provider.OpenAI.Model,
			BaseURL: cfg.Provider.OpenAI.BaseURL,
		}), nil
	case config.ProviderMock:
		return provider.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	case config.StoreFile:
		return store.OpenFileStore(cfg.Store.Path)
	case config.StoreSQLite:
		return store.OpenSQLiteStore(cfg.Store.Path)
	case config.StoreRedis:
		return store.NewRedisStore(ctx, store.RedisConfig{
			URL:       cfg.Store.RedisURL,
			TTL:       cfg.Store.RedisTTL,
			KeyPrefix: cfg.Store.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// runtime is a loaded Service with the resources behind it.
type runtime struct {
	svc   *agrilingo.Service
	cache *cache.LRUCache
	store store.Store
}

// Close stops the Service, which flushes, then closes the store.
func (r *runtime) Close() error {
	err := r.svc.Close()
	if cerr := r.store.Close(); err == nil {
		err = cerr
	}
	return err
}

// open builds the Service from configuration and restores persisted state.
func (a *app) open(ctx context.Context) (*runtime, error) {
	p, err := a.buildProvider()
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", a.cfg.Store.Driver, err)
	}

	dict, err := a.dictionary()
	if err != nil {
		st.Close()
		return nil, err
	}

	tcfg := a.cfg.Translate
	lru := cache.NewLRUCache(tcfg.CacheCapacity, tcfg.CacheTTL)
	svc := agrilingo.NewService(p,
		agrilingo.WithCache(lru),
		agrilingo.WithStore(st),
		agrilingo.WithDictionary(dict),
		agrilingo.WithSourceLang(tcfg.SourceLang),
		agrilingo.WithMinInterval(tcfg.MinInterval),
		agrilingo.WithFlushInterval(tcfg.FlushInterval),
		agrilingo.WithRequestTimeout(tcfg.RequestTimeout),
		agrilingo.WithRetry(agrilingo.RetryPolicy{Attempts: tcfg.RetryAttempts}),
		agrilingo.WithRateLimit(agrilingo.RateLimitConfig{RequestsPerMinute: tcfg.RequestsPerMinute}),
		agrilingo.WithLogger(a.log),
	)

	if err := svc.Load(ctx); err != nil {
		// The service still works from the dictionary and the network
		a.log.Warn().Err(err).Msg("could not restore persisted state")
	}

	return &runtime{svc: svc, cache: lru, store: st}, nil
}

func (a *app) dictionary() (*agrilingo.Dictionary, error) {
	path := a.cfg.Translate.DictionaryPath
	if path == "" {
		return agrilingo.DefaultDictionary(), nil
	}

	extra, err := agrilingo.LoadDictionaryFile(path)
	if err != nil {
		return nil, err
	}
	dict := agrilingo.NewDictionary(nil)
	dict.Merge(agrilingo.DefaultDictionary())
	dict.Merge(extra)
	return dict, nil
}

package config

import (
	"time"

	"github.com/ZaguanLabs/agrilingo"
	"github.com/ZaguanLabs/agrilingo/provider"
	"github.com/ZaguanLabs/agrilingo/speech"
	"github.com/ZaguanLabs/agrilingo/store"
)

// Provider names.
const (
	ProviderLibreTranslate = "libretranslate"
	ProviderOpenAI         = "openai"
	ProviderMock           = "mock"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Log formats. Auto picks console output on a terminal and JSON otherwise.
const (
	LogFormatAuto    = "auto"
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}

	cfg.Server.Addr = "127.0.0.1:8080"
	cfg.Server.ReadHeaderTimeout = 10 * time.Second
	cfg.Server.ShutdownTimeout = 10 * time.Second

	cfg.Translate.SourceLang = agrilingo.DefaultLanguage
	cfg.Translate.MinInterval = agrilingo.DefaultMinInterval
	cfg.Translate.RequestTimeout = agrilingo.DefaultRequestTimeout
	cfg.Translate.FlushInterval = agrilingo.DefaultFlushInterval
	cfg.Translate.CacheCapacity = agrilingo.DefaultCacheCapacity

	cfg.Provider.Name = ProviderLibreTranslate
	cfg.Provider.LibreTranslate.URL = provider.DefaultLibreTranslateURL
	cfg.Provider.OpenAI.Model = "gpt-4o-mini"

	cfg.Store.Driver = StoreFile
	cfg.Store.Path = "agrilingo-state.json"
	cfg.Store.RedisPrefix = store.DefaultRedisPrefix

	cfg.Speech.Binary = speech.DefaultEspeakBinary

	cfg.Log.Level = "info"
	cfg.Log.Format = LogFormatAuto

	return cfg
}

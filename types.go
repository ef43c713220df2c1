package agrilingo

import (
	"context"
	"time"
)

// Provider is the interface for remote translation backends.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, req TranslateRequest) (string, error)

// Translate calls f(ctx, req).
func (f ProviderFunc) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	return f(ctx, req)
}

// TranslateRequest contains the parameters for a single remote translation.
type TranslateRequest struct {
	Text       string // Source text, untrimmed
	SourceLang string // Source language code (default: "en")
	TargetLang string // Target language code
	Format     string // "text" or "html" (default: "text")
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
	Delete(key string)
	Len() int
	Entries() map[string]string
}

// Store is the persisted key-value store that survives restarts.
// Implementations live in package store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

// Well-known persisted keys.
const (
	KeyLanguage     = "appLanguage"
	KeyCache        = "translationCache"
	KeyAPICallCount = "apiCallCount"
	KeyAPICallDate  = "apiCallDate"
)

// Stats is a point-in-time view of the service state.
type Stats struct {
	Language      string `json:"language"`
	Version       uint64 `json:"version"`
	CacheSize     int    `json:"cache_size"`
	Failed        int    `json:"failed"`
	Pending       int    `json:"pending"`
	APICallsToday int    `json:"api_calls_today"`
	Day           string `json:"day"`
}

// Pending is a queued translation. Every caller asking for the same cache key
// while it is queued shares one Pending.
type Pending struct {
	Text string
	Lang string
	Key  string

	done       chan struct{}
	result     string
	translated bool
}

func newPending(text, lang, key string) *Pending {
	return &Pending{Text: text, Lang: lang, Key: key, done: make(chan struct{})}
}

// resolvedPending returns a Pending that is already complete.
func resolvedPending(text, lang, key, result string, translated bool) *Pending {
	p := newPending(text, lang, key)
	p.complete(result, translated)
	return p
}

// complete records the outcome and wakes every waiter. It must be called
// exactly once.
func (p *Pending) complete(result string, translated bool) {
	p.result = result
	p.translated = translated
	close(p.done)
}

// Done is closed once the translation has been resolved or given up.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Result returns the resolved text. It is the source text until Done is closed
// and when the translation failed.
func (p *Pending) Result() string {
	select {
	case <-p.done:
		return p.result
	default:
		return p.Text
	}
}

// Translated reports whether the result is a real translation.
func (p *Pending) Translated() bool {
	select {
	case <-p.done:
		return p.translated
	default:
		return false
	}
}

// Wait blocks until the translation resolves or ctx is done.
func (p *Pending) Wait(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return p.result, nil
	case <-ctx.Done():
		return p.Text, ctx.Err()
	}
}

// Defaults for Service timing.
const (
	DefaultMinInterval    = 300 * time.Millisecond
	DefaultFlushInterval  = 15 * time.Second
	DefaultRequestTimeout = 15 * time.Second
	DefaultCacheCapacity  = 10000
)

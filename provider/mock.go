package provider

import (
	"context"
	"sync"
	"time"

	"github.com/ZaguanLabs/agrilingo"
)

// MockCall records one Translate invocation.
type MockCall struct {
	Request TranslateRequest
	Start   time.Time
}

// MockProvider is a deterministic provider for tests. It is safe for
// concurrent use.
type MockProvider struct {
	mu sync.Mutex

	// Translations maps "<text>_<lang>" (see agrilingo.CacheKey) to a result.
	Translations map[string]string
	// Failures maps a cache key to the error returned for it.
	Failures map[string]error
	// Fallback, when set, produces results for keys missing from Translations.
	Fallback func(req TranslateRequest) (string, error)
	// Delay is slept before answering, honoring ctx.
	Delay time.Duration

	calls []MockCall
}

// NewMockProvider creates a mock provider with a few Hindi translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Some unseen phrase_hi": "अनुवादित पाठ",
			"Harvest_hi":            "फसल कटाई",
			"Harvest_fr":            "Récolte",
		},
		Failures: make(map[string]error),
	}
}

// Set registers a translation.
func (m *MockProvider) Set(text, lang, translation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Translations == nil {
		m.Translations = make(map[string]string)
	}
	m.Translations[agrilingo.CacheKey(text, lang)] = translation
}

// Fail makes every request for (text, lang) return err.
func (m *MockProvider) Fail(text, lang string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Failures == nil {
		m.Failures = make(map[string]error)
	}
	m.Failures[agrilingo.CacheKey(text, lang)] = err
}

// Translate returns the registered translation. Unknown texts fail with a
// non-retryable ProviderError unless Fallback is set.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Request: req, Start: time.Now()})
	key := agrilingo.CacheKey(req.Text, req.TargetLang)
	translation, found := m.Translations[key]
	failure := m.Failures[key]
	fallback := m.Fallback
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if failure != nil {
		return "", failure
	}
	if found {
		return translation, nil
	}
	if fallback != nil {
		return fallback(req)
	}
	return "", &agrilingo.ProviderError{Message: "no translation for " + key, StatusCode: 400}
}

// CallCount returns the number of Translate calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded calls.
func (m *MockProvider) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsFor returns how many times (text, lang) was requested.
func (m *MockProvider) CallsFor(text, lang string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Request.Text == text && c.Request.TargetLang == lang {
			n++
		}
	}
	return n
}

// Reset clears the recorded calls.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)

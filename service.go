package agrilingo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ZaguanLabs/agrilingo/cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Service resolves UI text into the selected language.
//
// Lookups go cache, then dictionary, then a single background drainer that
// calls the remote Provider one request at a time. A Service is built once by
// the application and shared; it is safe for concurrent use.
type Service struct {
	provider       Provider
	cache          TranslationCache
	store          Store
	dict           *Dictionary
	sourceLang     string
	minInterval    time.Duration
	flushInterval  time.Duration
	requestTimeout time.Duration
	retry          RetryPolicy
	quota          *rate.Limiter
	log            zerolog.Logger
	now            func() time.Time

	mu       sync.Mutex
	lang     string
	version  uint64
	failed   map[string]struct{}
	queue    []*Pending
	inflight map[string]*Pending
	draining bool
	lastCall time.Time
	apiCalls int
	apiDay   string
	subs     map[int]chan uint64
	nextSub  int
	closed   bool

	flushMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ServiceOption is a functional option for configuring the Service.
type ServiceOption func(*Service)

// WithCache sets the in-memory translation cache.
func WithCache(c TranslationCache) ServiceOption {
	return func(s *Service) {
		s.cache = c
	}
}

// WithStore sets the persisted store used by Load and Flush.
func WithStore(st Store) ServiceOption {
	return func(s *Service) {
		s.store = st
	}
}

// WithDictionary replaces the bundled phrase table.
func WithDictionary(d *Dictionary) ServiceOption {
	return func(s *Service) {
		s.dict = d
	}
}

// WithSourceLang sets the language UI text is written in.
func WithSourceLang(lang string) ServiceOption {
	return func(s *Service) {
		s.sourceLang = lang
	}
}

// WithMinInterval sets the minimum time between the starts of two remote calls.
func WithMinInterval(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.minInterval = d
	}
}

// WithFlushInterval sets how often Run writes the cache to the store.
func WithFlushInterval(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.flushInterval = d
	}
}

// WithRequestTimeout bounds each remote call. Zero disables the bound.
func WithRequestTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.requestTimeout = d
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = l
	}
}

// WithClock sets the clock used to date the daily usage counter.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service backed by provider.
// Call Load to restore persisted state and Close when done.
func NewService(provider Provider, opts ...ServiceOption) *Service {
	s := &Service{
		provider:       provider,
		sourceLang:     DefaultLanguage,
		minInterval:    DefaultMinInterval,
		flushInterval:  DefaultFlushInterval,
		requestTimeout: DefaultRequestTimeout,
		log:            zerolog.Nop(),
		now:            time.Now,
		failed:         make(map[string]struct{}),
		inflight:       make(map[string]*Pending),
		subs:           make(map[int]chan uint64),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cache == nil {
		s.cache = cache.NewLRUCache(DefaultCacheCapacity, 0)
	}
	if s.dict == nil {
		s.dict = DefaultDictionary()
	}
	if s.flushInterval <= 0 {
		s.flushInterval = DefaultFlushInterval
	}
	s.lang = s.sourceLang
	s.log = s.log.With().Str("sys", "translate").Logger()
	s.ctx, s.cancel = context.WithCancel(context.Background())

	return s
}

// Resolve returns the best translation of text available right now.
// An empty lang means the current language. When nothing is known yet the
// text is queued for remote translation and returned unchanged; subscribers
// are notified once the translation lands. Resolve never fails.
func (s *Service) Resolve(text, lang string) string {
	return s.Request(text, lang).Result()
}

// Request is Resolve for callers that want to wait: the returned Pending is
// already done unless the text had to be queued. Every caller asking for the
// same text and language while it is queued receives the same Pending.
func (s *Service) Request(text, lang string) *Pending {
	if lang == "" {
		lang = s.Language()
	}
	key := CacheKey(text, lang)

	if strings.TrimSpace(text) == "" || lang == s.sourceLang || !IsSupported(lang) {
		return resolvedPending(text, lang, key, text, false)
	}

	if v, ok := s.cache.Get(key); ok {
		return resolvedPending(text, lang, key, v, true)
	}

	if v, ok := s.dict.Lookup(text, lang); ok {
		s.remember(key, v)
		return resolvedPending(text, lang, key, v, true)
	}

	return s.enqueue(text, lang, key)
}

// Await resolves text, waiting for a queued remote translation to finish.
// The source text is returned when the translation fails. The error is
// non-nil only when ctx ends first.
func (s *Service) Await(ctx context.Context, text, lang string) (string, error) {
	return s.Request(text, lang).Wait(ctx)
}

// Tr resolves a well-known message.
func (s *Service) Tr(key MsgKey, lang string) string {
	return s.Resolve(string(key), lang)
}

// Dictionary returns the phrase table in use.
func (s *Service) Dictionary() *Dictionary {
	return s.dict
}

// Language returns the selected language code.
func (s *Service) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// Version returns the language version counter. It grows on every language
// change and every translation that lands.
func (s *Service) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// ChangeLanguage selects code and persists the choice. Unsupported codes are
// ignored and false is returned. A failed persist is logged, not returned.
func (s *Service) ChangeLanguage(ctx context.Context, code string) bool {
	if !IsSupported(code) {
		return false
	}

	s.mu.Lock()
	prev := s.lang
	s.lang = code
	v := s.bumpLocked()
	s.mu.Unlock()

	s.log.Info().Str("from", prev).Str("to", code).Uint64("version", v).Msg("language changed")

	if s.store != nil {
		if err := s.store.Set(ctx, KeyLanguage, code); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist language")
		}
	}
	return true
}

// Subscribe returns a channel that receives the version after every bump.
// Deliveries coalesce: a slow reader sees the latest version, never a
// backlog, and never blocks the Service. The channel is closed by cancel or
// by Close.
func (s *Service) Subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Prime records a known translation, for example one confirmed by an
// operator. It clears a failure mark for the same text.
func (s *Service) Prime(text, lang, translation string) error {
	if !IsSupported(lang) {
		return &TranslationError{Message: "unsupported language " + lang}
	}
	if strings.TrimSpace(text) == "" || translation == "" {
		return &TranslationError{Message: "text and translation are required"}
	}

	key := CacheKey(text, lang)
	if err := s.cache.Set(key, translation); err != nil {
		return &CacheError{Message: "storing " + key, Cause: err}
	}

	s.mu.Lock()
	delete(s.failed, key)
	s.bumpLocked()
	s.mu.Unlock()
	return nil
}

// Stats returns a snapshot of the service state.
func (s *Service) Stats() Stats {
	size := s.cache.Len()
	today := s.today()

	s.mu.Lock()
	defer s.mu.Unlock()

	calls := s.apiCalls
	if s.apiDay != today {
		calls = 0
	}
	return Stats{
		Language:      s.lang,
		Version:       s.version,
		CacheSize:     size,
		Failed:        len(s.failed),
		Pending:       len(s.inflight),
		APICallsToday: calls,
		Day:           today,
	}
}

// remember writes a dictionary hit into the cache.
func (s *Service) remember(key, value string) {
	if err := s.cache.Set(key, value); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// bumpLocked increments the version and notifies subscribers.
// s.mu must be held.
func (s *Service) bumpLocked() uint64 {
	s.version++
	v := s.version
	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
			// Replace the stale value
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
	return v
}

func (s *Service) today() string {
	return s.now().Format(time.DateOnly)
}

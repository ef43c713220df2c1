package agrilingo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ZaguanLabs/agrilingo/cache"
)

// flushTimeout bounds the final flush performed on shutdown.
const flushTimeout = 5 * time.Second

// Load restores the selected language, the translation cache and today's
// usage counter from the store. An unreadable cache snapshot or an
// unsupported language is logged and skipped; only store failures are
// returned, and the Service stays usable either way.
func (s *Service) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	var errs []error

	lang, ok, err := s.store.Get(ctx, KeyLanguage)
	switch {
	case err != nil:
		errs = append(errs, err)
	case ok && IsSupported(lang):
		s.mu.Lock()
		s.lang = lang
		s.mu.Unlock()
	case ok:
		s.log.Warn().Str("language", lang).Msg("ignoring unsupported persisted language")
	}

	blob, ok, err := s.store.Get(ctx, KeyCache)
	switch {
	case err != nil:
		errs = append(errs, err)
	case ok:
		s.restoreCache(blob)
	}

	if err := s.loadUsage(ctx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (s *Service) restoreCache(blob string) {
	snap, err := cache.DecodeSnapshot([]byte(blob))
	if err != nil {
		s.log.Warn().Err(err).Msg("discarding unreadable cache snapshot")
		return
	}

	restored := 0
	for _, e := range snap.Entries {
		if e.Key == "" || e.Value == "" {
			continue
		}
		if err := s.cache.Set(e.Key, e.Value); err != nil {
			s.log.Warn().Err(err).Str("key", e.Key).Msg("cache write failed")
			continue
		}
		restored++
	}
	s.log.Info().Int("entries", restored).Msg("translation cache restored")
}

func (s *Service) loadUsage(ctx context.Context) error {
	day, ok, err := s.store.Get(ctx, KeyAPICallDate)
	if err != nil {
		return err
	}
	if !ok || day != s.today() {
		// A counter from another day starts over
		return nil
	}

	raw, ok, err := s.store.Get(ctx, KeyAPICallCount)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		s.log.Warn().Str("value", raw).Msg("ignoring malformed usage counter")
		return nil
	}

	s.mu.Lock()
	s.apiDay = day
	s.apiCalls = n
	s.mu.Unlock()
	return nil
}

// Flush writes the cache snapshot and usage counter to the store.
// An empty cache is not written, so a fresh process never overwrites a
// snapshot it failed to load.
func (s *Service) Flush(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	var errs []error

	if entries := s.cache.Entries(); len(entries) > 0 {
		data, err := cache.EncodeSnapshot(entries, nil)
		if err != nil {
			errs = append(errs, &CacheError{Message: "encoding snapshot", Cause: err})
		} else if err := s.store.Set(ctx, KeyCache, string(data)); err != nil {
			errs = append(errs, err)
		}
	}

	s.mu.Lock()
	calls, day := s.apiCalls, s.apiDay
	s.mu.Unlock()

	if day != "" {
		if err := s.store.Set(ctx, KeyAPICallCount, strconv.Itoa(calls)); err != nil {
			errs = append(errs, err)
		}
		if err := s.store.Set(ctx, KeyAPICallDate, day); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Run flushes on every flush interval until ctx is done, then flushes once
// more. Flush failures are logged and the loop continues.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
			err := s.Flush(final)
			cancel()
			if err != nil {
				s.log.Warn().Err(err).Msg("final cache flush failed")
			}
			return nil
		case <-ticker.C:
			if err := s.Flush(ctx); err != nil {
				s.log.Warn().Err(err).Msg("cache flush failed")
			}
		}
	}
}

// Close stops the drainer, releases queued waiters with their source text,
// flushes and closes subscriber channels. Requests after Close are answered
// from the cache and dictionary only.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	err := s.Flush(ctx)

	s.mu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	return err
}

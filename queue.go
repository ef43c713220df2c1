package agrilingo

import (
	"context"
	"time"
)

// enqueue adds a pending translation unless one already exists for key.
// The drainer is started when the queue was idle.
func (s *Service) enqueue(text, lang, key string) *Pending {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return resolvedPending(text, lang, key, text, false)
	}
	if _, failed := s.failed[key]; failed {
		return resolvedPending(text, lang, key, text, false)
	}
	if p, ok := s.inflight[key]; ok {
		return p
	}

	p := newPending(text, lang, key)
	s.inflight[key] = p
	s.queue = append(s.queue, p)

	if !s.draining {
		s.draining = true
		s.wg.Add(1)
		go s.drain()
	}
	return p
}

// drain processes the queue in FIFO order until it is empty or the service
// shuts down. At most one drainer runs at a time.
func (s *Service) drain() {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 || s.ctx.Err() != nil {
			aborted := s.queue
			s.queue = nil
			for _, p := range aborted {
				delete(s.inflight, p.Key)
			}
			s.draining = false
			s.mu.Unlock()

			for _, p := range aborted {
				p.complete(p.Text, false)
			}
			return
		}

		p := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.process(p)
	}
}

// process resolves one queued entry. Retries allowed by the retry policy
// happen here, each one paced and counted like a fresh call.
func (s *Service) process(p *Pending) {
	// Another path may have filled the cache while p waited
	if v, ok := s.cache.Get(p.Key); ok {
		s.succeed(p, v, false)
		return
	}
	if v, ok := s.dict.Lookup(p.Text, p.Lang); ok {
		s.succeed(p, v, true)
		return
	}

	for attempt := 0; ; attempt++ {
		gap := s.minInterval
		if attempt > 0 {
			gap = max(gap, s.retry.backoff(attempt))
		}
		if err := s.pace(gap); err != nil {
			s.abort(p)
			return
		}

		calls := s.countCall()
		log := s.log.With().Str("key", p.Key).Int("attempt", attempt+1).Int("calls_today", calls).Logger()

		start := time.Now()
		translated, err := s.call(p)
		if err == nil {
			log.Debug().Dur("took", time.Since(start)).Msg("translated")
			s.succeed(p, translated, true)
			return
		}

		if s.ctx.Err() != nil {
			s.abort(p)
			return
		}
		if s.retry.allows(attempt, err) {
			log.Warn().Err(err).Dur("took", time.Since(start)).Msg("translation failed, retrying")
			continue
		}
		log.Warn().Err(err).Dur("took", time.Since(start)).Msg("translation failed, keeping source text")
		s.fail(p)
		return
	}
}

// call makes one remote call for p, bounded by the request timeout.
func (s *Service) call(p *Pending) (string, error) {
	ctx := s.ctx
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, s.requestTimeout)
		defer cancel()
	}

	translated, err := s.provider.Translate(ctx, TranslateRequest{
		Text:       p.Text,
		SourceLang: s.sourceLang,
		TargetLang: p.Lang,
		Format:     "text",
	})
	if err == nil && translated == "" {
		err = &ProviderError{Message: "empty translation"}
	}
	return translated, err
}

// pace waits until gap has passed since the previous remote call started and
// a quota token is available, then records the start of the next call.
func (s *Service) pace(gap time.Duration) error {
	s.mu.Lock()
	last := s.lastCall
	s.mu.Unlock()

	if !last.IsZero() {
		if wait := gap - time.Since(last); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-s.ctx.Done():
				timer.Stop()
				return s.ctx.Err()
			}
		}
	}

	if s.quota != nil {
		if err := s.quota.Wait(s.ctx); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.lastCall = time.Now()
	s.mu.Unlock()
	return nil
}

// countCall records a remote call against today's usage and returns the count.
func (s *Service) countCall() int {
	day := s.today()

	s.mu.Lock()
	defer s.mu.Unlock()
	if day != s.apiDay {
		s.apiDay = day
		s.apiCalls = 0
	}
	s.apiCalls++
	return s.apiCalls
}

// succeed stores the translation, clears any failure mark and wakes waiters.
// When write is false the value is already cached.
func (s *Service) succeed(p *Pending, value string, write bool) {
	if write {
		s.remember(p.Key, value)
	}

	s.mu.Lock()
	delete(s.failed, p.Key)
	delete(s.inflight, p.Key)
	s.bumpLocked()
	s.mu.Unlock()

	p.complete(value, true)
}

// fail marks the key failed for the rest of the session.
func (s *Service) fail(p *Pending) {
	s.mu.Lock()
	s.failed[p.Key] = struct{}{}
	delete(s.inflight, p.Key)
	s.mu.Unlock()

	p.complete(p.Text, false)
}

// abort releases waiters during shutdown without marking the key failed.
func (s *Service) abort(p *Pending) {
	s.mu.Lock()
	delete(s.inflight, p.Key)
	s.mu.Unlock()

	p.complete(p.Text, false)
}

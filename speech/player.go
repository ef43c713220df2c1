package speech

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Player plays one utterance at a time through an Engine.
// It is safe for concurrent use.
type Player struct {
	engine  Engine
	handler func(Event)
	log     zerolog.Logger

	mu      sync.Mutex
	current *playback
	closed  bool
	wg      sync.WaitGroup
}

type playback struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithHandler sets the function that receives lifecycle events. It is called
// from the playback goroutine and must not block for long.
func WithHandler(fn func(Event)) PlayerOption {
	return func(p *Player) {
		p.handler = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) PlayerOption {
	return func(p *Player) {
		p.log = l
	}
}

// NewPlayer creates a Player.
func NewPlayer(engine Engine, opts ...PlayerOption) *Player {
	p := &Player{
		engine:  engine,
		handler: func(Event) {},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With().Str("sys", "speech").Logger()
	return p
}

// Toggle stops playback when something is playing and otherwise starts u.
// It reports whether playback was started.
func (p *Player) Toggle(ctx context.Context, u Utterance) bool {
	p.mu.Lock()
	if p.current != nil {
		cur := p.current
		p.current = nil
		p.mu.Unlock()

		cur.cancel()
		<-cur.done
		return false
	}
	defer p.mu.Unlock()
	return p.startLocked(ctx, u)
}

// Play stops whatever is playing and starts u. It returns false once the
// Player is closed.
func (p *Player) Play(ctx context.Context, u Utterance) bool {
	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.startLocked(ctx, u)
}

// Stop cancels the current utterance and waits for it to end.
func (p *Player) Stop() {
	p.mu.Lock()
	cur := p.current
	p.current = nil
	p.mu.Unlock()

	if cur != nil {
		cur.cancel()
		<-cur.done
	}
}

// Speaking reports whether an utterance is playing.
func (p *Player) Speaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

// Wait blocks until the current utterance ends or ctx is done.
func (p *Player) Wait(ctx context.Context) error {
	p.mu.Lock()
	cur := p.current
	p.mu.Unlock()

	if cur == nil {
		return nil
	}
	select {
	case <-cur.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels playback immediately and rejects further utterances.
func (p *Player) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.Stop()
	p.wg.Wait()
	return nil
}

// startLocked launches u. p.mu must be held.
func (p *Player) startLocked(ctx context.Context, u Utterance) bool {
	if p.closed || p.current != nil {
		return false
	}

	ctx, cancel := context.WithCancel(ctx)
	pb := &playback{cancel: cancel, done: make(chan struct{})}
	p.current = pb

	p.wg.Add(1)
	go p.run(ctx, pb, u)
	return true
}

func (p *Player) run(ctx context.Context, pb *playback, u Utterance) {
	defer p.wg.Done()
	defer close(pb.done)
	defer pb.cancel()

	p.handler(Event{Type: EventStart, Utterance: u})
	p.log.Debug().Str("lang", u.Lang).Int("chars", len(u.Text)).Msg("speaking")

	err := p.engine.Speak(ctx, u)

	p.mu.Lock()
	if p.current == pb {
		p.current = nil
	}
	p.mu.Unlock()

	// A cancelled utterance ends normally
	if err != nil && !errors.Is(err, context.Canceled) {
		p.log.Warn().Err(err).Str("lang", u.Lang).Msg("speech failed")
		p.handler(Event{Type: EventError, Utterance: u, Err: err})
		return
	}
	p.handler(Event{Type: EventEnd, Utterance: u})
}

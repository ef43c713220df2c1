package agrilingo_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ZaguanLabs/agrilingo"
	"github.com/ZaguanLabs/agrilingo/cache"
	"github.com/ZaguanLabs/agrilingo/store"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(day string) *fakeClock {
	t, _ := time.Parse(time.DateOnly, day)
	return &fakeClock{now: t.Add(9 * time.Hour)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLoad_RestoresState(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock("2026-03-14")
	st := store.NewMemoryStore()
	st.Set(ctx, agrilingo.KeyLanguage, "hi")
	st.Set(ctx, agrilingo.KeyCache, `{"Sowing window_hi":"बुवाई का समय"}`)
	st.Set(ctx, agrilingo.KeyAPICallDate, "2026-03-14")
	st.Set(ctx, agrilingo.KeyAPICallCount, "3")

	svc, mock := newTestService(t, agrilingo.WithStore(st), agrilingo.WithClock(clock.Now))
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if svc.Language() != "hi" {
		t.Errorf("Language = %q, want hi", svc.Language())
	}
	if got := svc.Resolve("Sowing window", ""); got != "बुवाई का समय" {
		t.Errorf("Restored entry = %q", got)
	}
	stats := svc.Stats()
	if stats.APICallsToday != 3 {
		t.Errorf("APICallsToday = %d, want 3", stats.APICallsToday)
	}
	if stats.Day != "2026-03-14" {
		t.Errorf("Day = %q", stats.Day)
	}
	if mock.CallCount() != 0 {
		t.Error("Load should not call the provider")
	}
	// Loading does not count as a language change
	if svc.Version() != 0 {
		t.Errorf("Version = %d, want 0", svc.Version())
	}
}

func TestLoad_VersionedSnapshot(t *testing.T) {
	ctx := context.Background()
	blob, err := cache.EncodeSnapshot(map[string]string{"Sowing window_mr": "पेरणी कालावधी"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	st := store.NewMemoryStore()
	st.Set(ctx, agrilingo.KeyCache, string(blob))

	svc, _ := newTestService(t, agrilingo.WithStore(st))
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := svc.Resolve("Sowing window", "mr"); got != "पेरणी कालावधी" {
		t.Errorf("Restored entry = %q", got)
	}
}

func TestLoad_CorruptCacheStartsEmpty(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.Set(ctx, agrilingo.KeyLanguage, "ta")
	st.Set(ctx, agrilingo.KeyCache, "{not json")

	svc, _ := newTestService(t, agrilingo.WithStore(st))
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("A corrupt snapshot should not fail Load: %v", err)
	}
	if svc.Stats().CacheSize != 0 {
		t.Error("Cache should start empty")
	}
	if svc.Language() != "ta" {
		t.Error("Language should still be restored")
	}

	// Flushing the empty cache must not overwrite the snapshot
	if err := svc.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if v, _, _ := st.Get(ctx, agrilingo.KeyCache); v != "{not json" {
		t.Errorf("Empty cache overwrote the stored snapshot: %q", v)
	}
}

func TestLoad_UnsupportedLanguageIgnored(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.Set(ctx, agrilingo.KeyLanguage, "de")

	svc, _ := newTestService(t, agrilingo.WithStore(st))
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if svc.Language() != "en" {
		t.Errorf("Language = %q, want en", svc.Language())
	}
}

func TestLoad_StaleUsageCounterIgnored(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.Set(ctx, agrilingo.KeyAPICallDate, "2026-03-13")
	st.Set(ctx, agrilingo.KeyAPICallCount, "40")

	svc, _ := newTestService(t, agrilingo.WithStore(st), agrilingo.WithClock(newFakeClock("2026-03-14").Now))
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if n := svc.Stats().APICallsToday; n != 0 {
		t.Errorf("APICallsToday = %d, want 0", n)
	}
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (brokenStore) Set(context.Context, string, string) error {
	return errors.New("connection refused")
}

func TestLoad_StoreErrorsAreReturned(t *testing.T) {
	svc, _ := newTestService(t, agrilingo.WithStore(brokenStore{}))

	if err := svc.Load(context.Background()); err == nil {
		t.Error("Load should report store failures")
	}
	// Still usable
	if got := svc.Resolve("Dashboard", "hi"); got != "डैशबोर्ड" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestLoad_NoStore(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.Load(context.Background()); err != nil {
		t.Errorf("Load without a store should be a no-op, got %v", err)
	}
	if err := svc.Flush(context.Background()); err != nil {
		t.Errorf("Flush without a store should be a no-op, got %v", err)
	}
}

func TestFlush_WritesSnapshotAndUsage(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock("2026-03-14")
	st := store.NewMemoryStore()
	svc, _ := newTestService(t, agrilingo.WithStore(st), agrilingo.WithClock(clock.Now))

	if _, err := svc.Await(waitCtx(t), "Harvest", "hi"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	blob, ok, _ := st.Get(ctx, agrilingo.KeyCache)
	if !ok {
		t.Fatal("Flush should write the cache")
	}
	snap, err := cache.DecodeSnapshot([]byte(blob))
	if err != nil {
		t.Fatalf("stored snapshot is unreadable: %v", err)
	}
	if snap.Map()["Harvest_hi"] != "फसल कटाई" {
		t.Errorf("snapshot entries = %v", snap.Entries)
	}

	if v, _, _ := st.Get(ctx, agrilingo.KeyAPICallCount); v != "1" {
		t.Errorf("apiCallCount = %q, want 1", v)
	}
	if v, _, _ := st.Get(ctx, agrilingo.KeyAPICallDate); v != "2026-03-14" {
		t.Errorf("apiCallDate = %q", v)
	}
}

func TestUsageCounter_ResetsDaily(t *testing.T) {
	clock := newFakeClock("2026-03-14")
	svc, mock := newTestService(t, agrilingo.WithClock(clock.Now))
	mock.Fallback = func(req agrilingo.TranslateRequest) (string, error) {
		return req.Text + "*", nil
	}
	ctx := waitCtx(t)

	svc.Await(ctx, "first", "kn")
	svc.Await(ctx, "second", "kn")
	if n := svc.Stats().APICallsToday; n != 2 {
		t.Fatalf("APICallsToday = %d, want 2", n)
	}

	clock.Advance(24 * time.Hour)
	if n := svc.Stats().APICallsToday; n != 0 {
		t.Errorf("A new day should read as zero, got %d", n)
	}

	svc.Await(ctx, "third", "kn")
	stats := svc.Stats()
	if stats.APICallsToday != 1 || stats.Day != "2026-03-15" {
		t.Errorf("stats = %+v", stats)
	}

	// Cache and dictionary hits are free
	svc.Await(ctx, "third", "kn")
	svc.Await(ctx, "Dashboard", "kn")
	if n := svc.Stats().APICallsToday; n != 1 {
		t.Errorf("APICallsToday = %d, want 1", n)
	}
}

func TestRun_FlushesPeriodically(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc, _ := newTestService(t, agrilingo.WithStore(st), agrilingo.WithFlushInterval(10*time.Millisecond))

	if err := svc.Prime("Crop rotation", "fr", "Rotation des cultures"); err != nil {
		t.Fatal(err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- svc.Run(runCtx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok, _ := st.Get(ctx, agrilingo.KeyCache); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Run did not flush the cache")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestRun_FinalFlushOnCancel(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc, _ := newTestService(t, agrilingo.WithStore(st), agrilingo.WithFlushInterval(time.Hour))

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- svc.Run(runCtx) }()

	svc.Prime("Crop rotation", "es", "Rotación de cultivos")
	cancel()
	<-done

	blob, ok, _ := st.Get(ctx, agrilingo.KeyCache)
	if !ok {
		t.Fatal("Run should flush when stopped")
	}
	snap, _ := cache.DecodeSnapshot([]byte(blob))
	if snap.Map()["Crop rotation_es"] != "Rotación de cultivos" {
		t.Errorf("snapshot = %v", snap.Entries)
	}
}

func TestRestart_FileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	st, err := store.OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	svc, mock := newTestService(t, agrilingo.WithStore(st))
	svc.ChangeLanguage(ctx, "hi")
	if _, err := svc.Await(waitCtx(t), "Some unseen phrase", ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}

	// A new process sees the same language and cache
	st2, err := store.OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	svc2, mock2 := newTestService(t, agrilingo.WithStore(st2))
	if err := svc2.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if svc2.Language() != "hi" {
		t.Errorf("Language = %q", svc2.Language())
	}
	if got := svc2.Resolve("Some unseen phrase", ""); got != "अनुवादित पाठ" {
		t.Errorf("Resolve after restart = %q", got)
	}
	if mock2.CallCount() != 0 {
		t.Error("Restored entries should not be fetched again")
	}
}

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute, nil)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := NewStore[int](time.Minute, clock)
	ctx := context.Background()

	store.Set(ctx, "season:2025", 42)
	if v, ok := store.Get(ctx, "season:2025"); !ok || v != 42 {
		t.Fatalf("expected cached value, got %d %v", v, ok)
	}

	clock.Advance(time.Minute)
	if _, ok := store.Get(ctx, "season:2025"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute, nil)
	var calls atomic.Int32

	failing := func(context.Context) (string, error) {
		calls.Add(1)
		return "", errUnexpectedValue
	}

	ctx := context.Background()
	if _, err := store.GetOrLoad(ctx, "k", failing); !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, err := store.GetOrLoad(ctx, "k", failing); !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[string](0, nil)
	ctx := context.Background()
	store.Set(ctx, "bbref:2025", "a")
	store.Set(ctx, "bbref:2024", "b")
	store.Set(ctx, "roster:2025", "c")

	store.DeletePrefix(ctx, "bbref:")

	if _, ok := store.Get(ctx, "bbref:2025"); ok {
		t.Fatalf("expected bbref entries removed")
	}
	if _, ok := store.Get(ctx, "roster:2025"); !ok {
		t.Fatalf("expected unrelated entry kept")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

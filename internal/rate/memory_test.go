package rate

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter(3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "alice")
		if err != nil {
			t.Fatal(err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d: expected allowed", i+1)
		}
	}

	res, err := l.Allow(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatal("4th hit: expected denied")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("RetryAfter = %v, want > 0", res.RetryAfter)
	}

	// otra key no comparte ventana
	other, err := l.Allow(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if !other.Allowed {
		t.Fatal("different key must not be throttled")
	}
}

func TestMemoryLimiter_ConcurrentFirstHitsDoNotUndercount(t *testing.T) {
	// todos los hits arrancan la misma ventana a la vez: ninguno puede
	// pisar el contador de otro
	const max = 5
	const hits = 20

	l := NewMemoryLimiter(max, time.Hour)
	ctx := context.Background()

	var allowed atomic.Int64
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < hits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, err := l.Allow(ctx, "alice")
			if err != nil {
				t.Error(err)
				return
			}
			if res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := allowed.Load(); got != max {
		t.Fatalf("allowed = %d, want exactly %d", got, max)
	}
}

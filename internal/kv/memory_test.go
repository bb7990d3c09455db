package kv_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cheekylabs/cheeky/internal/kv"
)

func TestMemory_SetGet(t *testing.T) {
	t.Parallel()

	m := kv.NewMemory()
	ctx := context.Background()

	if err := m.SetEx(ctx, "context:1", `[{"role":"user"}]`, time.Hour); err != nil {
		t.Fatalf("SetEx: %v", err)
	}

	got, err := m.Get(ctx, "context:1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `[{"role":"user"}]` {
		t.Errorf("Get = %q, want stored value", got)
	}
}

func TestMemory_Get_Missing(t *testing.T) {
	t.Parallel()

	m := kv.NewMemory()
	_, err := m.Get(context.Background(), "nope")
	if !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestMemory_TTLExpiry(t *testing.T) {
	t.Parallel()

	m := kv.NewMemory()
	ctx := context.Background()

	base := time.Now()
	current := base
	var mu sync.Mutex
	m.SetClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	})

	if err := m.SetEx(ctx, "summary:1", "beach talk", time.Hour); err != nil {
		t.Fatal(err)
	}

	// Still fresh just before the deadline.
	mu.Lock()
	current = base.Add(59 * time.Minute)
	mu.Unlock()
	if _, err := m.Get(ctx, "summary:1"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	mu.Lock()
	current = base.Add(2 * time.Hour)
	mu.Unlock()
	if _, err := m.Get(ctx, "summary:1"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Get after expiry = %v, want ErrNotFound", err)
	}
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	m := kv.NewMemory()
	ctx := context.Background()

	base := time.Now()
	current := base
	var mu sync.Mutex
	m.SetClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	})

	if err := m.SetEx(ctx, "k", "v", 0); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	current = base.Add(1000 * time.Hour)
	mu.Unlock()
	if _, err := m.Get(ctx, "k"); err != nil {
		t.Errorf("Get = %v, want value with no expiry", err)
	}
}

func TestMemory_Delete_Idempotent(t *testing.T) {
	t.Parallel()

	m := kv.NewMemory()
	ctx := context.Background()

	if err := m.SetEx(ctx, "a", "1", 0); err != nil {
		t.Fatal(err)
	}
	if err := m.Delete(ctx, "a", "b", "c"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := m.Get(ctx, "a"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	m := kv.NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := "context:42"
			for range 100 {
				_ = m.SetEx(ctx, key, "v", time.Minute)
				_, _ = m.Get(ctx, key)
				if n%2 == 0 {
					_ = m.Delete(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()
}

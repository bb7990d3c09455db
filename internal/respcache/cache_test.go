package respcache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cheekylabs/cheeky/internal/kv"
	"github.com/cheekylabs/cheeky/internal/respcache"
)

func newTestCache(ttl time.Duration) (*respcache.Cache, *kv.Memory) {
	mem := kv.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return respcache.New(mem, ttl, logger), mem
}

func TestFingerprint_Deterministic(t *testing.T) {
	t.Parallel()

	k := respcache.Key{Message: "hi", Style: "playful", UserGender: "male", BotGender: "female"}
	if respcache.Fingerprint(k) != respcache.Fingerprint(k) {
		t.Error("identical keys produced different fingerprints")
	}
	if got := len(respcache.Fingerprint(k)); got != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", got)
	}
}

func TestFingerprint_SensitiveToEveryField(t *testing.T) {
	t.Parallel()

	base := respcache.Key{Message: "hi", Style: "playful", UserGender: "male", BotGender: "female"}
	variants := map[string]respcache.Key{
		"message":     {Message: "hello", Style: "playful", UserGender: "male", BotGender: "female"},
		"style":       {Message: "hi", Style: "romantic", UserGender: "male", BotGender: "female"},
		"user gender": {Message: "hi", Style: "playful", UserGender: "female", BotGender: "female"},
		"bot gender":  {Message: "hi", Style: "playful", UserGender: "male", BotGender: "neutral"},
	}

	ref := respcache.Fingerprint(base)
	for field, k := range variants {
		if respcache.Fingerprint(k) == ref {
			t.Errorf("changing %s did not change the fingerprint", field)
		}
	}
}

func TestFingerprint_FieldBoundaries(t *testing.T) {
	t.Parallel()

	// Without length prefixes these two would hash the same bytes.
	a := respcache.Key{Message: "ab", Style: "c"}
	b := respcache.Key{Message: "a", Style: "bc"}
	if respcache.Fingerprint(a) == respcache.Fingerprint(b) {
		t.Error("fingerprint collides across field boundaries")
	}
}

func TestCache_StoreAndLookup(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(0)
	ctx := context.Background()
	k := respcache.Key{Message: "hi", Style: "playful", UserGender: "male", BotGender: "female"}

	if _, ok := cache.Lookup(ctx, k); ok {
		t.Fatal("lookup hit on an empty cache")
	}

	cache.Store(ctx, k, "hey you 😊")

	got, ok := cache.Lookup(ctx, k)
	if !ok {
		t.Fatal("lookup missed after store")
	}
	if got != "hey you 😊" {
		t.Errorf("Lookup = %q, want the stored response", got)
	}

	// A different persona must not see the cached entry.
	other := k
	other.Style = "mysterious"
	if _, ok := cache.Lookup(ctx, other); ok {
		t.Error("lookup hit for a different style")
	}
}

func TestCache_EntriesExpire(t *testing.T) {
	t.Parallel()

	cache, mem := newTestCache(time.Minute)
	ctx := context.Background()
	k := respcache.Key{Message: "hi"}

	cache.Store(ctx, k, "cached")

	base := time.Now()
	mem.SetClock(func() time.Time { return base.Add(2 * time.Minute) })
	if _, ok := cache.Lookup(ctx, k); ok {
		t.Error("lookup hit past the TTL")
	}
}

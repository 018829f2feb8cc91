package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"presence-service/presence/domain"
	"presence-service/presence/infra"
)

func newWindow(store domain.Store, now func() time.Time) *SlidingWindow {
	return &SlidingWindow{
		Store:  store,
		Op:     "heartbeat",
		Max:    10,
		Window: 60 * time.Second,
		Now:    now,
	}
}

func TestSlidingWindow_AllowsUpToMax(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_000_000, 0)
	clock := func() time.Time { return now }

	store := infra.NewMemoryStore(infra.WithClock(clock))
	lim := newWindow(store, clock)

	// 1ª à 10ª passam
	for i := 0; i < 10; i++ {
		allowed, err := lim.Allow(ctx, "abcdefgh12")
		if err != nil {
			t.Fatalf("Allow #%d: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("Allow #%d = false, want true", i+1)
		}
		now = now.Add(time.Second)
	}

	// 11ª dentro da mesma janela bloqueia
	allowed, err := lim.Allow(ctx, "abcdefgh12")
	if err != nil {
		t.Fatalf("Allow #11: %v", err)
	}
	if allowed {
		t.Fatal("Allow #11 = true, want false")
	}
}

func TestSlidingWindow_RejectionDoesNotExtendWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_000_000, 0)
	clock := func() time.Time { return now }

	store := infra.NewMemoryStore(infra.WithClock(clock))
	lim := newWindow(store, clock)

	for i := 0; i < 10; i++ {
		if allowed, _ := lim.Allow(ctx, "abcdefgh12"); !allowed {
			t.Fatalf("Allow #%d = false", i+1)
		}
	}

	before, _, _ := store.Get(ctx, domain.RateLimitKey("heartbeat", "abcdefgh12"))

	// rejeições não escrevem nada
	for i := 0; i < 5; i++ {
		now = now.Add(time.Second)
		if allowed, _ := lim.Allow(ctx, "abcdefgh12"); allowed {
			t.Fatalf("Allow com janela cheia = true (tentativa %d)", i+1)
		}
	}

	after, _, _ := store.Get(ctx, domain.RateLimitKey("heartbeat", "abcdefgh12"))
	if before != after {
		t.Fatalf("janela mudou com requisições rejeitadas: %q -> %q", before, after)
	}
}

func TestSlidingWindow_SlidesAfterWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_000_000, 0)
	clock := func() time.Time { return now }

	store := infra.NewMemoryStore(infra.WithClock(clock))
	lim := newWindow(store, clock)

	for i := 0; i < 10; i++ {
		lim.Allow(ctx, "abcdefgh12")
	}
	if allowed, _ := lim.Allow(ctx, "abcdefgh12"); allowed {
		t.Fatal("janela cheia deveria bloquear")
	}

	// depois da janela inteira, tudo passa de novo
	now = now.Add(61 * time.Second)
	allowed, err := lim.Allow(ctx, "abcdefgh12")
	if err != nil {
		t.Fatalf("Allow pós-janela: %v", err)
	}
	if !allowed {
		t.Fatal("Allow pós-janela = false, want true")
	}
}

func TestSlidingWindow_IndependentIdentifiers(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_000_000, 0)
	clock := func() time.Time { return now }

	store := infra.NewMemoryStore(infra.WithClock(clock))
	lim := newWindow(store, clock)

	for i := 0; i < 10; i++ {
		lim.Allow(ctx, "abcdefgh12")
	}
	if allowed, _ := lim.Allow(ctx, "abcdefgh12"); allowed {
		t.Fatal("identificador saturado deveria bloquear")
	}
	if allowed, _ := lim.Allow(ctx, "outrasessao"); !allowed {
		t.Fatal("outro identificador não deveria ser afetado")
	}
}

func TestSlidingWindow_MalformedStoredValue(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_000_000, 0)
	clock := func() time.Time { return now }

	store := infra.NewMemoryStore(infra.WithClock(clock))
	lim := newWindow(store, clock)
	key := domain.RateLimitKey("heartbeat", "abcdefgh12")

	// valor corrompido conta como janela vazia, nunca como erro
	for _, corrupted := range []string{"{not json", `["a","b"]`, `{"x":1}`} {
		if err := store.Put(ctx, key, corrupted, time.Minute); err != nil {
			t.Fatalf("Put: %v", err)
		}
		allowed, err := lim.Allow(ctx, "abcdefgh12")
		if err != nil {
			t.Fatalf("Allow com valor %q: %v", corrupted, err)
		}
		if !allowed {
			t.Fatalf("Allow com valor %q = false, want true", corrupted)
		}
	}

	// e a escrita seguinte deixa a janela válida de novo
	raw, ok, _ := store.Get(ctx, key)
	if !ok {
		t.Fatal("janela não foi regravada")
	}
	var stamps []int64
	if err := json.Unmarshal([]byte(raw), &stamps); err != nil {
		t.Fatalf("janela regravada ilegível: %v", err)
	}
	if len(stamps) != 1 || stamps[0] != now.Unix() {
		t.Fatalf("janela regravada = %v", stamps)
	}
}

func TestSlidingWindow_StoreErrorSurfaces(t *testing.T) {
	lim := newWindow(failStore{}, nil)

	_, err := lim.Allow(context.Background(), "abcdefgh12")
	var serr *domain.StoreError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, esperava *domain.StoreError", err)
	}
}

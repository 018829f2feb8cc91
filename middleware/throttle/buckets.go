package throttle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Buckets mantém um token bucket (x/time/rate) por chave de cliente, com
// limpeza periódica das entradas ociosas.
type Buckets struct {
	mu      sync.Mutex
	entries map[string]*bucketEntry

	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type bucketEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type BucketsOption func(*Buckets)

func WithIdleTTL(d time.Duration) BucketsOption {
	return func(b *Buckets) { b.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) BucketsOption {
	return func(b *Buckets) { b.cleanupEvery = d }
}

func NewBuckets(rps float64, burst int, opts ...BucketsOption) *Buckets {
	b := &Buckets{
		entries:      make(map[string]*bucketEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Buckets) RPS() float64 { return float64(b.rps) }
func (b *Buckets) Burst() int   { return b.burst }

// Allow consome um token do bucket da chave, criando-o se necessário.
func (b *Buckets) Allow(key string) bool {
	now := time.Now()

	b.mu.Lock()
	ent, ok := b.entries[key]
	if !ok {
		ent = &bucketEntry{lim: rate.NewLimiter(b.rps, b.burst)}
		b.entries[key] = ent
	}
	ent.lastSeen = now
	b.mu.Unlock()

	return ent.lim.Allow()
}

func (b *Buckets) Cleanup() {
	cutoff := time.Now().Add(-b.idleTTL)

	b.mu.Lock()
	defer b.mu.Unlock()

	for k, ent := range b.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(b.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Pare cancelando o contexto.
func (b *Buckets) StartJanitor(ctx context.Context) {
	if b.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(b.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				b.Cleanup()
			}
		}
	}()
}

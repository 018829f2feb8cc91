package application

import (
	"context"
	"encoding/json"
	"time"

	"presence-service/presence/domain"
)

// SlidingWindow limita a taxa de um identificador para uma operação usando um
// log de timestamps persistido no armazenamento (sliding-window log).
//
// O read-modify-write não é atômico: duas requisições concorrentes do mesmo
// identificador podem observar a mesma janela e ambas serem admitidas. A folga
// é no máximo (requisições verdadeiramente concorrentes − 1) e é aceita como
// aproximação, já que o armazenamento não oferece compare-and-swap.
type SlidingWindow struct {
	Store  domain.Store
	Op     string
	Max    int
	Window time.Duration
	// Grace é a margem somada ao TTL da chave além da janela. Se 0, usa 10s.
	Grace time.Duration
	// Now permite injetar o relógio em testes. Se nil, usa time.Now.
	Now func() time.Time
}

func (l *SlidingWindow) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *SlidingWindow) grace() time.Duration {
	if l.Grace > 0 {
		return l.Grace
	}
	return 10 * time.Second
}

// Allow lê a janela do identificador, descarta timestamps mais velhos que
// Window e decide:
//
//   - janela cheia: retorna false sem escrever nada (a janela não é estendida
//     por requisições rejeitadas);
//   - caso contrário: anexa o instante atual, persiste a lista filtrada com
//     TTL Window+Grace e retorna true.
//
// Valor armazenado corrompido (JSON inválido, entradas não numéricas) conta
// como janela vazia — nunca derruba o limitador.
func (l *SlidingWindow) Allow(ctx context.Context, id string) (bool, error) {
	now := l.now()
	key := domain.RateLimitKey(l.Op, id)

	raw, ok, err := l.Store.Get(ctx, key)
	if err != nil {
		return false, &domain.StoreError{Op: "get " + key, Err: err}
	}

	var stamps []int64
	if ok {
		if err := json.Unmarshal([]byte(raw), &stamps); err != nil {
			stamps = nil
		}
	}

	cutoff := now.Add(-l.Window).Unix()
	recent := make([]int64, 0, len(stamps)+1)
	for _, ts := range stamps {
		if ts > cutoff {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.Max {
		return false, nil
	}

	recent = append(recent, now.Unix())
	data, err := json.Marshal(recent)
	if err != nil {
		return false, err
	}
	if err := l.Store.Put(ctx, key, string(data), l.Window+l.grace()); err != nil {
		return false, &domain.StoreError{Op: "put " + key, Err: err}
	}
	return true, nil
}

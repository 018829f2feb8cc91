package application

import (
	"context"
	"encoding/json"
	"sync"

	"presence-service/presence/domain"
)

func (s Service) pageSize() int64 {
	if s.PageSize > 0 {
		return s.PageSize
	}
	return 1000
}

func (s Service) fetchBatch() int {
	if s.FetchBatch > 0 {
		return s.FetchBatch
	}
	return 100
}

// Aggregate varre todo o keyspace user:* por páginas e reconstrói
// {count, moods} a partir dos registros vivos no momento da varredura.
//
// Count é o total de chaves observadas: existência da chave é o único sinal de
// vida, independente do valor ser parseável. O histograma de humor é
// best-effort — valor ilegível ou humor fora da enumeração é pulado em
// silêncio, nunca derruba a varredura.
//
// A varredura não é um snapshot: registros podem nascer ou expirar no meio
// dela, então o resultado é uma estimativa ponto-no-tempo.
func (s Service) Aggregate(ctx context.Context) (domain.Aggregate, error) {
	agg := domain.Aggregate{Moods: make(map[domain.Mood]int)}

	cursor := ""
	for {
		keys, next, err := s.Store.ListKeys(ctx, domain.UserKeyPrefix, cursor, s.pageSize())
		if err != nil {
			return domain.Aggregate{}, &domain.StoreError{Op: "listkeys " + domain.UserKeyPrefix, Err: err}
		}

		agg.Count += len(keys)
		s.tallyMoods(ctx, keys, agg.Moods)

		if next == "" {
			break
		}
		cursor = next
	}

	return agg, nil
}

// tallyMoods busca os valores de uma página em leituras pontuais, com o número
// em voo limitado por um semáforo de channel.
func (s Service) tallyMoods(ctx context.Context, keys []string, moods map[domain.Mood]int) {
	sem := make(chan struct{}, s.fetchBatch())

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, key := range keys {
		wg.Add(1)
		sem <- struct{}{}
		go func(key string) {
			defer wg.Done()
			defer func() { <-sem }()

			raw, ok, err := s.Store.Get(ctx, key)
			if err != nil || !ok {
				// a chave já contou; o humor é best-effort
				return
			}

			var rec domain.Record
			if err := json.Unmarshal([]byte(raw), &rec); err != nil {
				return
			}
			if rec.Mood == "" || !domain.IsValidMood(string(rec.Mood)) {
				return
			}

			mu.Lock()
			moods[rec.Mood]++
			mu.Unlock()
		}(key)
	}
	wg.Wait()
}

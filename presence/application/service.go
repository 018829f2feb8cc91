package application

import (
	"context"
	"encoding/json"
	"time"

	"presence-service/presence/domain"
)

// Service concentra os casos de uso de presença sobre um domain.Store.
//
// Cada requisição segue validar → rate limit (só escrita) → operação no
// armazenamento. Não há estado em processo: toda coordenação entre requisições
// é delegada à atomicidade por chave do armazenamento.
type Service struct {
	Store domain.Store

	// Heartbeats limita a taxa de heartbeat por sessão. Se nil, não limita.
	Heartbeats *SlidingWindow

	// TTL é a validade do registro de presença. Se 0, usa 60s.
	TTL time.Duration

	// PageSize é o limite de chaves por chamada de ListKeys na agregação.
	// Se 0, usa 1000.
	PageSize int64

	// FetchBatch limita as leituras pontuais em voo durante a agregação.
	// Se 0, usa 100.
	FetchBatch int

	// Now permite injetar o relógio em testes. Se nil, usa time.Now.
	Now func() time.Time
}

func (s Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 60 * time.Second
}

// Heartbeat grava {mood, timestamp} sob user:{sessionID} com TTL curto,
// substituindo incondicionalmente qualquer valor anterior. Não existe
// distinção criar/atualizar: todo heartbeat é um upsert com renovação.
//
// Erros possíveis: *domain.ValidationError, domain.ErrRateLimited,
// *domain.StoreError.
func (s Service) Heartbeat(ctx context.Context, sessionID, mood string) error {
	if !domain.IsValidSessionID(sessionID) {
		return &domain.ValidationError{Field: "sessionId"}
	}
	if !domain.IsValidMood(mood) {
		return &domain.ValidationError{Field: "mood"}
	}

	if s.Heartbeats != nil {
		allowed, err := s.Heartbeats.Allow(ctx, sessionID)
		if err != nil {
			return err
		}
		if !allowed {
			return domain.ErrRateLimited
		}
	}

	rec := domain.Record{Mood: domain.Mood(mood), Timestamp: s.now().Unix()}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	key := domain.UserKey(sessionID)
	if err := s.Store.Put(ctx, key, string(data), s.ttl()); err != nil {
		return &domain.StoreError{Op: "put " + key, Err: err}
	}
	return nil
}

// Leave remove user:{sessionID} imediatamente (saída explícita, sem esperar o
// TTL). Idempotente: remover chave ausente não é erro.
func (s Service) Leave(ctx context.Context, sessionID string) error {
	if !domain.IsValidSessionID(sessionID) {
		return &domain.ValidationError{Field: "sessionId"}
	}
	key := domain.UserKey(sessionID)
	if err := s.Store.Delete(ctx, key); err != nil {
		return &domain.StoreError{Op: "delete " + key, Err: err}
	}
	return nil
}

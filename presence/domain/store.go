package domain

import (
	"context"
	"time"
)

// Store é o contrato mínimo com o armazenamento chave-valor.
//
// A implementação pode ser Redis, memória, etc. O serviço assume apenas
// atomicidade por chave em Put/Delete — nada de transações multi-chave nem
// compare-and-swap.
//
// Get retorna ok=false (sem erro) quando a chave não existe.
//
// ListKeys pagina o keyspace por prefixo: cursor vazio inicia a varredura e
// next vazio indica que não há mais páginas. O cursor é opaco para o chamador.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix, cursor string, limit int64) (keys []string, next string, err error)
}

package infra

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implementa domain.Store sobre um Redis.
//
// SET com EX cobre o TTL por chave; SCAN com MATCH+COUNT cobre a paginação por
// prefixo. COUNT é uma dica para o Redis, então páginas podem vir menores (ou
// levemente maiores) que o limite pedido — aceitável para a contagem
// aproximada que o serviço oferece.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// ListKeys traduz o cursor opaco do contrato para o cursor numérico do SCAN.
// Cursor vazio inicia a varredura; o 0 devolvido pelo Redis ao terminar vira
// next vazio.
func (s *RedisStore) ListKeys(ctx context.Context, prefix, cursor string, limit int64) ([]string, string, error) {
	var c uint64
	if cursor != "" {
		parsed, err := strconv.ParseUint(cursor, 10, 64)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor %q: %w", cursor, err)
		}
		c = parsed
	}

	keys, next, err := s.rdb.Scan(ctx, c, prefix+"*", limit).Result()
	if err != nil {
		return nil, "", err
	}
	if next == 0 {
		return keys, "", nil
	}
	return keys, strconv.FormatUint(next, 10), nil
}

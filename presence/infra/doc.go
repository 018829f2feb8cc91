// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - RedisStore: armazenamento de produção usando github.com/redis/go-redis
//   - MemoryStore: armazenamento em memória para testes e desenvolvimento
package infra

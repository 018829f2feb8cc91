// Package presence fornece o adapter HTTP (net/http) do serviço de presença.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (heartbeat/leave/aggregate, sliding window) sem net/http
//   - infra: implementações concretas do Store (Redis, memória)
//   - presence (este pacote): rotas, política de Origin/CORS, JSON e tradução
//     de erros para status
//
// Fluxo de uma requisição:
//
//  1. CORS decide se o Origin é ecoado (loopback ou domínio de produção)
//  2. O handler valida o corpo e chama a camada application
//  3. Erro de validação vira 400, rate limit vira 429, falha de
//     armazenamento vira 500 com corpo genérico {"error": ...}
//
// Variáveis de ambiente do binário (cmd/presenced) controlam o comportamento,
// como REDIS_ADDR, PRESENCE_TTL, HEARTBEAT_MAX_REQUESTS e ALLOWED_ORIGIN.
package presence

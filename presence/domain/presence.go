package domain

// Prefixos das chaves persistidas no armazenamento chave-valor.
const (
	UserKeyPrefix      = "user:"
	RateLimitKeyPrefix = "ratelimit:"
)

// UserKey monta a chave do registro de presença de uma sessão.
func UserKey(sessionID string) string {
	return UserKeyPrefix + sessionID
}

// RateLimitKey monta a chave da janela de rate limit de uma operação para um
// identificador (ex: "ratelimit:heartbeat:abc123").
func RateLimitKey(op, id string) string {
	return RateLimitKeyPrefix + op + ":" + id
}

// Record é o registro de presença de uma sessão, serializado como JSON no
// armazenamento sob UserKey(sessionID) com TTL curto.
//
// A existência da chave é o único sinal de vida: não há flag "ativo" separada.
// Cada heartbeat substitui o valor inteiro (upsert, nunca merge).
type Record struct {
	Mood      Mood  `json:"mood,omitempty"`
	Timestamp int64 `json:"timestamp"`
}

// Aggregate é a projeção derivada do conjunto de registros vivos no momento da
// varredura. Nunca é persistida; é recomputada a cada leitura.
//
// Como o armazenamento não oferece snapshot, Count é uma estimativa
// ponto-no-tempo: registros podem nascer ou expirar no meio da varredura.
type Aggregate struct {
	Count int          `json:"count"`
	Moods map[Mood]int `json:"moods"`
}

package throttle

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// KeyFunc extrai a chave de cliente de uma requisição.
type KeyFunc func(r *http.Request) string

// ClientKey devolve a KeyFunc padrão: header dedicado, depois o primeiro IP do
// X-Forwarded-For (quando confiável), por fim o RemoteAddr.
func ClientKey(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

type Options struct {
	Buckets    *Buckets
	KeyFn      KeyFunc
	KeyHeader  string
	TrustXFF   bool
	RetryAfter time.Duration
}

// Limit rejeita com 429 as requisições cuja chave de cliente estourou o token
// bucket. Se Buckets for nil, o middleware é transparente.
func Limit(opts Options) func(next http.Handler) http.Handler {
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = ClientKey(opts.KeyHeader, opts.TrustXFF)
	}

	return func(next http.Handler) http.Handler {
		if opts.Buckets == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !opts.Buckets.Allow(opts.KeyFn(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(int(opts.RetryAfter.Seconds())))
				reject(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// reject responde no mesmo formato de erro da API ({"error": ...}) sem puxar
// encoding/json para um corpo fixo.
func reject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}

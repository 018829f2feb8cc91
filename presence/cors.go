package presence

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// OriginPolicy decide quais Origins são ecoados em
// Access-Control-Allow-Origin.
//
// Regra: loopback (desenvolvimento) sempre passa; fora isso, só Origins que
// contenham ProductionDomain. Origin não permitido não gera erro — o header
// simplesmente não é ecoado e o navegador bloqueia a resposta. Chamadas sem
// Origin (servidor-a-servidor) não precisam do header.
type OriginPolicy struct {
	ProductionDomain string
}

// Allows reporta se origin deve ser ecoado.
func (p OriginPolicy) Allows(origin string) bool {
	if origin == "" {
		return false
	}

	u, err := url.Parse(origin)
	if err == nil {
		host := u.Hostname()
		if host == "localhost" {
			return true
		}
		if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
			return true
		}
	}

	return p.ProductionDomain != "" && strings.Contains(origin, p.ProductionDomain)
}

// CORS aplica a política de Origin e os headers fixos de CORS em todas as
// respostas, e curto-circuita preflights OPTIONS com 204.
func CORS(policy OriginPolicy) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Max-Age", "86400")

			if origin := r.Header.Get("Origin"); policy.Allows(origin) {
				h.Set("Access-Control-Allow-Origin", origin)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

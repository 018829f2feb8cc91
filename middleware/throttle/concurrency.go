package throttle

import (
	"context"
	"net/http"
	"time"
)

// MaxInFlight limita o número de requisições atendidas simultaneamente com um
// semáforo de channel. Sem vaga dentro de acquireTimeout (0 = espera até o
// contexto da requisição encerrar), responde 503.
//
// max <= 0 desliga o guard.
func MaxInFlight(max int, acquireTimeout time.Duration) func(next http.Handler) http.Handler {
	if max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	sem := make(chan struct{}, max)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if acquireTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, acquireTimeout)
				defer cancel()
			}

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
				next.ServeHTTP(w, r)
			case <-ctx.Done():
				reject(w, http.StatusServiceUnavailable, "server busy")
			}
		})
	}
}

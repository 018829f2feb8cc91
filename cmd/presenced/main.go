package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"presence-service/middleware/reqlog"
	"presence-service/middleware/throttle"
	"presence-service/presence"
	"presence-service/presence/application"
	"presence-service/presence/domain"
	"presence-service/presence/infra"
)

type config struct {
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"presence"`

	// MemoryStore troca o Redis por um armazenamento em memória
	// (desenvolvimento local; a presença some a cada restart).
	MemoryStore   bool   `env:"MEMORY_STORE" envDefault:"false"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// AllowedOrigin é o domínio de produção aceito pela política de CORS,
	// por substring do Origin. Vazio libera apenas loopback.
	AllowedOrigin string `env:"ALLOWED_ORIGIN"`

	PresenceTTL     time.Duration `env:"PRESENCE_TTL" envDefault:"60s"`
	HeartbeatMax    int           `env:"HEARTBEAT_MAX_REQUESTS" envDefault:"10"`
	HeartbeatWindow time.Duration `env:"HEARTBEAT_WINDOW" envDefault:"60s"`
	ScanPageSize    int64         `env:"SCAN_PAGE_SIZE" envDefault:"1000"`
	FetchBatch      int           `env:"FETCH_BATCH" envDefault:"100"`

	ThrottleEnabled bool          `env:"THROTTLE_ENABLED" envDefault:"true"`
	ThrottleRPS     float64       `env:"THROTTLE_RPS" envDefault:"50"`
	ThrottleBurst   int           `env:"THROTTLE_BURST" envDefault:"100"`
	TrustXFF        bool          `env:"TRUST_XFF" envDefault:"false"`
	ConcurrencyMax  int           `env:"CONCURRENCY_MAX" envDefault:"100"`
	AcquireTimeout  time.Duration `env:"CONCURRENCY_TIMEOUT" envDefault:"0"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("config error")
	}

	log, err := setupLogger(cfg)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("logger error")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := setupStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("store error")
	}
	defer closeStore()

	svc := application.Service{
		Store: store,
		Heartbeats: &application.SlidingWindow{
			Store:  store,
			Op:     "heartbeat",
			Max:    cfg.HeartbeatMax,
			Window: cfg.HeartbeatWindow,
		},
		TTL:        cfg.PresenceTTL,
		PageSize:   cfg.ScanPageSize,
		FetchBatch: cfg.FetchBatch,
	}

	handler := &presence.Handler{
		Service: svc,
		Name:    cfg.ServiceName,
		Log:     log,
	}

	h := http.Handler(handler.Routes())
	h = presence.CORS(presence.OriginPolicy{ProductionDomain: cfg.AllowedOrigin})(h)
	h = throttle.MaxInFlight(cfg.ConcurrencyMax, cfg.AcquireTimeout)(h)
	if cfg.ThrottleEnabled {
		buckets := throttle.NewBuckets(cfg.ThrottleRPS, cfg.ThrottleBurst)
		buckets.StartJanitor(ctx)
		h = throttle.Limit(throttle.Options{
			Buckets:  buckets,
			TrustXFF: cfg.TrustXFF,
		})(h)
	}
	h = reqlog.Middleware(log)(h)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", cfg.ListenAddr).
		Bool("memory_store", cfg.MemoryStore).
		Dur("presence_ttl", cfg.PresenceTTL).
		Int("heartbeat_max", cfg.HeartbeatMax).
		Dur("heartbeat_window", cfg.HeartbeatWindow).
		Str("allowed_origin", cfg.AllowedOrigin).
		Msg("presence service listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
}

func setupLogger(cfg config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}

	var log zerolog.Logger
	if cfg.LogPretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger(), nil
}

func setupStore(cfg config, log zerolog.Logger) (domain.Store, func(), error) {
	if cfg.MemoryStore {
		log.Warn().Msg("using in-memory store; presence is lost on restart")
		return infra.NewMemoryStore(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}

	log.Info().Str("addr", cfg.RedisAddr).Msg("redis ready")
	return infra.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
}

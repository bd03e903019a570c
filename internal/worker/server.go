package worker

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"atlas/internal/config"
	"atlas/internal/service"
)

// RedisOpt builds the asynq connection options from the Redis config.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Server processes queued booking notifications.
type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewServer creates a worker that delivers notifications through notifier.
func NewServer(redisOpt asynq.RedisClientOpt, notifier service.Notifier, logger *zap.Logger) *Server {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 1,
		},
		Logger: logger.Sugar().Named("asynq"),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingNotify, HandleBookingNotify(notifier, logger))

	return &Server{srv: srv, mux: mux}
}

// Start begins processing in background goroutines.
func (s *Server) Start() error {
	return s.srv.Start(s.mux)
}

// Shutdown waits for in-flight tasks and stops the worker.
func (s *Server) Shutdown() {
	s.srv.Shutdown()
}

package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/vodkeeper/vodkeeper/internal/domain"
	"github.com/vodkeeper/vodkeeper/internal/ports"
)

const defaultRequestTimeout = 30 * time.Second

// Server exposes a read-only status API in watch mode: per-channel state
// plus the recent archive history.
type Server struct {
	logger   zerolog.Logger
	states   ports.StateStore
	history  ports.ArchiveHistory
	channels []domain.Channel
}

func NewServer(logger zerolog.Logger, states ports.StateStore, history ports.ArchiveHistory, channels []domain.Channel) *Server {
	return &Server{logger: logger, states: states, history: history, channels: channels}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultRequestTimeout))
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.AccessHandler(accessLogFn))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)
		r.Get("/channels", s.handleChannels)
		r.Get("/archives", s.handleArchives)
	})

	return r
}

func accessLogFn(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("http")
}

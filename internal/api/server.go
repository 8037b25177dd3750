package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/pisfinance/pis-vault/internal/config"
	"github.com/pisfinance/pis-vault/internal/services"
)

type Server struct {
	httpServer *http.Server
	handler    *Handler
}

func New(cfg *config.ServerConfig, svc *services.Service) *Server {
	h := &Handler{svc: svc}

	return &Server{
		handler: h,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      h.Router(),
			WriteTimeout: cfg.WriteTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Msgf("Starting server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router builds the route table of the vault API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(traceMiddleware, metricsMiddleware)

	r.Get("/healthcheck", wrap(h.healthCheck))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/vault/state", wrap(h.getState))
		r.Get("/vault/pending-rewards", wrap(h.getPendingRewards))

		r.Get("/pools", wrap(h.listPools))
		r.Post("/pools", wrap(h.addPool))
		r.Get("/pools/length", wrap(h.getPoolLength))
		r.Post("/pools/mass-update", wrap(h.massUpdatePools))

		r.Route("/pools/{pid}", func(r chi.Router) {
			r.Get("/", wrap(h.getPool))
			r.Put("/weight", wrap(h.setPoolWeight))
			r.Post("/update", wrap(h.updatePool))
			r.Post("/deposit", wrap(h.deposit))
			r.Post("/withdraw", wrap(h.withdraw))
			r.Post("/quit", wrap(h.quitPool))
			r.Post("/exit-early", wrap(h.exitEarly))

			r.Get("/users/{user}", wrap(h.getUserInfo))
			r.Get("/users/{user}/pending", wrap(h.getPendingPIS))
			r.Get("/users/{user}/releasable", wrap(h.getReleasable))
			r.Get("/users/{user}/weeks", wrap(h.getWeeksSinceRelease))
		})

		r.Get("/users/{user}/positions", wrap(h.listPositions))

		r.Get("/fee", wrap(h.getFeeConfig))
		r.Get("/fee/compute", wrap(h.computeFee))
		r.Put("/fee/multiplier", wrap(h.setFeeMultiplier))
		r.Put("/fee/paused", wrap(h.setFeePaused))
		r.Put("/fee/exempt/{address}", wrap(h.editExemptList))

		r.Route("/tokens/{token}", func(r chi.Router) {
			r.Get("/", wrap(h.getToken))
			r.Get("/balances/{owner}", wrap(h.getBalance))
			r.Get("/allowances/{owner}/{spender}", wrap(h.getAllowance))
			r.Post("/transfer", wrap(h.transfer))
			r.Post("/approve", wrap(h.approve))
		})
	})

	return r
}

package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Clark-Hu/figure-collector/internal/auth"
	"github.com/Clark-Hu/figure-collector/internal/config"
	"github.com/Clark-Hu/figure-collector/internal/currency"
	"github.com/Clark-Hu/figure-collector/internal/repository"
	"github.com/Clark-Hu/figure-collector/internal/store"
)

// RateProvider supplies the daily rate snapshot. fxfeed.Provider satisfies it.
type RateProvider interface {
	Daily(ctx context.Context) currency.DailyRates
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	store   *store.Store
	repo    *repository.Repository
	rates   RateProvider
	hasher  auth.Hasher
	logger  *slog.Logger
	router  chi.Router
	httpSrv *http.Server
	now     func() time.Time
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, rates RateProvider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	s := &Server{
		cfg:    cfg,
		store:  st,
		repo:   repo,
		rates:  rates,
		hasher: auth.Hasher{Cost: cfg.BcryptCost},
		logger: logger,
		router: r,
		now:    time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/catalog", s.handleCatalog)
		r.Get("/fx", s.handleFX)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)

			r.Get("/me", s.handleGetMe)
			r.Patch("/me", s.handleUpdateMe)
			r.Patch("/account/password", s.handleChangePassword)

			r.Route("/owned", func(r chi.Router) {
				r.Get("/", s.handleListOwned)
				r.Post("/", s.handleCreateOwned)
				r.Get("/summary", s.handleOwnedSummary)
				r.Get("/count", s.handleOwnedCount)
				r.Patch("/{id}", s.handleUpdateOwned)
				r.Delete("/{id}", s.handleDeleteOwned)
			})
			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", s.handleListWishlist)
				r.Post("/", s.handleUpsertWish)
				r.Delete("/{id}", s.handleDeleteWish)
			})
			r.Get("/stats/series", s.handleSeriesStats)

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Route("/series", func(r chi.Router) {
					r.Get("/", s.handleListSeries)
					r.Post("/", s.handleCreateSeries)
					r.Patch("/{id}", s.handleRenameSeries)
					r.Delete("/{id}", s.handleDeleteSeries)
				})
				r.Route("/figures", func(r chi.Router) {
					r.Get("/", s.handleListFigures)
					r.Post("/", s.handleCreateFigure)
					r.Patch("/", s.handleReassignFigure)
					r.Patch("/{id}", s.handleUpdateFigure)
					r.Delete("/{id}", s.handleDeleteFigure)
				})
				r.Route("/users", func(r chi.Router) {
					r.Get("/", s.handleListUsers)
					r.Patch("/{id}", s.handleUpdateUser)
				})
				r.Get("/collection", s.handleCollectionReport)
			})
		})
	})
}

// Start boots the HTTP server asynchronously.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

type healthResponse struct {
	Status string          `json:"status"`
	Pool   store.PoolStats `json:"pool"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		s.logger.Warn("health check failed", "err", err)
		s.respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", http.StatusText(http.StatusServiceUnavailable))
		return
	}
	s.respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Pool: s.store.Stats()})
}

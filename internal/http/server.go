package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/senyehor/yamdb/internal/auth"
	"github.com/senyehor/yamdb/internal/config"
	"github.com/senyehor/yamdb/internal/repository"
	"github.com/senyehor/yamdb/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	store   *store.Store
	repo    *repository.Repository
	authSvc *auth.Service
	tokens  *auth.TokenIssuer
	logger  *slog.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, authSvc *auth.Service, tokens *auth.TokenIssuer, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		store:   st,
		repo:    repo,
		authSvc: authSvc,
		tokens:  tokens,
		logger:  logger,
		router:  r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/auth/email", s.handleRequestEmailCode)
		r.Post("/auth/token", s.handleVerifyCode)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleCreateCategory)
			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", s.handleMethodNotAllowed)
				r.Delete("/", s.handleDeleteCategory)
			})
		})

		r.Route("/genres", func(r chi.Router) {
			r.Get("/", s.handleListGenres)
			r.Post("/", s.handleCreateGenre)
			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", s.handleMethodNotAllowed)
				r.Delete("/", s.handleDeleteGenre)
			})
		})

		r.Route("/titles", func(r chi.Router) {
			r.Get("/", s.handleListTitles)
			r.Post("/", s.handleCreateTitle)
			r.Route("/{titleID}", func(r chi.Router) {
				r.Get("/", s.handleGetTitle)
				r.Patch("/", s.handleUpdateTitle)
				r.Delete("/", s.handleDeleteTitle)

				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", s.handleListReviews)
					r.Post("/", s.handleCreateReview)
					r.Route("/{reviewID}", func(r chi.Router) {
						r.Get("/", s.handleGetReview)
						r.Patch("/", s.handleUpdateReview)
						r.Delete("/", s.handleDeleteReview)

						r.Route("/comments", func(r chi.Router) {
							r.Get("/", s.handleListComments)
							r.Post("/", s.handleCreateComment)
							r.Route("/{commentID}", func(r chi.Router) {
								r.Get("/", s.handleGetComment)
								r.Patch("/", s.handleUpdateComment)
								r.Delete("/", s.handleDeleteComment)
							})
						})
					})
				})
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Get("/me", s.handleGetOwnProfile)
			r.Patch("/me", s.handleUpdateOwnProfile)
			r.Route("/{username}", func(r chi.Router) {
				r.Get("/", s.handleGetUser)
				r.Patch("/", s.handleUpdateUser)
				r.Delete("/", s.handleDeleteUser)
			})
		})
	})
}

// Start boots the HTTP server asynchronously.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
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

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed on this resource")
}

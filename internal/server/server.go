package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/quill-blog/server/config"
	"github.com/quill-blog/server/internal/db"
	"github.com/quill-blog/server/internal/handlers"
	"github.com/quill-blog/server/internal/mq"
	"github.com/quill-blog/server/internal/services"
	"github.com/quill-blog/server/internal/session"
	"github.com/quill-blog/server/internal/storage"
	"github.com/quill-blog/server/internal/store"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server wraps the HTTP server and the resources it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
	logger     *zap.Logger
}

// New opens the database, object store and broker named by cfg and wires
// the blog routes on top of them.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (srv *Server, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("SECRET_KEY is required")
	}

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = dbConn.Close()
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, dbConn, cfg.Database, db.Up); err != nil {
			return nil, err
		}
	}

	uploads, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	broker, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil && broker != nil {
			_ = broker.Close()
		}
	}()

	var publisher services.Publisher
	if broker != nil {
		publisher = broker
	}
	events := services.NewEventPublisher(publisher, cfg.MQ.Channel, logger)

	userRepo := store.NewUserRepository(dbConn)
	userRoleRepo := store.NewUserRoleRepository(dbConn)
	images := services.NewImageService(uploads, logger)

	h, err := handlers.New(handlers.Dependencies{
		Accounts: services.NewAccountService(userRepo, userRoleRepo, events, logger),
		Posts:    services.NewPostService(store.NewPostRepository(dbConn), images, events, logger),
		Comments: services.NewCommentService(store.NewCommentRepository(dbConn), events),
		Roles:    services.NewRoleService(store.NewRoleRepository(dbConn), userRoleRepo, userRepo, events, logger),
		Images:   images,
		Uploads:  uploads,
		Sessions: session.NewManager(cfg.SecretKey, cfg.SessionTTL, cfg.CookieSecure),
		DB:       dbConn,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		handlers.RequestLogger(logger),
		middleware.Recoverer,
		middleware.Timeout(requestTimeout),
	)
	h.Routes(router)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
		logger:     logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		_ = s.closeResources()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests, waits for in-flight ones and closes
// the broker and database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	return errors.Join(err, s.closeResources())
}

func (s *Server) closeResources() error {
	var errs []error
	if s.broker != nil {
		errs = append(errs, s.broker.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yigit/examportal/internal/bootstrap"
	"github.com/yigit/examportal/internal/config"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 120 * time.Second

	// drainTimeout bounds how long in-flight submissions get to finish
	drainTimeout = 10 * time.Second
)

// Server is the portal API process: router, Postgres pool and the throttle's Redis client.
type Server struct {
	config *config.Config
	router *gin.Engine
	dbPool *pgxpool.Pool
	redis  *redis.Client
	logger zerolog.Logger
	http   *http.Server
}

// NewServer loads config, connects Postgres, seeds defaults and builds the router.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("wire portal services: %w", err)
	}

	bootstrap.SeedDefaults(cfg, deps)

	return &Server{
		config: cfg,
		router: bootstrap.SetupRouter(cfg, deps, lgr),
		dbPool: dbPool,
		redis:  deps.Redis,
		logger: lgr,
	}, nil
}

// Run serves the portal until ctx is cancelled or the listener fails, then drains.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	listenErr := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", s.http.Addr).
			Str("mode", s.config.Server.Mode).
			Msg("Exam portal API listening")
		listenErr <- s.http.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if !errors.Is(err, http.ErrServerClosed) {
			s.closeStores()
			return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Stop requested, draining portal API")
	}

	return s.Shutdown(context.Background())
}

// Shutdown stops accepting requests, waits up to drainTimeout, then closes Redis and Postgres.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()

	var errs []error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Portal API did not drain cleanly")
			errs = append(errs, fmt.Errorf("drain http: %w", err))
		}
	}
	if err := s.closeStores(); err != nil {
		errs = append(errs, err)
	}

	s.logger.Info().Bool("clean", len(errs) == 0).Msg("Exam portal API stopped")
	return errors.Join(errs...)
}

func (s *Server) closeStores() error {
	var err error
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			s.logger.Error().Err(cerr).Msg("Closing login throttle store failed")
			err = fmt.Errorf("close redis: %w", cerr)
		}
		s.redis = nil
	}
	if s.dbPool != nil {
		s.dbPool.Close()
		s.dbPool = nil
	}
	return err
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pctracer-svc/src/clients"
	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/dependency"
	"pctracer-svc/src/internal/metrics"
	"pctracer-svc/src/internal/middleware"
	"pctracer-svc/src/internal/models"
	"pctracer-svc/src/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg        *config.Configuration
	deps       *dependency.Manager
	httpServer *http.Server
}

// New connects to the backing services and wires the router. Failing to reach
// MongoDB or Redis is fatal; RabbitMQ is optional.
func New(cfg *config.Configuration) *Server {
	mongodb, err := clients.NewMongoDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}

	redisClient, err := clients.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}

	rabbitMQ := connectRabbitMQ(&cfg.Queue.RabbitMQ)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(m))
	web.Install(router)

	deps := dependency.NewDependencyManager(router, mongodb, redisClient, rabbitMQ, m, cfg)
	SetupRoutes(deps)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.Timeout)*time.Second)
	defer cancel()

	if err := mongodb.EnsureIndexes(ctx, &cfg.Database.Collections); err != nil {
		log.WithError(err).Fatal("Failed to ensure indexes")
	}

	if err := seedAdmin(ctx, deps); err != nil {
		log.WithError(err).Fatal("Failed to seed default admin")
	}

	if !cfg.Security.ProtectAPI {
		log.Warn("API routes are not protected by login; set security.protect-api to require a session")
	}

	return &Server{
		cfg:  cfg,
		deps: deps,
		httpServer: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		},
	}
}

func connectRabbitMQ(cfg *config.RabbitMQConfig) *clients.RabbitMQ {
	if cfg.Url == "" {
		log.Info("RabbitMQ URL not set, audit events will only be logged")
		return nil
	}

	rabbitMQ, err := clients.NewRabbitMQ(cfg)
	if err != nil {
		log.WithError(err).Warn("RabbitMQ unavailable, audit events will only be logged")
		return nil
	}

	if err := rabbitMQ.SetupExchange(); err != nil {
		log.WithError(err).Warn("Failed to declare audit exchange, audit events will only be logged")
		_ = rabbitMQ.Close()
		return nil
	}

	return rabbitMQ
}

func seedAdmin(ctx context.Context, deps *dependency.Manager) error {
	created, err := deps.AdminService.EnsureDefaultAdmin(ctx, &deps.Config.Seed)
	if err != nil || !created {
		return err
	}

	deps.Publisher.Publish(models.AuditMessage{
		Action:   models.ActionDefaultAdminSeed,
		Metadata: map[string]string{"email": deps.Config.Seed.AdminEmail},
	})
	return nil
}

// Start serves HTTP until SIGINT or SIGTERM, then shuts down gracefully and
// closes the backing clients.
func (s *Server) Start() error {
	errCh := make(chan error, 1)

	go func() {
		log.Infof("Server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		s.closeClients()
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	s.closeClients()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

func (s *Server) closeClients() {
	if s.deps.RabbitMQ != nil {
		_ = s.deps.RabbitMQ.Close()
	}
	_ = s.deps.Redis.Close()
	_ = s.deps.Mongodb.Close()
}

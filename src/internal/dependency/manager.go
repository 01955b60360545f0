package dependency

import (
	"time"

	"pctracer-svc/src/clients"
	"pctracer-svc/src/internal/activity"
	"pctracer-svc/src/internal/admin"
	"pctracer-svc/src/internal/audit"
	"pctracer-svc/src/internal/auth"
	"pctracer-svc/src/internal/cache"
	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/metrics"
	"pctracer-svc/src/internal/middleware"
	"pctracer-svc/src/internal/session"
	"pctracer-svc/src/internal/stats"
	"pctracer-svc/src/internal/user"
	"pctracer-svc/src/internal/web"

	"github.com/gin-gonic/gin"
)

type Manager struct {
	Router          *gin.Engine
	Config          *config.Configuration
	Mongodb         *clients.MongoDB
	Redis           *clients.RedisClient
	RabbitMQ        *clients.RabbitMQ
	Metrics         *metrics.Metrics
	Publisher       audit.Publisher
	CacheService    cache.Service
	SessionService  session.Service
	AuthMiddleware  *middleware.AuthMiddleware
	AdminService    admin.Service
	UserService     user.Service
	ActivityService activity.Service
	StatsService    stats.Service
	AdminHandler    admin.Handler
	UserHandler     user.Handler
	ActivityHandler activity.Handler
	StatsHandler    stats.Handler
	AuthHandler     auth.Handler
	WebHandler      web.Handler
}

// NewDependencyManager wires repositories, services and handlers. rabbitMQ may be
// nil, in which case audit events are only logged.
func NewDependencyManager(router *gin.Engine,
	mongodb *clients.MongoDB,
	redisClient *clients.RedisClient,
	rabbitMQ *clients.RabbitMQ,
	m *metrics.Metrics,
	cfg *config.Configuration) *Manager {
	collections := &cfg.Database.Collections

	var transport audit.Transport
	if rabbitMQ != nil {
		transport = rabbitMQ
	}
	publisher := audit.NewPublisher(transport)

	cacheService := cache.NewCacheService(redisClient.Client, cfg)
	sessionRepo := session.NewSessionRepository(mongodb, collections.Sessions)
	sessionService := session.NewSessionService(sessionRepo, cacheService, cfg.Security.JwtKey, cfg.SessionTTL())
	authMiddleware := middleware.NewAuthMiddleware(sessionService, cfg.Security.CookieName, time.Duration(cfg.App.Timeout)*time.Second)

	adminRepo := admin.NewAdminRepository(mongodb, collections.Admins)
	userRepo := user.NewUserRepository(mongodb, collections.Users)
	activityRepo := activity.NewActivityRepository(mongodb, collections.Activities, m)

	adminService := admin.NewAdminService(adminRepo, &cfg.Security)
	userService := user.NewUserService(userRepo, activityRepo, cfg.Location(), m)
	activityService := activity.NewActivityService(activityRepo)
	statsService := stats.NewStatsService(adminRepo, userRepo, activityRepo, cacheService)

	return &Manager{
		Router:          router,
		Config:          cfg,
		Mongodb:         mongodb,
		Redis:           redisClient,
		RabbitMQ:        rabbitMQ,
		Metrics:         m,
		Publisher:       publisher,
		CacheService:    cacheService,
		SessionService:  sessionService,
		AuthMiddleware:  authMiddleware,
		AdminService:    adminService,
		UserService:     userService,
		ActivityService: activityService,
		StatsService:    statsService,
		AdminHandler:    admin.NewHandler(cfg, adminService, publisher),
		UserHandler:     user.NewHandler(cfg, userService, publisher),
		ActivityHandler: activity.NewHandler(cfg, activityService),
		StatsHandler:    stats.NewHandler(cfg, statsService),
		AuthHandler:     auth.NewHandler(cfg, adminService, sessionService, publisher, m),
		WebHandler:      web.NewHandler(cfg, userService, activityService, adminService, statsService),
	}
}

package server

import (
	"net/http"
	"time"

	"pctracer-svc/src/clients"
	"pctracer-svc/src/internal/dependency"
	"pctracer-svc/src/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func SetupRoutes(deps *dependency.Manager) {
	router := deps.Router
	router.Use(enableCORS)

	setupHealthEndpoint(deps)
	setupPageRoutes(router, deps)
	setupAPIRoutes(router, deps)
}

func setupHealthEndpoint(deps *dependency.Manager) {
	router := deps.Router
	mongodb := deps.Mongodb
	redisClient := deps.Redis
	cfg := deps.Config

	router.GET("/health", func(c *gin.Context) {
		log.Debug("Health check endpoint requested")

		mongoStatus := "ok"
		if err := mongodb.Client.Ping(c.Request.Context(), nil); err != nil {
			mongoStatus = "error: " + err.Error()
		}

		redisStatus := "ok"
		if err := redisClient.Client.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "error: " + err.Error()
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"mongodb":   mongoStatus,
			"redis":     redisStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.GET("/health/detailed", func(c *gin.Context) {
		log.Debug("Detailed health check endpoint requested")

		c.JSON(http.StatusOK, gin.H{
			"status":  "operational",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
			"components": gin.H{
				"database": gin.H{
					"mongodb": getStatus(isMongoConnected(mongodb, c)),
					"redis":   getStatus(isRedisConnected(redisClient.Client, c)),
				},
				"messaging": gin.H{
					"rabbitmq": rabbitStatus(deps.RabbitMQ),
				},
				"security": gin.H{
					"api_protected": cfg.Security.ProtectAPI,
				},
			},
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func setupPageRoutes(router *gin.Engine, deps *dependency.Manager) {
	authHandler := deps.AuthHandler
	pages := deps.WebHandler
	requireLogin := deps.AuthMiddleware.RequireLogin()

	router.GET("/login", setRouteName("loginPage"), authHandler.LoginPage)
	router.POST("/user/login", setRouteName("login"), authHandler.Login)
	router.GET("/logout", setRouteName("logout"), authHandler.Logout)

	router.GET("/", setRouteName("indexPage"), requireLogin, pages.Index)
	router.GET("/activities", setRouteName("activitiesPage"), requireLogin, pages.Activities)
	router.GET("/ayarlar", setRouteName("settingsPage"), requireLogin, pages.Settings)
	router.GET("/iletisim", setRouteName("contactPage"), requireLogin, pages.Contact)
}

func setupAPIRoutes(router *gin.Engine, deps *dependency.Manager) {
	guard := apiGuard(deps.Config.Security.ProtectAPI, deps.AuthMiddleware)

	activities := deps.ActivityHandler
	users := deps.UserHandler
	admins := deps.AdminHandler

	// route name first, then the optional guard
	route := func(name string, handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{setRouteName(name)}
		chain = append(chain, guard...)
		return append(chain, handler)
	}

	router.GET("/times", route("getTimes", activities.GetTimes)...)

	api := router.Group("/api")
	{
		api.GET("/users", route("getUsers", users.GetUsers)...)
		api.GET("/existing-users", route("getExistingUsers", users.GetExistingUsers)...)
		api.GET("/active-users", route("getActiveUsers", users.GetActiveUsers)...)
		api.DELETE("/users/:id", route("deleteUser", users.DeleteUser)...)

		api.GET("/admins", route("getAdmins", admins.GetAdmins)...)
		api.POST("/admins", route("createAdmin", admins.CreateAdmin)...)
		api.DELETE("/admins/:id", route("deleteAdmin", admins.DeleteAdmin)...)
		api.PATCH("/admins/:id/password", route("updateAdminPassword", admins.UpdatePassword)...)

		api.GET("/stats", route("getStats", deps.StatsHandler.GetStats)...)
	}

	chart := api.Group("/chart")
	{
		chart.GET("/pie-app-time", route("pieAppTime", activities.PieAppTime)...)
		chart.GET("/bar-app-usage", route("barAppUsage", activities.BarAppUsage)...)
		chart.GET("/timeline-activity", route("timelineActivity", activities.TimelineActivity)...)
		chart.GET("/area-app-flow", route("areaAppFlow", activities.AreaAppFlow)...)
		chart.GET("/heatmap-hourly-activity", route("heatmapHourlyActivity", activities.HeatmapHourlyActivity)...)
		chart.GET("/donut-idle-ratio", route("donutIdleRatio", activities.DonutIdleRatio)...)
		chart.GET("/calendar-heatmap", route("calendarHeatmap", activities.CalendarHeatmap)...)
		chart.GET("/sankey-app-flow", route("sankeyAppFlow", activities.SankeyAppFlow)...)
		chart.GET("/stackedbar-user-app", route("stackedBarUserApp", activities.StackedBarUserApp)...)
		chart.GET("/line-daily-session", route("lineDailySession", activities.LineDailySession)...)
	}
}

// apiGuard returns the middleware placed in front of API routes: none unless
// security.protect-api is set.
func apiGuard(protect bool, auth *middleware.AuthMiddleware) []gin.HandlerFunc {
	if !protect {
		return nil
	}
	return []gin.HandlerFunc{auth.RequireSession()}
}

func setRouteName(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("route_name", name)
		c.Next()
	}
}

func isMongoConnected(mongodb *clients.MongoDB, c *gin.Context) bool {
	if err := mongodb.Client.Ping(c.Request.Context(), nil); err != nil {
		return false
	}
	return true
}

func isRedisConnected(redisClient *redis.Client, c *gin.Context) bool {
	if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
		return false
	}
	return true
}

func rabbitStatus(r *clients.RabbitMQ) string {
	if r == nil {
		return "disabled"
	}
	return getStatus(!r.Conn.IsClosed())
}

func enableCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	c.Next()
}

func getStatus(b bool) string {
	if b {
		return "connected"
	}
	return "disconnected"
}

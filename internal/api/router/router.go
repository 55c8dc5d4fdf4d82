package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kaiki2/scheduler-app/config"
	"github.com/Kaiki2/scheduler-app/internal/api/handler"
	"github.com/Kaiki2/scheduler-app/internal/api/middleware"
	"github.com/Kaiki2/scheduler-app/pkg/jwt"
	"github.com/Kaiki2/scheduler-app/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 存活检查 ──
	r.GET("/", func(c *gin.Context) {
		c.String(200, "Scheduler Backend Running")
	})

	// ── API ──
	api := r.Group("/api")
	{
		// 认证模块（无需认证，登录/注册限流）
		auth := api.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Register)
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 日程事件模块
			events := authorized.Group("/events")
			{
				events.POST("", h.Event.CreateEvent)
				events.GET("", h.Event.ListEvents)
				events.PUT("/:id", h.Event.UpdateEvent)
				events.DELETE("/:id", h.Event.DeleteEvent)
				events.PUT("/:id/override", h.Event.OverrideInstance)
				events.DELETE("/:id/override", h.Event.DeleteInstance)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/events.ics", h.Export.ExportICS)
				export.GET("/events.xlsx", h.Export.ExportExcel)
			}
		}
	}

	return r
}

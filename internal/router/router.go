package router

import (
	"fmt"
	"strings"

	"github.com/haythemsaa/boxnew-sub008/internal/cache"
	"github.com/haythemsaa/boxnew-sub008/internal/config"
	adminhandlers "github.com/haythemsaa/boxnew-sub008/internal/http/handlers/admin"
	publichandlers "github.com/haythemsaa/boxnew-sub008/internal/http/handlers/public"
	"github.com/haythemsaa/boxnew-sub008/internal/logger"
	"github.com/haythemsaa/boxnew-sub008/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bx"
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "登录尝试过于频繁，请稍后重试",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/sites", publicHandler.GetSites)
			public.GET("/boxes/:id/quote", publicHandler.GetBoxQuote)
		}

		// 管理员认证接口
		apiV1.POST("/admin/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

		// 管理端接口（需鉴权）
		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
		{
			admin.GET("/me", adminHandler.GetAdminProfile)
			admin.PUT("/me/password", adminHandler.UpdateAdminPassword)

			admin.GET("/sites", adminHandler.GetSites)
			admin.GET("/sites/:id/occupancy", adminHandler.GetSiteOccupancy)
			admin.POST("/sites/:id/reprice", adminHandler.TriggerSiteReprice)
			admin.GET("/boxes", adminHandler.GetBoxes)

			admin.GET("/pricing-rules", adminHandler.GetPricingRules)
			admin.GET("/pricing-rules/:id", adminHandler.GetPricingRule)
			admin.POST("/pricing-rules", adminHandler.CreatePricingRule)
			admin.PUT("/pricing-rules/:id", adminHandler.UpdatePricingRule)
			admin.DELETE("/pricing-rules/:id", adminHandler.DeletePricingRule)

			admin.GET("/pricing-strategies", adminHandler.GetPricingStrategies)
			admin.GET("/pricing-strategies/:id", adminHandler.GetPricingStrategy)
			admin.POST("/pricing-strategies", adminHandler.CreatePricingStrategy)
			admin.PUT("/pricing-strategies/:id", adminHandler.UpdatePricingStrategy)
			admin.DELETE("/pricing-strategies/:id", adminHandler.DeletePricingStrategy)

			admin.POST("/pricing/preview", adminHandler.PreviewQuote)
			admin.GET("/pricing/resolutions", adminHandler.GetResolutionLogs)
			admin.GET("/pricing/resolutions/:id", adminHandler.GetResolutionLog)
			admin.GET("/pricing/adjustments", adminHandler.GetPriceAdjustments)
		}
	}

	return r
}

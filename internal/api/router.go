package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"nutrition-estimator/internal/api/handlers/health"
	nutritionhandler "nutrition-estimator/internal/api/handlers/nutrition"
	"nutrition-estimator/internal/api/middleware"
	"nutrition-estimator/internal/core/fdc"
	"nutrition-estimator/internal/core/nutrition"
	"nutrition-estimator/internal/core/nutrition/cache"
	"nutrition-estimator/internal/infrastructure/config"
	"nutrition-estimator/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config) (*gin.Engine, error) {
	// 設置運行模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由
	r := gin.New()

	// 基礎中間件
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(requestid.New())

	// CORS 設定
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制（1MB，純文字食材列表用不到更多）
	r.Use(middleware.BodySizeLimit(1 << 20))

	// 對內限流
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 請求去重
	r.Use(middleware.Deduplication(cfg))

	// 注入設定供處理器使用，並替請求掛上截止時間
	// 核心服務本身不設超時，截止時間是呼叫端的責任
	r.Use(func(c *gin.Context) {
		c.Set("config", cfg)

		if cfg.Server.WriteTimeout > 0 {
			ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Server.WriteTimeout)
			defer cancel()
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	})

	// 組裝核心服務
	service, err := buildNutritionService(cfg)
	if err != nil {
		return nil, err
	}
	nutritionHandler := nutritionhandler.NewHandler(service)

	// 健康檢查
	r.GET("/health", health.HealthCheck)
	r.GET("/ready", health.ReadinessCheck)
	r.GET("/live", health.LivenessCheck)

	// API v1
	v1 := r.Group("/api/v1")
	{
		n := v1.Group("/nutrition")
		{
			n.POST("/meal", nutritionHandler.EstimateMeal)
			n.POST("/meals", nutritionHandler.EstimateMeals)
			n.POST("/parse", nutritionHandler.ParseIngredients)
		}
	}

	// 404 處理
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    common.ErrCodeNotFound,
			Message: "route not found",
		})
	})

	return r, nil
}

// buildNutritionService 組裝節流器、資料庫客戶端、緩存與聚合服務
func buildNutritionService(cfg *config.Config) (*nutrition.Service, error) {
	throttle := fdc.NewThrottle(cfg.FDC.RequestInterval)
	client := fdc.NewClient(&cfg.FDC, throttle)

	var matchCache nutrition.Cache
	if cfg.Cache.Enabled {
		switch cfg.Cache.Backend {
		case "redis":
			redisCache, err := cache.NewRedisService(&cfg.Cache)
			if err != nil {
				return nil, fmt.Errorf("failed to init redis cache: %w", err)
			}
			matchCache = redisCache
		default:
			if manager := cache.NewManager(&cfg.Cache); manager != nil {
				matchCache = manager
			}
		}
		common.LogInfo("匹配結果緩存已啟用",
			zap.String("backend", cfg.Cache.Backend),
		)
	}

	matcher := nutrition.NewFDCMatcher(client, matchCache)
	return nutrition.NewService(matcher, &cfg.Nutrition), nil
}

package api

import (
	"time"

	"meal-compiler/internal/api/handlers/health"
	planHandler "meal-compiler/internal/api/handlers/plan"
	"meal-compiler/internal/api/middleware"
	"meal-compiler/internal/core/nutrition/compile"
	"meal-compiler/internal/core/nutrition/source"
	"meal-compiler/internal/infrastructure/config"
	"meal-compiler/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 請求體大小限制 (5MB)：草稿菜單是純 JSON，不該更大
	maxBodySize = 5 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, pipeline *compile.Pipeline, sources []source.FoodSource) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	planH := planHandler.NewHandler(pipeline)
	healthH := health.NewHandler(sources)

	// 路由
	v1 := router.Group("/api/v1")
	{
		v1.POST("/plans/compile", planH.Compile)
	}
	router.GET("/health", healthH.Check)

	common.LogInfo("Router setup complete",
		zap.Int("food_sources", len(sources)),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)

	return router, nil
}

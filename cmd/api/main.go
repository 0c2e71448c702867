package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-compiler/internal/api"
	"meal-compiler/internal/core/nutrition/compile"
	"meal-compiler/internal/core/nutrition/diet"
	"meal-compiler/internal/core/nutrition/normalize"
	"meal-compiler/internal/core/nutrition/resolver"
	"meal-compiler/internal/core/nutrition/source"
	"meal-compiler/internal/core/nutrition/source/local"
	"meal-compiler/internal/core/nutrition/source/off"
	"meal-compiler/internal/core/nutrition/source/usda"
	"meal-compiler/internal/infrastructure/config"
	"meal-compiler/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 組裝資料來源鏈（固定優先序：本地 → USDA → OFF）
	sources, cleanup, err := buildSources(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize food sources", zap.Error(err))
	}
	defer cleanup()
	if len(sources) == 0 {
		common.LogFatal("No food sources enabled")
	}

	// 別名快取：redis 可用就用 redis，否則退回內建表
	aliasCache := buildAliasCache(cfg)

	// 組裝解析器與編譯流程
	res := resolver.New(&cfg.Engine, sources, diet.NewKeywordChecker(), normalize.New(aliasCache))
	pipeline := compile.NewPipeline(cfg, res, func(message string) {
		common.LogInfo("編譯進度", zap.String("progress", message))
	})

	// 設置路由
	router, err := api.SetupRouter(cfg, pipeline, sources)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("food_sources", len(sources)),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}

// buildSources 依設定組裝來源鏈，遠端來源包上 TTL 紀錄快取
func buildSources(cfg *config.Config) ([]source.FoodSource, func(), error) {
	var sources []source.FoodSource
	var closers []func()

	if cfg.Sources.Local.Enabled {
		localSrc, err := local.New(cfg.Sources.Local.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open local food database: %w", err)
		}
		closers = append(closers, func() { _ = localSrc.Close() })
		sources = append(sources, localSrc)
	}
	if cfg.Sources.USDA.Enabled {
		sources = append(sources, source.NewCachedSource(usda.NewClient(&cfg.Sources.USDA), &cfg.RecordCache))
	}
	if cfg.Sources.OFF.Enabled {
		sources = append(sources, source.NewCachedSource(off.NewClient(&cfg.Sources.OFF), &cfg.RecordCache))
	}

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return sources, cleanup, nil
}

// buildAliasCache redis 連不上不是致命錯誤，退回內建別名表
func buildAliasCache(cfg *config.Config) normalize.AliasCache {
	static := normalize.NewStaticAliasCache()
	if !cfg.AliasCache.Enabled {
		return static
	}
	redisCache, err := normalize.NewRedisAliasCache(&cfg.AliasCache, static)
	if err != nil {
		common.LogWarn("別名快取連線失敗，改用內建別名表", zap.Error(err))
		return static
	}
	return redisCache
}

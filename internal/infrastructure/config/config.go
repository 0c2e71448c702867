package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Engine      EngineConfig      `mapstructure:"engine"`
	Sources     SourcesConfig     `mapstructure:"sources"`
	AliasCache  AliasCacheConfig  `mapstructure:"alias_cache"`
	RecordCache RecordCacheConfig `mapstructure:"record_cache"`
	Pools       PoolConfig        `mapstructure:"pools"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	LogLevel    string            `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// EngineConfig 營養編譯引擎的全部門檻值。
// 所有異常判定與校正邏輯只讀這裡，不寫死在程式裡，方便測試覆寫。
type EngineConfig struct {
	// 異常守門（Anomaly Guards）
	IngredientScaleMin       float64 `mapstructure:"ingredient_scale_min"`        // 單一食材縮放下限
	IngredientScaleMax       float64 `mapstructure:"ingredient_scale_max"`        // 單一食材縮放上限
	MealScaleMin             float64 `mapstructure:"meal_scale_min"`              // 整餐單一食物縮放下限
	MealScaleMax             float64 `mapstructure:"meal_scale_max"`              // 整餐單一食物縮放上限
	LowCalorieDayKcal        float64 `mapstructure:"low_calorie_day_kcal"`        // 低熱量日判定
	LowCalorieMaxShare       float64 `mapstructure:"low_calorie_max_share"`       // 低熱量日單一食材熱量占比上限
	KcalDensityCeiling       float64 `mapstructure:"kcal_density_ceiling"`        // kcal/g 上限
	KcalDensityCeilingVolume float64 `mapstructure:"kcal_density_ceiling_volume"` // 體積換算時放寬的 kcal/g 上限
	CookedKcalDensityCeiling float64 `mapstructure:"cooked_kcal_density_ceiling"` // 熟食比對到乾貨資料的 kcal/g 上限
	MacroDensityCeiling      float64 `mapstructure:"macro_density_ceiling"`       // 巨量營養素 g/g 上限
	MacroDensityCeilingVol   float64 `mapstructure:"macro_density_ceiling_vol"`   // 體積換算時的 g/g 上限

	// 信心等級與估計值回退
	VerifiedFraction       float64 `mapstructure:"verified_fraction"`        // verified 所需的已驗證食材比例
	EstimateFallbackFactor float64 `mapstructure:"estimate_fallback_factor"` // 超過目標幾倍時改用預估值

	// 單餐再校準（Recalibration）
	MealTolerancePercent float64 `mapstructure:"meal_tolerance_percent"`
	MealFactorMin        float64 `mapstructure:"meal_factor_min"`
	MealFactorMax        float64 `mapstructure:"meal_factor_max"`

	// 單日校準（Day Calibrator）
	DayTolerancePercent float64 `mapstructure:"day_tolerance_percent"`
	DayMealAdjustMin    float64 `mapstructure:"day_meal_adjust_min"`
	DayMealAdjustMax    float64 `mapstructure:"day_meal_adjust_max"`

	// QA 驗證
	QAMaxIterations        int     `mapstructure:"qa_max_iterations"`
	QAKcalTolerancePercent float64 `mapstructure:"qa_kcal_tolerance_percent"`
	QAMacroMismatchPercent float64 `mapstructure:"qa_macro_mismatch_percent"`
	QAWarnThresholdPercent float64 `mapstructure:"qa_warn_threshold_percent"`
	QAScorePenaltyPerPoint float64 `mapstructure:"qa_score_penalty_per_point"`

	// 查詢行為
	SearchMaxResults int `mapstructure:"search_max_results"`
	ProgressInterval int `mapstructure:"progress_interval"` // 每編譯幾餐回報一次進度
}

// SourcesConfig 食品資料來源配置（依優先序：本地 → USDA → OFF）
type SourcesConfig struct {
	Local LocalSourceConfig `mapstructure:"local"`
	USDA  USDAConfig        `mapstructure:"usda"`
	OFF   OFFConfig         `mapstructure:"off"`
}

// LocalSourceConfig 本地 sqlite 食品資料庫
type LocalSourceConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// USDAConfig USDA FoodData Central 配置
type USDAConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// OFFConfig Open Food Facts 配置
type OFFConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AliasCacheConfig 食材別名快取配置（唯讀，redis 不可用時退回內建表）
type AliasCacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	RedisAddr string        `mapstructure:"redis_addr"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// RecordCacheConfig 食品紀錄快取配置（遠端來源的 TTL 快取）
type RecordCacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	MaxSize int           `mapstructure:"max_size"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// PoolConfig 併發池配置：外層池限制對外 API 併發，內層池限制單餐內的食材查詢
type PoolConfig struct {
	APIWorkers        int `mapstructure:"api_workers"`
	IngredientWorkers int `mapstructure:"ingredient_workers"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（不存在不算錯誤，由 main 提示）
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("sources.usda.api_key", "USDA_API_KEY")
	viper.BindEnv("sources.usda.enabled", "USDA_ENABLED")
	viper.BindEnv("sources.off.enabled", "OFF_ENABLED")
	viper.BindEnv("sources.local.path", "LOCAL_FOOD_DB_PATH")
	viper.BindEnv("alias_cache.enabled", "ALIAS_CACHE_ENABLED")
	viper.BindEnv("alias_cache.redis_addr", "ALIAS_CACHE_REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// DefaultEngineConfig 回傳引擎門檻預設值（測試與離線工具共用）
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		IngredientScaleMin:       0.01,
		IngredientScaleMax:       20,
		MealScaleMin:             0.25,
		MealScaleMax:             8,
		LowCalorieDayKcal:        1500,
		LowCalorieMaxShare:       0.40,
		KcalDensityCeiling:       9.5,
		KcalDensityCeilingVolume: 10.0,
		CookedKcalDensityCeiling: 2.5,
		MacroDensityCeiling:      1.05,
		MacroDensityCeilingVol:   1.15,
		VerifiedFraction:         0.70,
		EstimateFallbackFactor:   2.0,
		MealTolerancePercent:     5,
		MealFactorMin:            0.5,
		MealFactorMax:            2.0,
		DayTolerancePercent:      3,
		DayMealAdjustMin:         0.8,
		DayMealAdjustMax:         1.2,
		QAMaxIterations:          3,
		QAKcalTolerancePercent:   3,
		QAMacroMismatchPercent:   5,
		QAWarnThresholdPercent:   6,
		QAScorePenaltyPerPoint:   5,
		SearchMaxResults:         5,
		ProgressInterval:         5,
	}
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "meal-compiler")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "60s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 引擎門檻
	def := DefaultEngineConfig()
	viper.SetDefault("engine.ingredient_scale_min", def.IngredientScaleMin)
	viper.SetDefault("engine.ingredient_scale_max", def.IngredientScaleMax)
	viper.SetDefault("engine.meal_scale_min", def.MealScaleMin)
	viper.SetDefault("engine.meal_scale_max", def.MealScaleMax)
	viper.SetDefault("engine.low_calorie_day_kcal", def.LowCalorieDayKcal)
	viper.SetDefault("engine.low_calorie_max_share", def.LowCalorieMaxShare)
	viper.SetDefault("engine.kcal_density_ceiling", def.KcalDensityCeiling)
	viper.SetDefault("engine.kcal_density_ceiling_volume", def.KcalDensityCeilingVolume)
	viper.SetDefault("engine.cooked_kcal_density_ceiling", def.CookedKcalDensityCeiling)
	viper.SetDefault("engine.macro_density_ceiling", def.MacroDensityCeiling)
	viper.SetDefault("engine.macro_density_ceiling_vol", def.MacroDensityCeilingVol)
	viper.SetDefault("engine.verified_fraction", def.VerifiedFraction)
	viper.SetDefault("engine.estimate_fallback_factor", def.EstimateFallbackFactor)
	viper.SetDefault("engine.meal_tolerance_percent", def.MealTolerancePercent)
	viper.SetDefault("engine.meal_factor_min", def.MealFactorMin)
	viper.SetDefault("engine.meal_factor_max", def.MealFactorMax)
	viper.SetDefault("engine.day_tolerance_percent", def.DayTolerancePercent)
	viper.SetDefault("engine.day_meal_adjust_min", def.DayMealAdjustMin)
	viper.SetDefault("engine.day_meal_adjust_max", def.DayMealAdjustMax)
	viper.SetDefault("engine.qa_max_iterations", def.QAMaxIterations)
	viper.SetDefault("engine.qa_kcal_tolerance_percent", def.QAKcalTolerancePercent)
	viper.SetDefault("engine.qa_macro_mismatch_percent", def.QAMacroMismatchPercent)
	viper.SetDefault("engine.qa_warn_threshold_percent", def.QAWarnThresholdPercent)
	viper.SetDefault("engine.qa_score_penalty_per_point", def.QAScorePenaltyPerPoint)
	viper.SetDefault("engine.search_max_results", def.SearchMaxResults)
	viper.SetDefault("engine.progress_interval", def.ProgressInterval)

	// 資料來源設定
	viper.SetDefault("sources.local.enabled", true)
	viper.SetDefault("sources.local.path", "data/foods.db")
	viper.SetDefault("sources.usda.enabled", false)
	viper.SetDefault("sources.usda.base_url", "https://api.nal.usda.gov/fdc")
	viper.SetDefault("sources.usda.timeout", "10s")
	viper.SetDefault("sources.off.enabled", false)
	viper.SetDefault("sources.off.base_url", "https://world.openfoodfacts.org")
	viper.SetDefault("sources.off.timeout", "10s")

	// 別名快取設定
	viper.SetDefault("alias_cache.enabled", false)
	viper.SetDefault("alias_cache.redis_addr", "localhost:6379")
	viper.SetDefault("alias_cache.key_prefix", "ingredient_alias:")
	viper.SetDefault("alias_cache.timeout", "500ms")

	// 紀錄快取設定
	viper.SetDefault("record_cache.enabled", true)
	viper.SetDefault("record_cache.max_size", 1000)
	viper.SetDefault("record_cache.ttl", "24h")

	// 併發池設定
	viper.SetDefault("pools.api_workers", 5)
	viper.SetDefault("pools.ingredient_workers", 8)

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	viper.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 至少要有一個資料來源
	if !config.Sources.Local.Enabled && !config.Sources.USDA.Enabled && !config.Sources.OFF.Enabled {
		return fmt.Errorf("at least one food data source must be enabled")
	}
	if config.Sources.USDA.Enabled && config.Sources.USDA.APIKey == "" {
		return fmt.Errorf("usda api key is required when usda source is enabled")
	}

	// 驗證引擎門檻
	e := &config.Engine
	if e.IngredientScaleMin <= 0 || e.IngredientScaleMax <= e.IngredientScaleMin {
		return fmt.Errorf("invalid ingredient scale bounds")
	}
	if e.MealScaleMin <= 0 || e.MealScaleMax <= e.MealScaleMin {
		return fmt.Errorf("invalid meal scale bounds")
	}
	if e.VerifiedFraction <= 0 || e.VerifiedFraction > 1 {
		return fmt.Errorf("invalid verified fraction")
	}
	if e.MealFactorMin <= 0 || e.MealFactorMax <= e.MealFactorMin {
		return fmt.Errorf("invalid meal recalibration factor bounds")
	}
	if e.DayMealAdjustMin <= 0 || e.DayMealAdjustMax <= e.DayMealAdjustMin {
		return fmt.Errorf("invalid day meal adjust bounds")
	}
	if e.QAMaxIterations <= 0 {
		return fmt.Errorf("invalid qa max iterations")
	}
	if e.SearchMaxResults <= 0 {
		return fmt.Errorf("invalid search max results")
	}
	if e.ProgressInterval <= 0 {
		return fmt.Errorf("invalid progress interval")
	}

	// 驗證併發池設定
	if config.Pools.APIWorkers <= 0 {
		return fmt.Errorf("invalid api workers")
	}
	if config.Pools.IngredientWorkers <= 0 {
		return fmt.Errorf("invalid ingredient workers")
	}

	// 驗證紀錄快取設定
	if config.RecordCache.Enabled {
		if config.RecordCache.MaxSize <= 0 {
			return fmt.Errorf("invalid record cache max size")
		}
		if config.RecordCache.TTL <= 0 {
			return fmt.Errorf("invalid record cache ttl")
		}
	}

	return nil
}

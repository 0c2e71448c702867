package compile

import (
	"fmt"
	"math"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/infrastructure/config"
	"meal-compiler/internal/pkg/common"

	"go.uber.org/zap"
)

// CalibrateDay 單日校準：日總量偏差超過容忍值時，把落差按各餐熱量
// 占比重新分配（等價於統一係數 target/actual），但每餐的調整
// 係數各自夾在界限內，單餐最多失真 ±20%。
// 夾擊可能留下殘餘偏差，交給 QA 驗證去判定，這裡不保證收斂。
func CalibrateDay(cfg *config.EngineConfig, day *nutrition.CompiledDay) []string {
	day.RecomputeTotals()

	if math.Abs(day.VariancePercent) <= cfg.DayTolerancePercent {
		return nil
	}
	if day.DailyTotals.Kcal <= 0 {
		return nil
	}

	factor := day.TargetKcal / day.DailyTotals.Kcal
	clamped := clamp(factor, cfg.DayMealAdjustMin, cfg.DayMealAdjustMax)

	var adjustments []string
	for i, meal := range day.Meals {
		before := meal.Nutrition.Kcal
		day.Meals[i] = meal.Scaled(clamped)
		adjustments = append(adjustments, fmt.Sprintf(
			"day %d %s: %.0f kcal -> %.0f kcal (factor %.2f)",
			day.DayNumber, meal.Slot, before, day.Meals[i].Nutrition.Kcal, clamped,
		))
	}

	day.RecomputeTotals()

	common.LogInfo("單日校準完成",
		zap.Int("日", day.DayNumber),
		zap.Float64("係數", clamped),
		zap.Float64("校準後偏差百分比", day.VariancePercent),
	)
	return adjustments
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

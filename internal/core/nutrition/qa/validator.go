package qa

import (
	"fmt"
	"math"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/infrastructure/config"
	"meal-compiler/internal/pkg/common"

	"go.uber.org/zap"
)

// Validator 編譯後的第二道獨立校正。與單日校準不同的啟發式：
// 只動單日裡最大的一餐來補熱量缺口，最多迭代固定次數。
type Validator struct {
	engine *config.EngineConfig
}

// New 創建 QA 驗證器
func New(engine *config.EngineConfig) *Validator {
	return &Validator{engine: engine}
}

// Validate 迭代修正日層級偏差直到通過容忍值或用完迭代預算，
// 然後給每日評狀態、整體評分。夾擊後的殘餘偏差是接受的行為，
// 不做額外升級處理。
func (v *Validator) Validate(plan *nutrition.MealPlanCompiled) nutrition.QAResult {
	result := nutrition.QAResult{
		Status:      nutrition.QAStatusPass,
		Adjustments: []string{},
	}

	for iter := 0; iter < v.engine.QAMaxIterations; iter++ {
		violations := v.findViolations(plan)
		if len(violations) == 0 {
			break
		}
		result.Iterations++
		for _, dayIdx := range violations {
			if desc := v.correctDay(&plan.Days[dayIdx]); desc != "" {
				result.Adjustments = append(result.Adjustments, desc)
			}
		}
	}

	// 最終評定
	if len(plan.Days) == 0 {
		result.Score = 100
		return result
	}

	totalScore := 0.0
	for _, day := range plan.Days {
		status := v.dayStatus(day.VariancePercent)
		result.Days = append(result.Days, nutrition.QADayResult{
			DayNumber:       day.DayNumber,
			Status:          status,
			VariancePercent: day.VariancePercent,
		})
		result.Status = worseStatus(result.Status, status)
		totalScore += v.dayScore(day.VariancePercent)
	}
	result.Score = totalScore / float64(len(plan.Days))

	common.LogInfo("QA 驗證完成",
		zap.String("狀態", string(result.Status)),
		zap.Float64("評分", result.Score),
		zap.Int("迭代次數", result.Iterations),
	)
	return result
}

// findViolations 找出熱量偏差或巨量營養素熱量不一致的日
func (v *Validator) findViolations(plan *nutrition.MealPlanCompiled) []int {
	var violations []int
	for i := range plan.Days {
		day := &plan.Days[i]
		day.RecomputeTotals()

		if math.Abs(day.VariancePercent) > v.engine.QAKcalTolerancePercent {
			violations = append(violations, i)
			continue
		}
		if v.macroMismatchPercent(day.DailyTotals) > v.engine.QAMacroMismatchPercent {
			violations = append(violations, i)
		}
	}
	return violations
}

// macroMismatchPercent 巨量營養素推導熱量與總熱量的相對差
func (v *Validator) macroMismatchPercent(totals nutrition.NutritionQuantity) float64 {
	if totals.Kcal <= 0 {
		return 0
	}
	derived := nutrition.DeriveKcal(totals.ProteinG, totals.CarbsG, totals.FatG)
	return math.Abs(derived-totals.Kcal) / totals.Kcal * 100
}

// correctDay 縮放單日最大的一餐來補掉熱量缺口
func (v *Validator) correctDay(day *nutrition.CompiledDay) string {
	day.RecomputeTotals()

	largest := -1
	for i, meal := range day.Meals {
		if largest < 0 || meal.Nutrition.Kcal > day.Meals[largest].Nutrition.Kcal {
			largest = i
		}
	}
	if largest < 0 || day.Meals[largest].Nutrition.Kcal <= 0 {
		return ""
	}

	gap := day.TargetKcal - day.DailyTotals.Kcal
	before := day.Meals[largest].Nutrition.Kcal
	factor := (before + gap) / before
	if factor <= 0 || math.IsInf(factor, 0) || math.IsNaN(factor) {
		return ""
	}

	day.Meals[largest] = day.Meals[largest].Scaled(factor)
	day.RecomputeTotals()

	return fmt.Sprintf("day %d %s: scaled largest meal %.0f kcal -> %.0f kcal to close %.0f kcal gap",
		day.DayNumber, day.Meals[largest].Slot, before, day.Meals[largest].Nutrition.Kcal, gap)
}

// dayStatus |偏差| ≤3% PASS、≤6% WARN、其餘 FAIL
func (v *Validator) dayStatus(variancePercent float64) nutrition.QAStatus {
	abs := math.Abs(variancePercent)
	switch {
	case abs <= v.engine.QAKcalTolerancePercent:
		return nutrition.QAStatusPass
	case abs <= v.engine.QAWarnThresholdPercent:
		return nutrition.QAStatusWarn
	default:
		return nutrition.QAStatusFail
	}
}

// dayScore 每日從 100 起算，每偏差 1 個百分點扣固定分數，最低 0
func (v *Validator) dayScore(variancePercent float64) float64 {
	score := 100 - v.engine.QAScorePenaltyPerPoint*math.Abs(variancePercent)
	if score < 0 {
		return 0
	}
	return score
}

// worseStatus 整體狀態取所有日裡最差的
func worseStatus(a, b nutrition.QAStatus) nutrition.QAStatus {
	rank := map[nutrition.QAStatus]int{
		nutrition.QAStatusPass: 0,
		nutrition.QAStatusWarn: 1,
		nutrition.QAStatusFail: 2,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

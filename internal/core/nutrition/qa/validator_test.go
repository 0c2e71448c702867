package qa

import (
	"math"
	"testing"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/infrastructure/config"
)

func newValidator() *Validator {
	cfg := config.DefaultEngineConfig()
	return New(&cfg)
}

// carbsMeal 純碳水餐，kcal 與巨量營養素 Atwater 一致
func carbsMeal(slot string, kcal float64) nutrition.CompiledMeal {
	return nutrition.CompiledMeal{
		Slot:      slot,
		Nutrition: nutrition.NutritionQuantity{Kcal: kcal, CarbsG: kcal / 4},
	}
}

func TestValidatePassingPlanNeedsNoIterations(t *testing.T) {
	plan := &nutrition.MealPlanCompiled{
		Days: []nutrition.CompiledDay{
			{
				DayNumber:  1,
				TargetKcal: 2000,
				Meals:      []nutrition.CompiledMeal{carbsMeal("breakfast", 660), carbsMeal("lunch", 660), carbsMeal("dinner", 680)},
			},
		},
	}

	result := newValidator().Validate(plan)

	if result.Status != nutrition.QAStatusPass {
		t.Errorf("Status = %v, want PASS", result.Status)
	}
	if result.Iterations != 0 {
		t.Errorf("Iterations = %d, want 0", result.Iterations)
	}
	if len(result.Adjustments) != 0 {
		t.Errorf("Adjustments = %v, want none", result.Adjustments)
	}
	if result.Score != 100 {
		t.Errorf("Score = %v, want 100", result.Score)
	}
}

// 偏差 -10% 的日：單次迭代縮放最大的一餐補滿缺口後通過
func TestValidateCorrectsByScalingLargestMeal(t *testing.T) {
	plan := &nutrition.MealPlanCompiled{
		Days: []nutrition.CompiledDay{
			{
				DayNumber:  1,
				TargetKcal: 2000,
				Meals:      []nutrition.CompiledMeal{carbsMeal("breakfast", 400), carbsMeal("lunch", 600), carbsMeal("dinner", 800)},
			},
		},
	}

	result := newValidator().Validate(plan)

	if result.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", result.Iterations)
	}
	if len(result.Adjustments) != 1 {
		t.Fatalf("Adjustments = %v, want 1 entry", result.Adjustments)
	}
	if result.Status != nutrition.QAStatusPass {
		t.Errorf("Status = %v, want PASS after correction", result.Status)
	}

	day := plan.Days[0]
	// 只動最大的一餐：晚餐 800 → 1000
	if day.Meals[0].Nutrition.Kcal != 400 || day.Meals[1].Nutrition.Kcal != 600 {
		t.Error("correction touched meals other than the largest")
	}
	if day.Meals[2].Nutrition.Kcal != 1000 {
		t.Errorf("dinner kcal = %v, want 1000", day.Meals[2].Nutrition.Kcal)
	}
	if day.DailyTotals.Kcal != 2000 {
		t.Errorf("DailyTotals.Kcal = %v, want 2000", day.DailyTotals.Kcal)
	}
}

// 無法修正的日（零熱量餐）：用完迭代預算後評 FAIL、分數見底
func TestValidateIterationBudgetAndFail(t *testing.T) {
	plan := &nutrition.MealPlanCompiled{
		Days: []nutrition.CompiledDay{
			{
				DayNumber:  1,
				TargetKcal: 1800,
				Meals:      []nutrition.CompiledMeal{{Slot: "breakfast"}},
			},
		},
	}

	result := newValidator().Validate(plan)

	if result.Iterations != 3 {
		t.Errorf("Iterations = %d, want max 3", result.Iterations)
	}
	if result.Status != nutrition.QAStatusFail {
		t.Errorf("Status = %v, want FAIL", result.Status)
	}
	// 偏差 -100%：100 − 5×100 見底為 0
	if result.Score != 0 {
		t.Errorf("Score = %v, want 0", result.Score)
	}
}

// 整體狀態取所有日裡最差的，分數是各日平均
func TestValidateOverallStatusAndScore(t *testing.T) {
	plan := &nutrition.MealPlanCompiled{
		Days: []nutrition.CompiledDay{
			{
				DayNumber:  1,
				TargetKcal: 2000,
				Meals:      []nutrition.CompiledMeal{carbsMeal("breakfast", 1000), carbsMeal("dinner", 1000)},
			},
			{
				DayNumber:  2,
				TargetKcal: 1800,
				Meals:      []nutrition.CompiledMeal{{Slot: "breakfast"}},
			},
		},
	}

	result := newValidator().Validate(plan)

	if result.Status != nutrition.QAStatusFail {
		t.Errorf("Status = %v, want FAIL (worst day wins)", result.Status)
	}
	if len(result.Days) != 2 {
		t.Fatalf("Days = %d, want 2", len(result.Days))
	}
	if result.Days[0].Status != nutrition.QAStatusPass {
		t.Errorf("day 1 status = %v, want PASS", result.Days[0].Status)
	}
	if result.Days[1].Status != nutrition.QAStatusFail {
		t.Errorf("day 2 status = %v, want FAIL", result.Days[1].Status)
	}
	// (100 + 0) / 2
	if math.Abs(result.Score-50) > 1e-9 {
		t.Errorf("Score = %v, want 50", result.Score)
	}
}

func TestValidateEmptyPlan(t *testing.T) {
	result := newValidator().Validate(&nutrition.MealPlanCompiled{})
	if result.Status != nutrition.QAStatusPass || result.Score != 100 {
		t.Errorf("empty plan: status=%v score=%v, want PASS/100", result.Status, result.Score)
	}
}

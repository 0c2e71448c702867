package nutrition

import (
	"math"
	"testing"

	"meal-compiler/internal/pkg/common"
)

func floatPtr(v float64) *float64 { return &v }

func TestDeriveKcal(t *testing.T) {
	tests := []struct {
		name     string
		proteinG float64
		carbsG   float64
		fatG     float64
		want     float64
	}{
		{"zero", 0, 0, 0, 0},
		{"protein only", 25, 0, 0, 100},
		{"carbs only", 0, 50, 0, 200},
		{"fat only", 0, 0, 10, 90},
		{"mixed rounds to nearest", 62, 0, 7.2, 313},
		{"half rounds up", 0, 25.0625, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveKcal(tt.proteinG, tt.carbsG, tt.fatG); got != tt.want {
				t.Errorf("DeriveKcal(%v, %v, %v) = %v, want %v", tt.proteinG, tt.carbsG, tt.fatG, got, tt.want)
			}
		})
	}
}

func TestWithDerivedKcalOverridesSourceKcal(t *testing.T) {
	q := NutritionQuantity{Kcal: 999, ProteinG: 10, CarbsG: 10, FatG: 10}
	got := q.WithDerivedKcal()
	if got.Kcal != 170 {
		t.Errorf("Kcal = %v, want 170", got.Kcal)
	}
	if q.Kcal != 999 {
		t.Errorf("original mutated: Kcal = %v", q.Kcal)
	}
}

func TestNutritionQuantityScale(t *testing.T) {
	q := NutritionQuantity{ProteinG: 20, CarbsG: 30, FatG: 10, FiberG: floatPtr(4)}
	got := q.Scale(0.5)

	if got.ProteinG != 10 || got.CarbsG != 15 || got.FatG != 5 {
		t.Errorf("macros = %v/%v/%v, want 10/15/5", got.ProteinG, got.CarbsG, got.FatG)
	}
	if got.FiberG == nil || *got.FiberG != 2 {
		t.Errorf("FiberG = %v, want 2", got.FiberG)
	}
	if got.Kcal != DeriveKcal(10, 15, 5) {
		t.Errorf("Kcal = %v, want derived %v", got.Kcal, DeriveKcal(10, 15, 5))
	}
}

func TestSumNutrition(t *testing.T) {
	t.Run("kcal is re-derived from macros", func(t *testing.T) {
		got := SumNutrition(
			NutritionQuantity{Kcal: 500, ProteinG: 10, CarbsG: 20, FatG: 5},
			NutritionQuantity{Kcal: 700, ProteinG: 15, CarbsG: 30, FatG: 10},
		)
		want := DeriveKcal(25, 50, 15)
		if got.Kcal != want {
			t.Errorf("Kcal = %v, want %v (source kcal must not leak through)", got.Kcal, want)
		}
	})

	t.Run("fiber absent when all inputs lack it", func(t *testing.T) {
		got := SumNutrition(
			NutritionQuantity{ProteinG: 10},
			NutritionQuantity{CarbsG: 20},
		)
		if got.FiberG != nil {
			t.Errorf("FiberG = %v, want nil", *got.FiberG)
		}
	})

	t.Run("fiber sums known parts when some inputs lack it", func(t *testing.T) {
		got := SumNutrition(
			NutritionQuantity{FiberG: floatPtr(3)},
			NutritionQuantity{},
			NutritionQuantity{FiberG: floatPtr(2)},
		)
		if got.FiberG == nil || *got.FiberG != 5 {
			t.Errorf("FiberG = %v, want 5", got.FiberG)
		}
	})

	t.Run("empty input is zero", func(t *testing.T) {
		got := SumNutrition()
		if got.Kcal != 0 || got.FiberG != nil {
			t.Errorf("got %+v, want zero value", got)
		}
	})
}

func TestVariancePercent(t *testing.T) {
	tests := []struct {
		name           string
		actual, target float64
		want           float64
	}{
		{"over target", 2100, 2000, 5},
		{"under target", 1800, 2000, -10},
		{"exact", 2000, 2000, 0},
		{"zero target", 500, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VariancePercent(tt.actual, tt.target); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("VariancePercent(%v, %v) = %v, want %v", tt.actual, tt.target, got, tt.want)
			}
		})
	}
}

func TestCompiledMealScaled(t *testing.T) {
	meal := CompiledMeal{
		Slot:       "lunch",
		TargetKcal: 500,
		Nutrition:  NutritionQuantity{ProteinG: 40, CarbsG: 50, FatG: 10},
		Ingredients: []ResolvedIngredient{
			{Name: "chicken breast", Amount: 205, Unit: "g", Verified: true},
			{Name: "milk", Amount: 1.5, Unit: "cup", Verified: false},
		},
	}

	got := meal.Scaled(0.5)

	// 克數取整、非克單位保留小數
	if got.Ingredients[0].Amount != 103 {
		t.Errorf("gram amount = %v, want 103", got.Ingredients[0].Amount)
	}
	if got.Ingredients[1].Amount != 0.75 {
		t.Errorf("cup amount = %v, want 0.75", got.Ingredients[1].Amount)
	}
	if got.Nutrition.ProteinG != 20 {
		t.Errorf("ProteinG = %v, want 20", got.Nutrition.ProteinG)
	}

	// 原值不動
	if meal.Ingredients[0].Amount != 205 || meal.Nutrition.ProteinG != 40 {
		t.Error("Scaled mutated the original meal")
	}
}

func TestRecomputeTotals(t *testing.T) {
	day := CompiledDay{
		TargetKcal: 2000,
		Meals: []CompiledMeal{
			{Nutrition: NutritionQuantity{ProteinG: 50, CarbsG: 100, FatG: 20}},
			{Nutrition: NutritionQuantity{ProteinG: 50, CarbsG: 100, FatG: 20}},
		},
	}
	day.RecomputeTotals()

	wantKcal := DeriveKcal(100, 200, 40)
	if day.DailyTotals.Kcal != wantKcal {
		t.Errorf("DailyTotals.Kcal = %v, want %v", day.DailyTotals.Kcal, wantKcal)
	}
	if day.VarianceKcal != wantKcal-2000 {
		t.Errorf("VarianceKcal = %v, want %v", day.VarianceKcal, wantKcal-2000)
	}
	if math.Abs(day.VariancePercent-(wantKcal-2000)/2000*100) > 1e-9 {
		t.Errorf("VariancePercent = %v", day.VariancePercent)
	}
}

func validPlan() *DraftPlan {
	return &DraftPlan{
		Days: []DraftDay{
			{
				DayNumber:  1,
				TargetKcal: 2000,
				Meals: []DraftMeal{
					{
						Slot:            "breakfast",
						TargetNutrition: NutritionQuantity{Kcal: 500},
						DraftIngredients: []DraftIngredient{
							{Name: "rolled oats", Quantity: 80, Unit: "g"},
						},
					},
				},
			},
		},
	}
}

func TestValidateDraftPlan(t *testing.T) {
	if err := ValidateDraftPlan(validPlan()); err != nil {
		t.Fatalf("valid plan rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*DraftPlan) *DraftPlan
	}{
		{"nil plan", func(p *DraftPlan) *DraftPlan { return nil }},
		{"no days", func(p *DraftPlan) *DraftPlan { p.Days = nil; return p }},
		{"day number zero", func(p *DraftPlan) *DraftPlan { p.Days[0].DayNumber = 0; return p }},
		{"non-positive target kcal", func(p *DraftPlan) *DraftPlan { p.Days[0].TargetKcal = 0; return p }},
		{"day without meals", func(p *DraftPlan) *DraftPlan { p.Days[0].Meals = nil; return p }},
		{"empty slot", func(p *DraftPlan) *DraftPlan { p.Days[0].Meals[0].Slot = ""; return p }},
		{"non-positive meal target", func(p *DraftPlan) *DraftPlan {
			p.Days[0].Meals[0].TargetNutrition.Kcal = 0
			return p
		}},
		{"empty ingredient name", func(p *DraftPlan) *DraftPlan {
			p.Days[0].Meals[0].DraftIngredients[0].Name = ""
			return p
		}},
		{"negative quantity", func(p *DraftPlan) *DraftPlan {
			p.Days[0].Meals[0].DraftIngredients[0].Quantity = -1
			return p
		}},
		{"NaN quantity", func(p *DraftPlan) *DraftPlan {
			p.Days[0].Meals[0].DraftIngredients[0].Quantity = math.NaN()
			return p
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraftPlan(tt.mutate(validPlan()))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !common.IsValidationError(err) {
				t.Errorf("error is not a validation error: %v", err)
			}
		})
	}
}

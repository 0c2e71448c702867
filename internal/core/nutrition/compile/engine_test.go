package compile

import (
	"context"
	"strings"
	"sync"
	"testing"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/core/nutrition/diet"
	"meal-compiler/internal/core/nutrition/normalize"
	"meal-compiler/internal/core/nutrition/resolver"
	"meal-compiler/internal/core/nutrition/source"
	"meal-compiler/internal/infrastructure/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Engine: config.DefaultEngineConfig(),
		Pools:  config.PoolConfig{APIWorkers: 3, IngredientWorkers: 4},
	}
}

func newTestEngine(t *testing.T, progress ProgressFunc) *Engine {
	t.Helper()
	cfg := testConfig()
	res := resolver.New(&cfg.Engine, []source.FoodSource{pantrySource()}, diet.NewKeywordChecker(), normalize.New(nil))
	return NewEngine(cfg, res, progress)
}

func twoDayPlan() nutrition.DraftPlan {
	day := func(n int) nutrition.DraftDay {
		return nutrition.DraftDay{
			DayNumber:  n,
			TargetKcal: 860,
			Meals: []nutrition.DraftMeal{
				oatsBananaMeal(430),
				func() nutrition.DraftMeal {
					m := oatsBananaMeal(430)
					m.Slot = "dinner"
					return m
				}(),
			},
		}
	}
	return nutrition.DraftPlan{Days: []nutrition.DraftDay{day(1), day(2)}}
}

func TestEngineCompileOrdersDaysAndMeals(t *testing.T) {
	engine := newTestEngine(t, nil)
	compiled, err := engine.Compile(context.Background(), twoDayPlan(), diet.Constraints{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if len(compiled.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(compiled.Days))
	}
	for i, day := range compiled.Days {
		if day.DayNumber != i+1 {
			t.Errorf("day %d has DayNumber %d", i, day.DayNumber)
		}
		if day.Meals[0].Slot != "breakfast" || day.Meals[1].Slot != "dinner" {
			t.Errorf("day %d meal order = %q, %q", i, day.Meals[0].Slot, day.Meals[1].Slot)
		}
		// 兩餐各 425 kcal，對 860 目標偏差 -1.2% 在容忍內
		if day.DailyTotals.Kcal != 850 {
			t.Errorf("day %d totals = %v, want 850", i, day.DailyTotals.Kcal)
		}
	}

	// 日巨量營養素目標 = 各餐目標加總
	if compiled.Days[0].MacroTargets.CarbsG != 164 {
		t.Errorf("MacroTargets.CarbsG = %v, want 164", compiled.Days[0].MacroTargets.CarbsG)
	}

	if compiled.WeeklyAverages.Kcal != 850 {
		t.Errorf("WeeklyAverages.Kcal = %v, want 850", compiled.WeeklyAverages.Kcal)
	}
}

func TestEngineCompileRejectsInvalidPlan(t *testing.T) {
	engine := newTestEngine(t, nil)
	_, err := engine.Compile(context.Background(), nutrition.DraftPlan{}, diet.Constraints{})
	if err == nil {
		t.Fatal("expected error for empty plan")
	}
	if !strings.Contains(err.Error(), "invalid draft plan") {
		t.Errorf("err = %v", err)
	}
}

func TestEngineReportsProgress(t *testing.T) {
	var mu sync.Mutex
	var messages []string
	engine := newTestEngine(t, func(message string) {
		mu.Lock()
		messages = append(messages, message)
		mu.Unlock()
	})

	if _, err := engine.Compile(context.Background(), twoDayPlan(), diet.Constraints{}); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	// 4 餐、間隔 5：只有完結時回報一次
	if len(messages) == 0 {
		t.Fatal("no progress reported")
	}
	if messages[len(messages)-1] != "compiled 4/4 meals" {
		t.Errorf("final progress = %q", messages[len(messages)-1])
	}
}

func TestPipelineRunProducesValidatedPlan(t *testing.T) {
	cfg := testConfig()
	res := resolver.New(&cfg.Engine, []source.FoodSource{pantrySource()}, diet.NewKeywordChecker(), normalize.New(nil))
	pipeline := NewPipeline(cfg, res, nil)

	result, err := pipeline.Run(context.Background(), twoDayPlan(), diet.Constraints{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.QA.Status != nutrition.QAStatusPass {
		t.Errorf("QA.Status = %v, want PASS", result.QA.Status)
	}
	if len(result.GroceryList) == 0 {
		t.Fatal("grocery list is empty")
	}
	// 燕麥跨 2 日 4 餐合併：4 × 80 g = 320 g → 增量 25 取到 325
	found := false
	for _, category := range result.GroceryList {
		for _, item := range category.Items {
			if strings.EqualFold(item.Name, "rolled oats") {
				found = true
				if item.Amount != 325 {
					t.Errorf("oats amount = %v, want 325", item.Amount)
				}
			}
		}
	}
	if !found {
		t.Error("rolled oats missing from grocery list")
	}
	if result.WeeklyAverages.Kcal != 850 {
		t.Errorf("WeeklyAverages.Kcal = %v, want 850", result.WeeklyAverages.Kcal)
	}
}

package compile

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/core/nutrition/diet"
	"meal-compiler/internal/core/nutrition/resolver"
	"meal-compiler/internal/infrastructure/config"
	"meal-compiler/internal/pkg/common"

	"go.uber.org/zap"
)

// ProgressFunc 進度回調，每編譯固定餐數呼叫一次
type ProgressFunc func(message string)

// Engine 營養編譯引擎。每次編譯都是全新狀態，
// 跨任務共享的只有唯讀別名快取與無狀態解析器。
type Engine struct {
	engine   *config.EngineConfig
	meals    *MealCompiler
	apiPool  *Pool
	progress ProgressFunc
}

// NewEngine 創建編譯引擎。外層池限制對外 API 併發（餐層級），
// 內層池限制單餐內的食材查詢。
func NewEngine(cfg *config.Config, res *resolver.Resolver, progress ProgressFunc) *Engine {
	ingPool := NewPool(cfg.Pools.IngredientWorkers)
	return &Engine{
		engine:   &cfg.Engine,
		meals:    NewMealCompiler(&cfg.Engine, res, ingPool),
		apiPool:  NewPool(cfg.Pools.APIWorkers),
		progress: progress,
	}
}

// Compile 編譯整份草稿菜單。所有日併發編譯、日內各餐受外層池
// 限制併發、餐內食材受內層池限制；結果一律按輸入順序收集。
func (e *Engine) Compile(ctx context.Context, plan nutrition.DraftPlan, constraints diet.Constraints) (*nutrition.MealPlanCompiled, error) {
	// 結構壞掉是唯一的致命錯誤：不產生任何部分結果
	if err := nutrition.ValidateDraftPlan(&plan); err != nil {
		return nil, fmt.Errorf("invalid draft plan: %w", err)
	}

	runID := common.GenerateUUID()
	totalMeals := 0
	for _, day := range plan.Days {
		totalMeals += len(day.Meals)
	}
	common.LogInfo("開始編譯菜單",
		zap.String("run_id", runID),
		zap.Int("天數", len(plan.Days)),
		zap.Int("總餐數", totalMeals),
	)

	var compiledMeals int64
	days := make([]nutrition.CompiledDay, len(plan.Days))

	var wg sync.WaitGroup
	for i := range plan.Days {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			days[i] = e.compileDay(ctx, plan.Days[i], constraints, &compiledMeals, totalMeals)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compiled := &nutrition.MealPlanCompiled{
		Days:           days,
		WeeklyAverages: weeklyAverages(days),
	}

	common.LogInfo("菜單編譯完成",
		zap.String("run_id", runID),
		zap.Float64("平均每日kcal", compiled.WeeklyAverages.Kcal),
	)
	return compiled, nil
}

// compileDay 編譯一日：各餐在外層池上併發，結果按索引收集
func (e *Engine) compileDay(ctx context.Context, draft nutrition.DraftDay, constraints diet.Constraints, compiledMeals *int64, totalMeals int) nutrition.CompiledDay {
	day := nutrition.CompiledDay{
		DayNumber:  draft.DayNumber,
		TargetKcal: draft.TargetKcal,
		Meals:      make([]nutrition.CompiledMeal, len(draft.Meals)),
	}

	// 日巨量營養素目標 = 各餐目標加總
	for _, meal := range draft.Meals {
		day.MacroTargets.ProteinG += meal.TargetNutrition.ProteinG
		day.MacroTargets.CarbsG += meal.TargetNutrition.CarbsG
		day.MacroTargets.FatG += meal.TargetNutrition.FatG
	}

	_ = e.apiPool.ForEach(ctx, len(draft.Meals), func(ctx context.Context, i int) {
		day.Meals[i] = e.meals.Compile(ctx, draft.Meals[i], draft.TargetKcal, constraints)
		e.reportProgress(compiledMeals, totalMeals)
	})

	CalibrateDay(e.engine, &day)
	return day
}

// reportProgress 進度粒度與併發度脫鉤：每 N 餐回報一次，不是每個任務
func (e *Engine) reportProgress(compiledMeals *int64, totalMeals int) {
	n := atomic.AddInt64(compiledMeals, 1)
	if e.progress == nil {
		return
	}
	if int(n)%e.engine.ProgressInterval == 0 || int(n) == totalMeals {
		e.progress(fmt.Sprintf("compiled %d/%d meals", n, totalMeals))
	}
}

// weeklyAverages 全計畫的每日平均（按實際天數平均）
func weeklyAverages(days []nutrition.CompiledDay) nutrition.WeeklyAverages {
	var avg nutrition.WeeklyAverages
	if len(days) == 0 {
		return avg
	}
	for _, day := range days {
		avg.Kcal += day.DailyTotals.Kcal
		avg.ProteinG += day.DailyTotals.ProteinG
		avg.CarbsG += day.DailyTotals.CarbsG
		avg.FatG += day.DailyTotals.FatG
	}
	n := float64(len(days))
	avg.Kcal /= n
	avg.ProteinG /= n
	avg.CarbsG /= n
	avg.FatG /= n
	return avg
}

package compile

import (
	"context"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/core/nutrition/diet"
	"meal-compiler/internal/core/nutrition/grocery"
	"meal-compiler/internal/core/nutrition/qa"
	"meal-compiler/internal/core/nutrition/resolver"
	"meal-compiler/internal/infrastructure/config"
)

// Pipeline 完整編譯流程：編譯 → QA 驗證 → 購物清單彙總
type Pipeline struct {
	engine    *Engine
	validator *qa.Validator
}

// NewPipeline 創建編譯流程
func NewPipeline(cfg *config.Config, res *resolver.Resolver, progress ProgressFunc) *Pipeline {
	return &Pipeline{
		engine:    NewEngine(cfg, res, progress),
		validator: qa.New(&cfg.Engine),
	}
}

// Run 執行整條流程，產出交給下游渲染與持久化的最終工件
func (p *Pipeline) Run(ctx context.Context, plan nutrition.DraftPlan, constraints diet.Constraints) (*nutrition.MealPlanValidated, error) {
	compiled, err := p.engine.Compile(ctx, plan, constraints)
	if err != nil {
		return nil, err
	}

	qaResult := p.validator.Validate(compiled)

	// QA 可能動過單餐，平均值要重算
	compiled.WeeklyAverages = weeklyAverages(compiled.Days)

	return &nutrition.MealPlanValidated{
		Days:           compiled.Days,
		GroceryList:    grocery.Build(compiled.Days),
		QA:             qaResult,
		WeeklyAverages: compiled.WeeklyAverages,
	}, nil
}

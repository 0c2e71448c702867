package compile

import (
	"context"
	"math"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/core/nutrition/diet"
	"meal-compiler/internal/core/nutrition/resolver"
	"meal-compiler/internal/infrastructure/config"
	"meal-compiler/internal/pkg/common"

	"go.uber.org/zap"
)

// MealCompiler 單餐彙總與再校準
type MealCompiler struct {
	engine   *config.EngineConfig
	resolver *resolver.Resolver
	ingPool  *Pool
}

// NewMealCompiler 創建單餐編譯器
func NewMealCompiler(engine *config.EngineConfig, res *resolver.Resolver, ingPool *Pool) *MealCompiler {
	return &MealCompiler{
		engine:   engine,
		resolver: res,
		ingPool:  ingPool,
	}
}

// Compile 編譯一餐：併發解析食材、彙總營養、定信心等級、再校準。
// 熱量永遠由巨量營養素加總重新推導，不信任來源回報值。
func (c *MealCompiler) Compile(ctx context.Context, draft nutrition.DraftMeal, dayTargetKcal float64, constraints diet.Constraints) nutrition.CompiledMeal {
	meal := nutrition.CompiledMeal{
		Slot:         draft.Slot,
		Name:         draft.Name,
		TargetKcal:   draft.TargetNutrition.Kcal,
		Instructions: draft.Instructions,
	}

	// 沒有食材清單時退回整餐單一食物查詢
	if len(draft.DraftIngredients) == 0 {
		return c.compileWholeMeal(ctx, draft, meal, dayTargetKcal, constraints)
	}

	// 食材解析在內層池上併發，結果按索引收集以保序
	outcomes := make([]resolver.Outcome, len(draft.DraftIngredients))
	_ = c.ingPool.ForEach(ctx, len(draft.DraftIngredients), func(ctx context.Context, i int) {
		ing := draft.DraftIngredients[i]
		outcomes[i] = c.resolver.ResolveIngredient(ctx, resolver.IngredientRequest{
			Name:            ing.Name,
			Quantity:        ing.Quantity,
			Unit:            ing.Unit,
			DailyTargetKcal: dayTargetKcal,
			Constraints:     constraints,
		})
	})

	resolvedCount := 0
	quantities := make([]nutrition.NutritionQuantity, 0, len(outcomes))
	meal.Ingredients = make([]nutrition.ResolvedIngredient, len(outcomes))
	for i, out := range outcomes {
		meal.Ingredients[i] = out.Ingredient
		if out.Resolved {
			resolvedCount++
			quantities = append(quantities, out.Nutrition)
		}
	}

	meal.Nutrition = nutrition.SumNutrition(quantities...)

	// 信心等級：已驗證食材比例達門檻才算 verified
	verifiedFraction := float64(resolvedCount) / float64(len(outcomes))
	if verifiedFraction >= c.engine.VerifiedFraction {
		meal.Confidence = nutrition.ConfidenceVerified
	} else {
		meal.Confidence = nutrition.ConfidenceAIEstimated
		// 部分加總嚴重超標（或完全沒解析到）代表查詢走偏，改用預估值
		if resolvedCount == 0 ||
			meal.Nutrition.Kcal > meal.TargetKcal*c.engine.EstimateFallbackFactor {
			common.LogWarn("部分彙總不可信，改用預估營養值",
				zap.String("餐", draft.Slot),
				zap.Float64("彙總kcal", meal.Nutrition.Kcal),
				zap.Float64("目標kcal", meal.TargetKcal),
				zap.Int("已解析", resolvedCount),
				zap.Int("食材數", len(outcomes)),
			)
			meal.Nutrition = draft.EstimatedNutrition.WithDerivedKcal()
		}
	}

	return c.recalibrate(meal)
}

// compileWholeMeal 整餐單一食物回退
func (c *MealCompiler) compileWholeMeal(ctx context.Context, draft nutrition.DraftMeal, meal nutrition.CompiledMeal, dayTargetKcal float64, constraints diet.Constraints) nutrition.CompiledMeal {
	out := c.resolver.ResolveWholeMeal(ctx, resolver.WholeMealRequest{
		MealName:        draft.Name,
		TargetKcal:      draft.TargetNutrition.Kcal,
		DailyTargetKcal: dayTargetKcal,
		Constraints:     constraints,
	})

	if out.Resolved {
		meal.Ingredients = []nutrition.ResolvedIngredient{out.Ingredient}
		meal.Nutrition = nutrition.SumNutrition(out.Nutrition)
		meal.Confidence = nutrition.ConfidenceVerified
		return c.recalibrate(meal)
	}

	// 查無結果：用預估值，不留空
	meal.Confidence = nutrition.ConfidenceAIEstimated
	meal.Nutrition = draft.EstimatedNutrition.WithDerivedKcal()
	return meal
}

// recalibrate 偏差超過容忍值時等比調整食材數量與營養。
// 所需係數落在界限外時視為比對到錯的食物而非份量問題，記錄但不修。
func (c *MealCompiler) recalibrate(meal nutrition.CompiledMeal) nutrition.CompiledMeal {
	if meal.TargetKcal <= 0 || meal.Nutrition.Kcal <= 0 {
		return meal
	}

	variance := nutrition.VariancePercent(meal.Nutrition.Kcal, meal.TargetKcal)
	if math.Abs(variance) <= c.engine.MealTolerancePercent {
		return meal
	}

	factor := meal.TargetKcal / meal.Nutrition.Kcal
	if factor < c.engine.MealFactorMin || factor > c.engine.MealFactorMax {
		common.LogWarn("再校準係數超出界限，不做修正",
			zap.String("餐", meal.Slot),
			zap.Float64("係數", factor),
			zap.Float64("偏差百分比", variance),
		)
		return meal
	}

	common.LogDebug("單餐再校準",
		zap.String("餐", meal.Slot),
		zap.Float64("係數", factor),
	)
	return meal.Scaled(factor)
}

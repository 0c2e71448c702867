package resolver

import (
	"context"
	"math"
	"strings"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/core/nutrition/diet"
	"meal-compiler/internal/core/nutrition/normalize"
	"meal-compiler/internal/core/nutrition/source"
	"meal-compiler/internal/core/nutrition/units"
	"meal-compiler/internal/infrastructure/config"
	"meal-compiler/internal/pkg/common"

	"go.uber.org/zap"
)

// Resolver 多來源解析器。依固定優先序查詢來源鏈，
// 第一個通過守門的候選勝出；來源錯誤等同無結果，不重試。
// 無狀態，可安全跨併發任務共用。
type Resolver struct {
	engine     *config.EngineConfig
	sources    []source.FoodSource
	compliance diet.Checker
	normalizer *normalize.Normalizer
}

// New 創建解析器
func New(engine *config.EngineConfig, sources []source.FoodSource, compliance diet.Checker, normalizer *normalize.Normalizer) *Resolver {
	return &Resolver{
		engine:     engine,
		sources:    sources,
		compliance: compliance,
		normalizer: normalizer,
	}
}

// IngredientRequest 單一食材的解析請求
type IngredientRequest struct {
	Name            string
	Quantity        float64
	Unit            string
	DailyTargetKcal float64
	Constraints     diet.Constraints
}

// WholeMealRequest 整餐單一食物回退的解析請求
type WholeMealRequest struct {
	MealName        string
	TargetKcal      float64
	DailyTargetKcal float64
	Constraints     diet.Constraints
}

// Outcome 解析結果。Resolved 為 false 時營養為零且食材標記未驗證，
// 絕不回傳沒有標記的猜測值。
type Outcome struct {
	Resolved   bool
	Ingredient nutrition.ResolvedIngredient
	Nutrition  nutrition.NutritionQuantity
	Source     string
}

// ResolveIngredient 解析一筆草稿食材
func (r *Resolver) ResolveIngredient(ctx context.Context, req IngredientRequest) Outcome {
	targetGrams, volumeDerived := units.ToGrams(req.Quantity, req.Unit, req.Name)
	if targetGrams <= 0 {
		return unresolvedOutcome(req.Name, req.Quantity, req.Unit)
	}

	lookups := r.normalizer.Normalize(ctx, req.Name)
	for _, lookup := range lookups {
		match, ok := r.resolveLookup(ctx, lookup, matchParams{
			targetGrams:     targetGrams,
			volumeDerived:   volumeDerived,
			dailyTargetKcal: req.DailyTargetKcal,
			constraints:     req.Constraints,
		})
		if !ok {
			continue
		}

		return Outcome{
			Resolved: true,
			Ingredient: nutrition.ResolvedIngredient{
				Name:         req.Name,
				Amount:       math.Round(targetGrams),
				Unit:         "g",
				SourceFoodID: match.sourceName + ":" + match.record.ID,
				Verified:     true,
			},
			Nutrition: scaleServing(match.choice.Serving, match.scale),
			Source:    match.sourceName,
		}
	}

	common.LogDebug("食材無法解析，標記為未驗證",
		zap.String("食材", req.Name),
		zap.Float64("目標克數", targetGrams),
	)
	return unresolvedOutcome(req.Name, req.Quantity, req.Unit)
}

// ResolveWholeMeal 整餐單一食物回退：以整餐熱量目標為準挑份量與縮放
func (r *Resolver) ResolveWholeMeal(ctx context.Context, req WholeMealRequest) Outcome {
	if req.TargetKcal <= 0 {
		return unresolvedOutcome(req.MealName, 0, "g")
	}

	lookups := r.normalizer.Normalize(ctx, req.MealName)
	for _, lookup := range lookups {
		match, ok := r.resolveLookup(ctx, lookup, matchParams{
			targetKcal:      req.TargetKcal,
			wholeMeal:       true,
			dailyTargetKcal: req.DailyTargetKcal,
			constraints:     req.Constraints,
		})
		if !ok {
			continue
		}

		grams := match.choice.Grams * match.scale
		return Outcome{
			Resolved: true,
			Ingredient: nutrition.ResolvedIngredient{
				Name:         req.MealName,
				Amount:       math.Round(grams),
				Unit:         "g",
				SourceFoodID: match.sourceName + ":" + match.record.ID,
				Verified:     true,
			},
			Nutrition: scaleServing(match.choice.Serving, match.scale),
			Source:    match.sourceName,
		}
	}

	return unresolvedOutcome(req.MealName, 0, "g")
}

type matchParams struct {
	targetGrams     float64
	targetKcal      float64 // wholeMeal 模式以熱量為準
	wholeMeal       bool
	volumeDerived   bool
	dailyTargetKcal float64
	constraints     diet.Constraints
}

type match struct {
	record     *nutrition.FoodRecord
	choice     ServingChoice
	scale      float64
	sourceName string
}

// resolveLookup 對一個標準化查詢詞跑完整條來源鏈，第一個通過者勝出
func (r *Resolver) resolveLookup(ctx context.Context, lookup normalize.Lookup, params matchParams) (match, bool) {
	for _, src := range r.sources {
		// 別名表直接指定紀錄時跳過搜尋
		if lookup.DirectID != "" {
			if m, ok := r.tryRecord(ctx, src, lookup, lookup.DirectID, params); ok {
				return m, true
			}
		}

		hits, err := src.Search(ctx, lookup.Term, r.engine.SearchMaxResults)
		if err != nil {
			// 來源打不通等同無結果，換下一個來源
			common.LogWarn("資料來源不可用，改用下一個來源",
				zap.String("來源", src.Name()),
				zap.String("查詢", lookup.Term),
				zap.Error(err),
			)
			continue
		}

		for _, hit := range hits {
			// 合規過濾先擋掉明顯違規的候選，省一次紀錄請求
			if hit.Description != "" && !r.compliance.IsCompliant(hit.Description, params.constraints) {
				continue
			}
			if m, ok := r.tryRecord(ctx, src, lookup, hit.ID, params); ok {
				return m, true
			}
		}
	}
	return match{}, false
}

// tryRecord 取紀錄 → 合規 → 選份量 → 算縮放 → 守門
func (r *Resolver) tryRecord(ctx context.Context, src source.FoodSource, lookup normalize.Lookup, id string, params matchParams) (match, bool) {
	record, err := src.GetRecord(ctx, id)
	if err != nil {
		common.LogWarn("讀取食品紀錄失敗",
			zap.String("來源", src.Name()),
			zap.String("id", id),
			zap.Error(err),
		)
		return match{}, false
	}

	if !r.compliance.IsCompliant(record.Name, params.constraints) {
		return match{}, false
	}

	var choice ServingChoice
	var scale float64
	var ok bool
	if params.wholeMeal {
		choice, scale, ok = selectByKcal(record, params.targetKcal)
	} else {
		choice, ok = SelectServing(record, params.targetGrams)
		if ok {
			scale = params.targetGrams / choice.Grams
		}
	}
	if !ok {
		return match{}, false
	}

	cand := Candidate{
		Choice:          choice,
		Scale:           scale,
		WholeMeal:       params.wholeMeal,
		Cooked:          lookup.Cooked,
		VolumeDerived:   params.volumeDerived,
		DailyTargetKcal: params.dailyTargetKcal,
	}
	if err := CheckGuards(r.engine, cand); err != nil {
		common.LogDebug("候選未通過守門檢查",
			zap.String("來源", src.Name()),
			zap.String("紀錄", record.Name),
			zap.String("原因", err.Error()),
		)
		return match{}, false
	}

	return match{record: record, choice: choice, scale: scale, sourceName: src.Name()}, true
}

// selectByKcal 整餐回退模式：挑熱量縮放幅度最小的份量
func selectByKcal(record *nutrition.FoodRecord, targetKcal float64) (ServingChoice, float64, bool) {
	choice, ok := SelectServing(record, targetKcal/2) // 粗估 2 kcal/g 當預選克數
	if !ok {
		return ServingChoice{}, 0, false
	}
	if choice.Serving.Kcal <= 0 {
		return ServingChoice{}, 0, false
	}
	return choice, targetKcal / choice.Serving.Kcal, true
}

// scaleServing 把份量營養縮放到目標量。熱量保留來源回報值等比縮放，
// 整餐/整日彙總時才以 Atwater 係數重新推導。
func scaleServing(s nutrition.Serving, scale float64) nutrition.NutritionQuantity {
	q := nutrition.NutritionQuantity{
		Kcal:     s.Kcal * scale,
		ProteinG: s.ProteinG * scale,
		CarbsG:   s.CarbsG * scale,
		FatG:     s.FatG * scale,
	}
	if s.FiberG != nil {
		fiber := *s.FiberG * scale
		q.FiberG = &fiber
	}
	return q
}

// unresolvedOutcome 未解析食材保留草稿的數量與單位（購物清單
// 的取整規則按原始單位走），營養歸零並明確標記未驗證。
func unresolvedOutcome(name string, quantity float64, unit string) Outcome {
	token := strings.ToLower(strings.TrimSpace(unit))
	if token == "" {
		token = "g"
	}
	if quantity < 0 {
		quantity = 0
	}
	return Outcome{
		Resolved: false,
		Ingredient: nutrition.ResolvedIngredient{
			Name:     name,
			Amount:   quantity,
			Unit:     token,
			Verified: false,
		},
	}
}

package nutrition

import (
	"fmt"
	"math"

	"meal-compiler/internal/pkg/common"
)

// Atwater 能量換算係數（kcal/g）
const (
	AtwaterProtein = 4.0
	AtwaterCarbs   = 4.0
	AtwaterFat     = 9.0
)

// ConfidenceLevel 一餐營養數據的信心等級
type ConfidenceLevel string

const (
	ConfidenceVerified    ConfidenceLevel = "verified"
	ConfidenceAIEstimated ConfidenceLevel = "ai_estimated"
)

// QAStatus QA 驗證狀態
type QAStatus string

const (
	QAStatusPass QAStatus = "PASS"
	QAStatusWarn QAStatus = "WARN"
	QAStatusFail QAStatus = "FAIL"
)

// NutritionQuantity 營養數量。Kcal 永遠由巨量營養素重新推導，
// 不直接信任來源回報的熱量值。
type NutritionQuantity struct {
	Kcal     float64  `json:"kcal"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FiberG   *float64 `json:"fiber_g,omitempty"`
}

// DeriveKcal 依 Atwater 係數由巨量營養素推導熱量
func DeriveKcal(proteinG, carbsG, fatG float64) float64 {
	return math.Round(proteinG*AtwaterProtein + carbsG*AtwaterCarbs + fatG*AtwaterFat)
}

// WithDerivedKcal 回傳以巨量營養素重新推導熱量後的副本
func (q NutritionQuantity) WithDerivedKcal() NutritionQuantity {
	q.Kcal = DeriveKcal(q.ProteinG, q.CarbsG, q.FatG)
	return q
}

// Scale 回傳等比縮放後的副本（熱量重新推導）
func (q NutritionQuantity) Scale(factor float64) NutritionQuantity {
	out := NutritionQuantity{
		ProteinG: q.ProteinG * factor,
		CarbsG:   q.CarbsG * factor,
		FatG:     q.FatG * factor,
	}
	if q.FiberG != nil {
		fiber := *q.FiberG * factor
		out.FiberG = &fiber
	}
	return out.WithDerivedKcal()
}

// SumNutrition 加總多筆營養數量。纖維為選填：全部缺值時結果也缺值，
// 部分缺值時只加總已知部分（聚合函數必須對「缺值」有定義）。
func SumNutrition(quantities ...NutritionQuantity) NutritionQuantity {
	var total NutritionQuantity
	var fiber float64
	fiberPresent := false
	for _, q := range quantities {
		total.ProteinG += q.ProteinG
		total.CarbsG += q.CarbsG
		total.FatG += q.FatG
		if q.FiberG != nil {
			fiber += *q.FiberG
			fiberPresent = true
		}
	}
	if fiberPresent {
		total.FiberG = &fiber
	}
	return total.WithDerivedKcal()
}

// VariancePercent 計算 (actual - target) / target * 100
func VariancePercent(actual, target float64) float64 {
	if target == 0 {
		return 0
	}
	return (actual - target) / target * 100
}

// Serving 來源回報的一種份量
type Serving struct {
	AmountValue float64  `json:"amount_value"`
	AmountUnit  string   `json:"amount_unit"`
	Description string   `json:"description,omitempty"`
	Kcal        float64  `json:"kcal"`
	ProteinG    float64  `json:"protein_g"`
	CarbsG      float64  `json:"carbs_g"`
	FatG        float64  `json:"fat_g"`
	FiberG      *float64 `json:"fiber_g,omitempty"`
}

// FoodRecord 單一來源對一種食物的描述
type FoodRecord struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Servings []Serving `json:"servings"`
}

// DraftIngredient 上游產生器給的粗略食材（不可變輸入）
type DraftIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// DraftMeal 草稿餐
type DraftMeal struct {
	Slot               string            `json:"slot"`
	Name               string            `json:"name"`
	TargetNutrition    NutritionQuantity `json:"target_nutrition"`
	DraftIngredients   []DraftIngredient `json:"draft_ingredients"`
	EstimatedNutrition NutritionQuantity `json:"estimated_nutrition"`
	Instructions       []string          `json:"instructions,omitempty"`
}

// DraftDay 草稿日
type DraftDay struct {
	DayNumber  int         `json:"day_number"`
	TargetKcal float64     `json:"target_kcal"`
	Meals      []DraftMeal `json:"meals"`
}

// DraftPlan 上游提供的草稿菜單
type DraftPlan struct {
	Days []DraftDay `json:"days"`
}

// ResolvedIngredient 解析後的食材。再校準時整筆替換，不就地修改。
type ResolvedIngredient struct {
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
	SourceFoodID string  `json:"source_food_id,omitempty"`
	Verified     bool    `json:"verified"`
}

// MacroTargets 一日的巨量營養素目標（各餐目標加總）
type MacroTargets struct {
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// CompiledMeal 編譯完成的一餐
type CompiledMeal struct {
	Slot         string               `json:"slot"`
	Name         string               `json:"name"`
	TargetKcal   float64              `json:"target_kcal"`
	Nutrition    NutritionQuantity    `json:"nutrition"`
	Ingredients  []ResolvedIngredient `json:"ingredients"`
	Confidence   ConfidenceLevel      `json:"confidence_level"`
	Instructions []string             `json:"instructions,omitempty"`
}

// Scaled 回傳等比縮放後的新餐：食材數量與巨量營養素一起縮放，
// 熱量重新推導。原值不動（再校準是替換，不是就地修改）。
func (m CompiledMeal) Scaled(factor float64) CompiledMeal {
	out := m
	out.Nutrition = m.Nutrition.Scale(factor)
	out.Ingredients = make([]ResolvedIngredient, len(m.Ingredients))
	for i, ing := range m.Ingredients {
		scaled := ing
		scaled.Amount = ing.Amount * factor
		if ing.Unit == "g" {
			scaled.Amount = math.Round(scaled.Amount)
		}
		out.Ingredients[i] = scaled
	}
	return out
}

// CompiledDay 編譯完成的一日
type CompiledDay struct {
	DayNumber       int               `json:"day_number"`
	TargetKcal      float64           `json:"target_kcal"`
	Meals           []CompiledMeal    `json:"meals"`
	DailyTotals     NutritionQuantity `json:"daily_totals"`
	VarianceKcal    float64           `json:"variance_kcal"`
	VariancePercent float64           `json:"variance_percent"`
	MacroTargets    MacroTargets      `json:"macro_targets"`
}

// RecomputeTotals 重新計算日總量與偏差
func (d *CompiledDay) RecomputeTotals() {
	quantities := make([]NutritionQuantity, 0, len(d.Meals))
	for _, m := range d.Meals {
		quantities = append(quantities, m.Nutrition)
	}
	d.DailyTotals = SumNutrition(quantities...)
	d.VarianceKcal = d.DailyTotals.Kcal - d.TargetKcal
	d.VariancePercent = VariancePercent(d.DailyTotals.Kcal, d.TargetKcal)
}

// WeeklyAverages 全計畫的每日平均
type WeeklyAverages struct {
	Kcal     float64 `json:"kcal"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// MealPlanCompiled 編譯階段產物
type MealPlanCompiled struct {
	Days           []CompiledDay  `json:"days"`
	WeeklyAverages WeeklyAverages `json:"weekly_averages"`
}

// QADayResult 單日 QA 結果
type QADayResult struct {
	DayNumber       int      `json:"day_number"`
	Status          QAStatus `json:"status"`
	VariancePercent float64  `json:"variance_percent"`
}

// QAResult QA 驗證結果
type QAResult struct {
	Status      QAStatus      `json:"status"`
	Score       float64       `json:"score"`
	Days        []QADayResult `json:"days"`
	Iterations  int           `json:"iterations"`
	Adjustments []string      `json:"adjustments"`
}

// GroceryItem 購物清單項目（數量一律向上取整到購物增量）
type GroceryItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// GroceryCategory 購物分類
type GroceryCategory struct {
	Category string        `json:"category"`
	Items    []GroceryItem `json:"items"`
}

// MealPlanValidated 最終產物，交給下游文件渲染與持久化
type MealPlanValidated struct {
	Days           []CompiledDay     `json:"days"`
	GroceryList    []GroceryCategory `json:"grocery_list"`
	QA             QAResult          `json:"qa"`
	WeeklyAverages WeeklyAverages    `json:"weekly_averages"`
}

// ValidateDraftPlan 檢查草稿菜單的結構不變量。
// 這是唯一的致命錯誤類別：輸入壞掉就不產生任何部分結果。
func ValidateDraftPlan(plan *DraftPlan) error {
	if plan == nil {
		return common.NewValidationError("draft plan is nil")
	}
	if len(plan.Days) == 0 {
		return common.NewValidationError("draft plan has no days")
	}
	for _, day := range plan.Days {
		if day.DayNumber <= 0 {
			return common.NewValidationError(fmt.Sprintf("invalid day number %d", day.DayNumber))
		}
		if day.TargetKcal <= 0 {
			return common.NewValidationError(fmt.Sprintf("day %d: target kcal must be positive", day.DayNumber))
		}
		if len(day.Meals) == 0 {
			return common.NewValidationError(fmt.Sprintf("day %d has no meals", day.DayNumber))
		}
		for _, meal := range day.Meals {
			if meal.Slot == "" {
				return common.NewValidationError(fmt.Sprintf("day %d: meal slot is empty", day.DayNumber))
			}
			if meal.TargetNutrition.Kcal <= 0 {
				return common.NewValidationError(fmt.Sprintf("day %d meal %q: target kcal must be positive", day.DayNumber, meal.Slot))
			}
			for _, ing := range meal.DraftIngredients {
				if ing.Name == "" {
					return common.NewValidationError(fmt.Sprintf("day %d meal %q: ingredient name is empty", day.DayNumber, meal.Slot))
				}
				if ing.Quantity < 0 || math.IsNaN(ing.Quantity) || math.IsInf(ing.Quantity, 0) {
					return common.NewValidationError(fmt.Sprintf("day %d meal %q: invalid quantity for %q", day.DayNumber, meal.Slot, ing.Name))
				}
			}
		}
	}
	return nil
}

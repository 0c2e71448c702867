package resolver

import (
	"math"
	"strings"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/core/nutrition/units"
)

// ServingChoice 選中的份量與其克當量
type ServingChoice struct {
	Serving       nutrition.Serving
	Grams         float64
	VolumeDerived bool // 克當量經過體積換算，守門門檻放寬
}

// SelectServing 在紀錄的份量中挑出縮放幅度最小的一種。
// 優先順序：有效的克份量 → 毫升份量經密度換算 → 描述指明 100 g 的份量。
// 閉合度用 |ln(target/serving)|，對過大與過小的份量對稱。
func SelectServing(record *nutrition.FoodRecord, targetGrams float64) (ServingChoice, bool) {
	if targetGrams <= 0 {
		return ServingChoice{}, false
	}

	candidates := gramCandidates(record)
	if len(candidates) == 0 {
		candidates = volumeCandidates(record)
	}
	if len(candidates) == 0 {
		candidates = textualCandidates(record)
	}
	if len(candidates) == 0 {
		return ServingChoice{}, false
	}

	best := candidates[0]
	bestScore := closeness(targetGrams, best.Grams)
	for _, c := range candidates[1:] {
		if score := closeness(targetGrams, c.Grams); score < bestScore {
			best = c
			bestScore = score
		}
	}
	return best, true
}

// closeness 比例對稱的接近度評分
func closeness(targetGrams, servingGrams float64) float64 {
	return math.Abs(math.Log(targetGrams / servingGrams))
}

func gramCandidates(record *nutrition.FoodRecord) []ServingChoice {
	var out []ServingChoice
	for _, s := range record.Servings {
		unit := strings.ToLower(strings.TrimSpace(s.AmountUnit))
		if (unit == "g" || unit == "gram" || unit == "grams") && s.AmountValue > 0 {
			out = append(out, ServingChoice{Serving: s, Grams: s.AmountValue})
		}
	}
	return out
}

func volumeCandidates(record *nutrition.FoodRecord) []ServingChoice {
	density := units.DensityFor(record.Name)
	var out []ServingChoice
	for _, s := range record.Servings {
		unit := strings.ToLower(strings.TrimSpace(s.AmountUnit))
		if unit == "ml" && s.AmountValue > 0 {
			out = append(out, ServingChoice{
				Serving:       s,
				Grams:         s.AmountValue * density,
				VolumeDerived: true,
			})
		}
	}
	return out
}

func textualCandidates(record *nutrition.FoodRecord) []ServingChoice {
	var out []ServingChoice
	for _, s := range record.Servings {
		desc := strings.ToLower(s.Description)
		if strings.Contains(desc, "100 g") || strings.Contains(desc, "100g") {
			out = append(out, ServingChoice{Serving: s, Grams: 100})
		}
	}
	return out
}

package resolver

import (
	"fmt"

	"meal-compiler/internal/infrastructure/config"
)

// Candidate 通過份量選擇後、等待守門檢查的候選
type Candidate struct {
	Choice          ServingChoice
	Scale           float64 // 份量 → 目標量的縮放係數
	WholeMeal       bool    // 整餐單一食物回退模式（縮放界限不同）
	Cooked          bool    // 搜尋詞帶熟食狀態
	VolumeDerived   bool    // 目標量或份量經過體積換算
	DailyTargetKcal float64 // 當日熱量目標（低熱量日的單一食材上限用）
}

// CheckGuards 依序套用全部健全性檢查，任何一項失敗就拒絕候選。
// 門檻全部來自配置，不寫死在邏輯裡。
func CheckGuards(cfg *config.EngineConfig, cand Candidate) error {
	grams := cand.Choice.Grams
	if grams <= 0 {
		return fmt.Errorf("serving has no usable gram amount")
	}
	serving := cand.Choice.Serving
	volumeDerived := cand.VolumeDerived || cand.Choice.VolumeDerived

	// 縮放界限
	scaleMin, scaleMax := cfg.IngredientScaleMin, cfg.IngredientScaleMax
	if cand.WholeMeal {
		scaleMin, scaleMax = cfg.MealScaleMin, cfg.MealScaleMax
	}
	if cand.Scale < scaleMin || cand.Scale > scaleMax {
		return fmt.Errorf("scale factor %.3f outside [%.2f, %.2f]", cand.Scale, scaleMin, scaleMax)
	}

	// 低熱量日的單一食材熱量上限
	if cand.DailyTargetKcal > 0 && cand.DailyTargetKcal < cfg.LowCalorieDayKcal {
		candidateKcal := serving.Kcal * cand.Scale
		maxKcal := cand.DailyTargetKcal * cfg.LowCalorieMaxShare
		if candidateKcal > maxKcal {
			return fmt.Errorf("ingredient kcal %.0f exceeds %.0f%% of low-calorie daily target %.0f",
				candidateKcal, cfg.LowCalorieMaxShare*100, cand.DailyTargetKcal)
		}
	}

	// 熱量密度上限（不含邊界）。脂肪的理論極限約 9 kcal/g，
	// 到達 10 kcal/g 的紀錄無論如何都是壞資料。
	kcalPerGram := serving.Kcal / grams
	densityCeiling := cfg.KcalDensityCeiling
	if volumeDerived {
		densityCeiling = cfg.KcalDensityCeilingVolume
	}
	if kcalPerGram >= densityCeiling {
		return fmt.Errorf("calorie density %.2f kcal/g exceeds ceiling %.2f", kcalPerGram, densityCeiling)
	}

	// 熟食詞比對到乾貨紀錄（典型是乾米 365 kcal/100g 對上熟飯）
	if cand.Cooked && kcalPerGram > cfg.CookedKcalDensityCeiling {
		return fmt.Errorf("cooked search term matched record at %.2f kcal/g (likely dry/raw data)", kcalPerGram)
	}

	// 巨量營養素密度上限：脂肪或蛋白質不可能超過每克食物約 1 g
	macroCeiling := cfg.MacroDensityCeiling
	if volumeDerived {
		macroCeiling = cfg.MacroDensityCeilingVol
	}
	if serving.FatG/grams > macroCeiling {
		return fmt.Errorf("fat density %.2f g/g exceeds ceiling %.2f", serving.FatG/grams, macroCeiling)
	}
	if serving.ProteinG/grams > macroCeiling {
		return fmt.Errorf("protein density %.2f g/g exceeds ceiling %.2f", serving.ProteinG/grams, macroCeiling)
	}

	return nil
}

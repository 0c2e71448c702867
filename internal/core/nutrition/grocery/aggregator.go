package grocery

import (
	"sort"
	"strings"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/core/nutrition/units"

	"github.com/shopspring/decimal"
)

// 購物分類的固定順序
var categoryOrder = []string{
	"Meat & Seafood",
	"Dairy & Eggs",
	"Grains & Bread",
	"Produce",
	"Fruits",
	"Legumes",
	"Oils & Condiments",
	"Spices",
	"Nuts & Seeds",
	"Other",
}

// 分類關鍵字，依 categoryOrder 順序比對，先中先贏
var categoryKeywords = map[string][]string{
	"Meat & Seafood": {
		"chicken", "beef", "pork", "lamb", "turkey", "duck", "bacon", "ham",
		"sausage", "salmon", "tuna", "cod", "tilapia", "shrimp", "prawn",
		"fish", "crab", "meat",
	},
	"Dairy & Eggs": {
		"milk", "cheese", "yogurt", "yoghurt", "butter", "cream", "egg", "whey",
	},
	"Grains & Bread": {
		"rice", "pasta", "noodle", "bread", "oat", "quinoa", "tortilla",
		"flour", "couscous", "barley", "cereal", "potato",
	},
	"Produce": {
		"broccoli", "spinach", "carrot", "pepper", "onion", "tomato",
		"cucumber", "zucchini", "eggplant", "mushroom", "cauliflower", "kale",
		"arugula", "lettuce", "cabbage", "celery", "garlic", "ginger", "corn",
		"asparagus", "vegetable",
	},
	"Fruits": {
		"apple", "banana", "orange", "berry", "berries", "strawberr",
		"blueberr", "avocado", "lemon", "lime", "mango", "grape", "melon",
		"peach", "pear", "fruit",
	},
	"Legumes": {
		"bean", "lentil", "chickpea", "tofu", "edamame", "tempeh", "pea",
	},
	"Oils & Condiments": {
		"oil", "vinegar", "sauce", "honey", "syrup", "mayonnaise", "mustard",
		"ketchup", "dressing", "tahini",
	},
	"Spices": {
		"salt", "cumin", "paprika", "oregano", "basil", "thyme", "cinnamon",
		"turmeric", "chili", "curry", "spice", "herb", "cilantro", "parsley",
		"rosemary", "black pepper",
	},
	"Nuts & Seeds": {
		"almond", "walnut", "cashew", "peanut", "pecan", "pistachio", "seed",
		"chia", "nut",
	},
}

// Build 把整份計畫的食材按 (名稱, 單位) 合併、分類，
// 並把數量向上取整到購物增量。只往上取整，買少才是要避免的失敗。
func Build(days []nutrition.CompiledDay) []nutrition.GroceryCategory {
	type key struct {
		name string
		unit string
	}
	merged := make(map[key]float64)
	displayName := make(map[key]string)

	for _, day := range days {
		for _, meal := range day.Meals {
			for _, ing := range meal.Ingredients {
				if ing.Amount <= 0 {
					continue
				}
				k := key{name: strings.ToLower(strings.TrimSpace(ing.Name)), unit: ing.Unit}
				merged[k] += ing.Amount
				if _, ok := displayName[k]; !ok {
					displayName[k] = strings.TrimSpace(ing.Name)
				}
			}
		}
	}

	byCategory := make(map[string][]nutrition.GroceryItem)
	for k, amount := range merged {
		item := nutrition.GroceryItem{
			Name:   displayName[k],
			Amount: roundUp(amount, k.unit),
			Unit:   k.unit,
		}
		category := categorize(k.name)
		byCategory[category] = append(byCategory[category], item)
	}

	var out []nutrition.GroceryCategory
	for _, category := range categoryOrder {
		items, ok := byCategory[category]
		if !ok {
			continue
		}
		sort.Slice(items, func(i, j int) bool {
			return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		})
		out = append(out, nutrition.GroceryCategory{Category: category, Items: items})
	}
	return out
}

// categorize 依關鍵字把食材歸入購物分類
func categorize(name string) string {
	for _, category := range categoryOrder {
		for _, kw := range categoryKeywords[category] {
			if strings.Contains(name, kw) {
				return category
			}
		}
	}
	return "Other"
}

// roundUp 向上取整到該單位的購物增量
func roundUp(amount float64, unit string) float64 {
	return ceilToIncrement(amount, incrementFor(amount, unit))
}

// incrementFor 各單位的購物增量
func incrementFor(amount float64, unit string) float64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g", "ml":
		switch {
		case amount > 500:
			return 50
		case amount > 100:
			return 25
		default:
			return 10
		}
	case "kg", "l":
		return 0.1
	case "cup", "cups":
		return 0.25
	case "tbsp", "tbs", "tsp":
		return 0.5
	default:
		if units.IsCountUnit(unit) {
			return 1
		}
		return 1
	}
}

// ceilToIncrement 十進位運算取天花板，避免浮點尾差把結果往下推
func ceilToIncrement(amount, increment float64) float64 {
	if increment <= 0 {
		return amount
	}
	a := decimal.NewFromFloat(amount)
	inc := decimal.NewFromFloat(increment)
	rounded, _ := a.Div(inc).Ceil().Mul(inc).Float64()
	return rounded
}

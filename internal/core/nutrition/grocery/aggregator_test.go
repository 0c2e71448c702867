package grocery

import (
	"testing"

	"meal-compiler/internal/core/nutrition"
)

func dayWith(ingredients ...nutrition.ResolvedIngredient) nutrition.CompiledDay {
	return nutrition.CompiledDay{
		Meals: []nutrition.CompiledMeal{{Ingredients: ingredients}},
	}
}

func findItem(t *testing.T, categories []nutrition.GroceryCategory, category, name string) nutrition.GroceryItem {
	t.Helper()
	for _, c := range categories {
		if c.Category != category {
			continue
		}
		for _, item := range c.Items {
			if item.Name == name {
				return item
			}
		}
	}
	t.Fatalf("item %q not found in category %q: %+v", name, category, categories)
	return nutrition.GroceryItem{}
}

func TestBuildMergesByNameAndUnit(t *testing.T) {
	days := []nutrition.CompiledDay{
		dayWith(nutrition.ResolvedIngredient{Name: "Chicken Breast", Amount: 300, Unit: "g"}),
		dayWith(nutrition.ResolvedIngredient{Name: "chicken breast", Amount: 240, Unit: "g"}),
	}

	got := Build(days)
	item := findItem(t, got, "Meat & Seafood", "Chicken Breast")
	// 540 g → 增量 50 → 550
	if item.Amount != 550 {
		t.Errorf("Amount = %v, want 550", item.Amount)
	}
}

func TestBuildKeepsDistinctUnitsSeparate(t *testing.T) {
	days := []nutrition.CompiledDay{
		dayWith(
			nutrition.ResolvedIngredient{Name: "milk", Amount: 200, Unit: "ml"},
			nutrition.ResolvedIngredient{Name: "milk", Amount: 1.1, Unit: "cup"},
		),
	}

	got := Build(days)
	if ml := findItem(t, got, "Dairy & Eggs", "milk"); ml.Amount != 200 && ml.Amount != 1.25 {
		t.Errorf("unexpected amount %v", ml.Amount)
	}

	var count int
	for _, c := range got {
		if c.Category == "Dairy & Eggs" {
			count = len(c.Items)
		}
	}
	if count != 2 {
		t.Errorf("dairy items = %d, want 2 (units must not merge)", count)
	}
}

func TestBuildRoundsUpNeverDown(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		unit   string
		want   float64
	}{
		{"small grams to 10", 33, "g", 40},
		{"exact boundary stays", 100, "g", 100},
		{"mid grams to 25", 101, "g", 125},
		{"large grams to 50", 540, "g", 550},
		{"kilograms to 0.1", 1.01, "kg", 1.1},
		{"cups to quarter", 1.1, "cup", 1.25},
		{"tsp to half", 0.3, "tsp", 0.5},
		{"count to whole", 2.2, "eggs", 3},
		{"unknown unit to whole", 0.4, "bunch", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := []nutrition.CompiledDay{
				dayWith(nutrition.ResolvedIngredient{Name: "test item", Amount: tt.amount, Unit: tt.unit}),
			}
			got := Build(days)
			item := findItem(t, got, "Other", "test item")
			if item.Amount != tt.want {
				t.Errorf("roundUp(%v %s) = %v, want %v", tt.amount, tt.unit, item.Amount, tt.want)
			}
			if item.Amount < tt.amount {
				t.Errorf("rounded below the required amount")
			}
		})
	}
}

func TestBuildSkipsNonPositiveAmounts(t *testing.T) {
	days := []nutrition.CompiledDay{
		dayWith(
			nutrition.ResolvedIngredient{Name: "ghost", Amount: 0, Unit: "g"},
			nutrition.ResolvedIngredient{Name: "apple", Amount: 150, Unit: "g"},
		),
	}
	got := Build(days)
	for _, c := range got {
		for _, item := range c.Items {
			if item.Name == "ghost" {
				t.Error("zero-amount ingredient leaked into grocery list")
			}
		}
	}
	findItem(t, got, "Fruits", "apple")
}

func TestBuildCategorization(t *testing.T) {
	tests := []struct {
		ingredient string
		category   string
	}{
		{"salmon fillet", "Meat & Seafood"},
		{"greek yogurt", "Dairy & Eggs"},
		{"brown rice", "Grains & Bread"},
		{"baby spinach", "Produce"},
		{"blueberries", "Fruits"},
		{"chickpeas", "Legumes"},
		{"olive oil", "Oils & Condiments"},
		{"smoked paprika", "Spices"},
		{"chia seeds", "Nuts & Seeds"},
		{"mystery powder", "Other"},
	}
	var ingredients []nutrition.ResolvedIngredient
	for _, tt := range tests {
		ingredients = append(ingredients, nutrition.ResolvedIngredient{Name: tt.ingredient, Amount: 100, Unit: "g"})
	}

	got := Build([]nutrition.CompiledDay{dayWith(ingredients...)})
	for _, tt := range tests {
		findItem(t, got, tt.category, tt.ingredient)
	}
}

func TestBuildCategoryOrderAndItemSort(t *testing.T) {
	days := []nutrition.CompiledDay{
		dayWith(
			nutrition.ResolvedIngredient{Name: "zucchini", Amount: 100, Unit: "g"},
			nutrition.ResolvedIngredient{Name: "broccoli", Amount: 100, Unit: "g"},
			nutrition.ResolvedIngredient{Name: "chicken breast", Amount: 100, Unit: "g"},
		),
	}

	got := Build(days)
	if len(got) != 2 {
		t.Fatalf("categories = %d, want 2", len(got))
	}
	// 固定分類順序：肉品在蔬果之前
	if got[0].Category != "Meat & Seafood" || got[1].Category != "Produce" {
		t.Errorf("category order = %q, %q", got[0].Category, got[1].Category)
	}
	// 分類內按名稱排序
	if got[1].Items[0].Name != "broccoli" || got[1].Items[1].Name != "zucchini" {
		t.Errorf("item order = %q, %q", got[1].Items[0].Name, got[1].Items[1].Name)
	}
}

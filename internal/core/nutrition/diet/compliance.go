package diet

import (
	"strings"
)

// Style 飲食風格
type Style string

const (
	StyleNone        Style = "none"
	StyleVegetarian  Style = "vegetarian"
	StyleVegan       Style = "vegan"
	StylePescatarian Style = "pescatarian"
	StyleHalal       Style = "halal"
	StyleKosher      Style = "kosher"
)

// Constraints 客戶端的飲食限制
type Constraints struct {
	Allergies    []string `json:"allergies"`
	DietaryStyle Style    `json:"dietary_style"`
}

// Checker 飲食合規檢查器。解析器在候選紀錄進入守門前先過這一關。
type Checker interface {
	IsCompliant(foodName string, c Constraints) bool
}

// 過敏原 → 食物名稱關鍵字
var allergenKeywords = map[string][]string{
	"peanut":    {"peanut"},
	"peanuts":   {"peanut"},
	"tree nut":  {"almond", "cashew", "walnut", "pecan", "pistachio", "hazelnut", "macadamia"},
	"tree nuts": {"almond", "cashew", "walnut", "pecan", "pistachio", "hazelnut", "macadamia"},
	"dairy":     {"milk", "cheese", "butter", "cream", "yogurt", "yoghurt", "whey", "casein"},
	"lactose":   {"milk", "cheese", "cream", "yogurt", "yoghurt"},
	"gluten":    {"wheat", "bread", "pasta", "flour", "barley", "rye", "couscous", "seitan"},
	"wheat":     {"wheat", "bread", "pasta", "flour", "couscous"},
	"egg":       {"egg"},
	"eggs":      {"egg"},
	"soy":       {"soy", "tofu", "edamame", "tempeh", "miso"},
	"fish":      {"salmon", "tuna", "cod", "tilapia", "trout", "sardine", "anchovy", "mackerel", "fish"},
	"shellfish": {"shrimp", "prawn", "crab", "lobster", "clam", "mussel", "oyster", "scallop"},
	"sesame":    {"sesame", "tahini"},
}

var (
	meatKeywords = []string{
		"chicken", "beef", "pork", "lamb", "turkey", "duck", "bacon", "ham",
		"sausage", "veal", "venison", "meat",
	}
	fishKeywords = []string{
		"salmon", "tuna", "cod", "tilapia", "trout", "sardine", "anchovy",
		"mackerel", "shrimp", "prawn", "crab", "lobster", "fish",
	}
	animalProductKeywords = []string{
		"egg", "milk", "cheese", "butter", "cream", "yogurt", "yoghurt",
		"honey", "whey", "gelatin",
	}
	porkKeywords = []string{"pork", "bacon", "ham", "lard", "prosciutto", "chorizo"}
)

// KeywordChecker 以關鍵字比對實作的合規檢查器
type KeywordChecker struct{}

// NewKeywordChecker 創建關鍵字合規檢查器
func NewKeywordChecker() *KeywordChecker {
	return &KeywordChecker{}
}

// IsCompliant 檢查食物是否符合過敏與飲食風格限制
func (k *KeywordChecker) IsCompliant(foodName string, c Constraints) bool {
	name := strings.ToLower(foodName)

	// 過敏原檢查
	for _, allergy := range c.Allergies {
		keywords, ok := allergenKeywords[strings.ToLower(strings.TrimSpace(allergy))]
		if !ok {
			// 未知過敏原：直接拿字串本身比對
			keywords = []string{strings.ToLower(strings.TrimSpace(allergy))}
		}
		if containsAny(name, keywords) {
			return false
		}
	}

	// 飲食風格檢查
	switch c.DietaryStyle {
	case StyleVegan:
		if containsAny(name, meatKeywords) || containsAny(name, fishKeywords) || containsAny(name, animalProductKeywords) {
			return false
		}
	case StyleVegetarian:
		if containsAny(name, meatKeywords) || containsAny(name, fishKeywords) {
			return false
		}
	case StylePescatarian:
		if containsAny(name, meatKeywords) {
			return false
		}
	case StyleHalal, StyleKosher:
		if containsAny(name, porkKeywords) {
			return false
		}
	}

	return true
}

func containsAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

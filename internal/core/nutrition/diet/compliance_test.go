package diet

import "testing"

func TestKeywordCheckerAllergies(t *testing.T) {
	checker := NewKeywordChecker()
	tests := []struct {
		name      string
		food      string
		allergies []string
		want      bool
	}{
		{"peanut allergy blocks peanut butter", "peanut butter", []string{"peanut"}, false},
		{"tree nut allergy blocks almonds", "almond flour", []string{"tree nuts"}, false},
		{"dairy allergy blocks cheese", "cheddar cheese", []string{"dairy"}, false},
		{"gluten allergy blocks bread", "whole wheat bread", []string{"gluten"}, false},
		{"shellfish allergy blocks shrimp", "shrimp raw", []string{"shellfish"}, false},
		{"allergy spelling is case-insensitive", "Peanut Sauce", []string{" Peanut "}, false},
		{"unknown allergen matched literally", "cilantro raw", []string{"cilantro"}, false},
		{"unrelated food passes", "white rice cooked", []string{"peanut", "dairy"}, true},
		{"no allergies", "peanut butter", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsCompliant(tt.food, Constraints{Allergies: tt.allergies})
			if got != tt.want {
				t.Errorf("IsCompliant(%q, %v) = %v, want %v", tt.food, tt.allergies, got, tt.want)
			}
		})
	}
}

func TestKeywordCheckerDietaryStyles(t *testing.T) {
	checker := NewKeywordChecker()
	tests := []struct {
		name  string
		food  string
		style Style
		want  bool
	}{
		{"vegan blocks meat", "chicken breast skinless raw", StyleVegan, false},
		{"vegan blocks fish", "salmon fillet", StyleVegan, false},
		{"vegan blocks animal products", "greek yogurt plain", StyleVegan, false},
		{"vegan blocks honey", "raw honey", StyleVegan, false},
		{"vegan allows legumes", "chickpeas cooked", StyleVegan, true},
		{"vegetarian blocks fish", "tuna canned", StyleVegetarian, false},
		{"vegetarian allows eggs", "egg whole raw", StyleVegetarian, true},
		{"pescatarian allows fish", "cod baked", StylePescatarian, true},
		{"pescatarian blocks meat", "beef ground 85 lean raw", StylePescatarian, false},
		{"halal blocks pork", "bacon raw", StyleHalal, false},
		{"halal allows chicken", "chicken breast skinless raw", StyleHalal, true},
		{"kosher blocks ham", "ham sliced", StyleKosher, false},
		{"none allows everything", "pork chop", StyleNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsCompliant(tt.food, Constraints{DietaryStyle: tt.style})
			if got != tt.want {
				t.Errorf("IsCompliant(%q, %v) = %v, want %v", tt.food, tt.style, got, tt.want)
			}
		})
	}
}

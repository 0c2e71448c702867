package local

// seedFood 每 100 g 的營養值。FiberG 用 -1 表示缺值。
type seedFood struct {
	Name     string
	Kcal     float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
	FiberG   float64
}

// 常見基礎食材的種子資料，來源為公開食品成分表的整數化數值。
var seedFoods = []seedFood{
	// 肉類 / 海鮮
	{"chicken breast skinless raw", 165, 31, 0, 3.6, 0},
	{"chicken thigh skinless raw", 121, 19.7, 0, 4.1, 0},
	{"beef ground 85 lean raw", 215, 18.6, 0, 15, 0},
	{"beef sirloin steak raw", 201, 19.2, 0, 13.2, 0},
	{"pork loin raw", 143, 21.4, 0, 5.7, 0},
	{"turkey breast raw", 114, 23.7, 0, 1.5, 0},
	{"salmon fillet raw", 208, 20.4, 0, 13.4, 0},
	{"tuna canned in water", 116, 25.5, 0, 0.8, 0},
	{"cod fillet raw", 82, 17.8, 0, 0.7, 0},
	{"shrimp raw", 85, 20.1, 0, 0.5, 0},
	{"bacon raw", 417, 12.6, 1.3, 39.7, 0},
	// 蛋 / 乳製品
	{"egg whole raw", 143, 12.6, 0.7, 9.5, 0},
	{"egg white raw", 52, 10.9, 0.7, 0.2, 0},
	{"greek yogurt plain", 59, 10.2, 3.6, 0.4, 0},
	{"milk whole", 61, 3.2, 4.8, 3.3, 0},
	{"milk skim", 34, 3.4, 5, 0.1, 0},
	{"cheddar cheese", 403, 24.9, 1.3, 33.1, 0},
	{"mozzarella cheese", 280, 27.5, 3.1, 17.1, 0},
	{"cottage cheese low fat", 72, 12.4, 2.7, 1, 0},
	{"butter", 717, 0.9, 0.1, 81.1, 0},
	// 穀物 / 麵包
	{"white rice cooked", 130, 2.7, 28.2, 0.3, 0.4},
	{"brown rice cooked", 112, 2.3, 23.5, 0.8, 1.8},
	{"white rice dry", 365, 7.1, 80, 0.7, 1.3},
	{"pasta cooked", 158, 5.8, 30.9, 0.9, 1.8},
	{"pasta dry", 371, 13, 74.7, 1.5, 3.2},
	{"rolled oats dry", 389, 16.9, 66.3, 6.9, 10.6},
	{"quinoa cooked", 120, 4.4, 21.3, 1.9, 2.8},
	{"bread whole wheat", 247, 13, 41.3, 3.4, 7},
	{"bread white", 265, 9, 49, 3.2, 2.7},
	{"tortilla flour", 304, 8.2, 50.4, 7.7, 3.5},
	{"potato raw", 77, 2, 17.5, 0.1, 2.1},
	{"sweet potato raw", 86, 1.6, 20.1, 0.1, 3},
	// 蔬菜
	{"broccoli raw", 34, 2.8, 6.6, 0.4, 2.6},
	{"spinach raw", 23, 2.9, 3.6, 0.4, 2.2},
	{"carrot raw", 41, 0.9, 9.6, 0.2, 2.8},
	{"bell pepper raw", 31, 1, 6, 0.3, 2.1},
	{"onion raw", 40, 1.1, 9.3, 0.1, 1.7},
	{"green onion raw", 32, 1.8, 7.3, 0.2, 2.6},
	{"tomato raw", 18, 0.9, 3.9, 0.2, 1.2},
	{"cucumber raw", 15, 0.7, 3.6, 0.1, 0.5},
	{"zucchini raw", 17, 1.2, 3.1, 0.3, 1},
	{"eggplant raw", 25, 1, 5.9, 0.2, 3},
	{"mushroom raw", 22, 3.1, 3.3, 0.3, 1},
	{"cauliflower raw", 25, 1.9, 5, 0.3, 2},
	{"kale raw", 49, 4.3, 8.8, 0.9, 3.6},
	{"arugula raw", 25, 2.6, 3.7, 0.7, 1.6},
	{"cilantro raw", 23, 2.1, 3.7, 0.5, 2.8},
	{"garlic raw", 149, 6.4, 33.1, 0.5, 2.1},
	{"corn kernels cooked", 96, 3.4, 21, 1.5, 2.4},
	// 水果
	{"apple raw", 52, 0.3, 13.8, 0.2, 2.4},
	{"banana raw", 89, 1.1, 22.8, 0.3, 2.6},
	{"orange raw", 47, 0.9, 11.8, 0.1, 2.4},
	{"blueberries raw", 57, 0.7, 14.5, 0.3, 2.4},
	{"strawberries raw", 32, 0.7, 7.7, 0.3, 2},
	{"avocado raw", 160, 2, 8.5, 14.7, 6.7},
	{"lemon raw", 29, 1.1, 9.3, 0.3, 2.8},
	// 豆類
	{"chickpeas cooked", 164, 8.9, 27.4, 2.6, 7.6},
	{"black beans cooked", 132, 8.9, 23.7, 0.5, 8.7},
	{"lentils cooked", 116, 9, 20.1, 0.4, 7.9},
	{"tofu firm", 76, 8.1, 1.9, 4.8, 0.3},
	{"edamame cooked", 121, 11.9, 8.9, 5.2, 5.2},
	// 油脂 / 調味
	{"olive oil", 884, 0, 0, 100, 0},
	{"coconut oil", 862, 0, 0, 100, 0},
	{"soy sauce", 53, 8.1, 4.9, 0.6, 0.8},
	{"honey", 304, 0.3, 82.4, 0, 0.2},
	{"maple syrup", 260, 0, 67, 0.1, 0},
	{"peanut butter", 588, 25.1, 19.6, 50, 6},
	{"mayonnaise", 680, 1, 0.6, 74.9, 0},
	// 堅果 / 種子
	{"almonds raw", 579, 21.2, 21.6, 49.9, 12.5},
	{"walnuts raw", 654, 15.2, 13.7, 65.2, 6.7},
	{"cashews raw", 553, 18.2, 30.2, 43.9, 3.3},
	{"chia seeds", 486, 16.5, 42.1, 30.7, 34.4},
	{"sunflower seeds", 584, 20.8, 20, 51.5, 8.6},
}

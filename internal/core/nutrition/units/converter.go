package units

import (
	"strings"
)

type unitKind string

const (
	unitKindMass   unitKind = "mass"
	unitKindVolume unitKind = "volume"
	unitKindCount  unitKind = "count"
)

type unitDef struct {
	kind   unitKind
	toBase float64 // mass → g、volume → ml、count → 每件約略克數
}

// 單位表。質量以克為基底，體積以毫升為基底再乘密度，
// 件數單位用約略克數（1 piece ≈ 50 g）。
var unitTable = map[string]unitDef{
	// 質量（基底 = g）
	"mg":     {kind: unitKindMass, toBase: 0.001},
	"g":      {kind: unitKindMass, toBase: 1},
	"gram":   {kind: unitKindMass, toBase: 1},
	"grams":  {kind: unitKindMass, toBase: 1},
	"kg":     {kind: unitKindMass, toBase: 1000},
	"oz":     {kind: unitKindMass, toBase: 28.35},
	"ounce":  {kind: unitKindMass, toBase: 28.35},
	"ounces": {kind: unitKindMass, toBase: 28.35},
	"lb":     {kind: unitKindMass, toBase: 453.6},
	"lbs":    {kind: unitKindMass, toBase: 453.6},
	"pound":  {kind: unitKindMass, toBase: 453.6},

	// 體積（基底 = ml）
	"ml":     {kind: unitKindVolume, toBase: 1},
	"l":      {kind: unitKindVolume, toBase: 1000},
	"liter":  {kind: unitKindVolume, toBase: 1000},
	"cup":    {kind: unitKindVolume, toBase: 240},
	"cups":   {kind: unitKindVolume, toBase: 240},
	"tbsp":   {kind: unitKindVolume, toBase: 15},
	"tbs":    {kind: unitKindVolume, toBase: 15},
	"tsp":    {kind: unitKindVolume, toBase: 5},
	"fl oz":  {kind: unitKindVolume, toBase: 30},
	"fl-oz":  {kind: unitKindVolume, toBase: 30},

	// 件數（基底 = 每件克數）
	"piece":   {kind: unitKindCount, toBase: 50},
	"pieces":  {kind: unitKindCount, toBase: 50},
	"pc":      {kind: unitKindCount, toBase: 50},
	"slice":   {kind: unitKindCount, toBase: 30},
	"slices":  {kind: unitKindCount, toBase: 30},
	"clove":   {kind: unitKindCount, toBase: 5},
	"cloves":  {kind: unitKindCount, toBase: 5},
	"egg":     {kind: unitKindCount, toBase: 50},
	"eggs":    {kind: unitKindCount, toBase: 50},
	"medium":  {kind: unitKindCount, toBase: 120},
	"large":   {kind: unitKindCount, toBase: 150},
	"small":   {kind: unitKindCount, toBase: 90},
	"serving": {kind: unitKindCount, toBase: 100},
	"scoop":   {kind: unitKindCount, toBase: 30},
	"can":     {kind: unitKindCount, toBase: 400},
	"fillet":  {kind: unitKindCount, toBase: 150},
	"handful": {kind: unitKindCount, toBase: 30},
	"pinch":   {kind: unitKindCount, toBase: 1},
	"dash":    {kind: unitKindCount, toBase: 1},
}

// 體積轉質量用的密度表（g/ml），依食材名稱關鍵字比對
var densityTable = []struct {
	keyword string
	gPerML  float64
}{
	{"oil", 0.92},
	{"butter", 0.91},
	{"ghee", 0.91},
	{"syrup", 1.42},
	{"honey", 1.42},
	{"molasses", 1.42},
	{"milk", 1.03},
	{"yogurt", 1.03},
	{"yoghurt", 1.03},
	{"cream", 1.01},
	{"juice", 1.04},
	{"broth", 1.0},
	{"stock", 1.0},
	{"water", 1.0},
}

const defaultDensity = 1.0

// 未知單位的保守回退：quantity * 100 g。
// 這不是在猜密度，而是刻意選一個不會過度離譜的固定值。
const unknownUnitGrams = 100

// DensityFor 依食材名稱關鍵字回傳密度（g/ml），查無時回傳 1.0
func DensityFor(foodName string) float64 {
	name := strings.ToLower(foodName)
	for _, d := range densityTable {
		if strings.Contains(name, d.keyword) {
			return d.gPerML
		}
	}
	return defaultDensity
}

// ToGrams 把 (數量, 單位) 轉成克。體積單位會透過密度表轉質量；
// 回傳值 volumeDerived 表示結果經過體積換算（守門門檻會放寬）。
func ToGrams(quantity float64, unitToken, foodName string) (grams float64, volumeDerived bool) {
	token := strings.ToLower(strings.TrimSpace(unitToken))
	def, ok := unitTable[token]
	if !ok {
		return quantity * unknownUnitGrams, false
	}
	switch def.kind {
	case unitKindVolume:
		return quantity * def.toBase * DensityFor(foodName), true
	default:
		return quantity * def.toBase, false
	}
}

// IsCountUnit 判斷是否為件數單位（購物清單取整到整數用）
func IsCountUnit(unitToken string) bool {
	def, ok := unitTable[strings.ToLower(strings.TrimSpace(unitToken))]
	return ok && def.kind == unitKindCount
}

// IsVolumeUnit 判斷是否為體積單位
func IsVolumeUnit(unitToken string) bool {
	def, ok := unitTable[strings.ToLower(strings.TrimSpace(unitToken))]
	return ok && def.kind == unitKindVolume
}

// IsKnownUnit 判斷單位是否在轉換表內
func IsKnownUnit(unitToken string) bool {
	_, ok := unitTable[strings.ToLower(strings.TrimSpace(unitToken))]
	return ok
}

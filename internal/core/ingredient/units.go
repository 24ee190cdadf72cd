package ingredient

import (
	"strings"

	"nutrition-estimator/internal/pkg/common"

	"go.uber.org/zap"
)

// unitKind 單位類別：重量或容積
type unitKind int

const (
	kindWeight unitKind = iota
	kindVolume
)

// unitInfo 單位的克當量與類別
// 容積單位的克當量以水的密度為基準，換算時再套用食材密度係數
type unitInfo struct {
	grams float64
	kind  unitKind
}

// unitTable 固定的單位同義詞表
var unitTable = map[string]unitInfo{
	"g":     {1, kindWeight},
	"gram":  {1, kindWeight},
	"grams": {1, kindWeight},

	"kg":        {1000, kindWeight},
	"kilogram":  {1000, kindWeight},
	"kilograms": {1000, kindWeight},

	"oz":     {28.35, kindWeight},
	"ounce":  {28.35, kindWeight},
	"ounces": {28.35, kindWeight},

	"lb":     {453.59, kindWeight},
	"lbs":    {453.59, kindWeight},
	"pound":  {453.59, kindWeight},
	"pounds": {453.59, kindWeight},

	"c":    {240, kindVolume},
	"cup":  {240, kindVolume},
	"cups": {240, kindVolume},

	"tbsp":        {15, kindVolume},
	"tablespoon":  {15, kindVolume},
	"tablespoons": {15, kindVolume},

	"tsp":       {5, kindVolume},
	"teaspoon":  {5, kindVolume},
	"teaspoons": {5, kindVolume},

	"ml":          {1, kindVolume},
	"milliliter":  {1, kindVolume},
	"milliliters": {1, kindVolume},

	"l":      {1000, kindVolume},
	"liter":  {1000, kindVolume},
	"liters": {1000, kindVolume},
}

// pieceWeight 無單位食材的單個重量，依名稱子字串匹配
type pieceWeight struct {
	substr string
	grams  float64
}

var pieceWeights = []pieceWeight{
	{"egg", 50},
	{"apple", 150},
	{"orange", 150},
	{"banana", 120},
	{"avocado", 150},
	{"cucumber", 300},
	{"garlic", 3},
	{"lemon", 100},
	{"lime", 100},
}

// densityRule 容積換算的食材密度修正
// 只對可描述的液體與葉菜類套用，其他以容積計量的固體維持水基準換算
type densityRule struct {
	substrs []string
	factor  float64
}

var densityRules = []densityRule{
	{[]string{"oil"}, 0.92},
	{[]string{"honey", "syrup"}, 1.42},
	{[]string{"milk", "cream", "yogurt"}, 1.03},
	{[]string{"spinach", "lettuce", "greens"}, 0.125}, // 1 cup 葉菜約 30 克
	{[]string{"mushroom", "onion"}, 0.625},            // 切碎後 1 cup 約 150 克
}

// IsUnit 檢查 token 是否為已知單位（不分大小寫）
func IsUnit(token string) bool {
	_, ok := unitTable[strings.ToLower(token)]
	return ok
}

// QuantityToGrams 將（數量, 單位, 名稱）換算為克
func QuantityToGrams(quantity float64, unit, name string) float64 {
	nameLower := strings.ToLower(name)

	info, ok := unitTable[strings.ToLower(unit)]
	if !ok {
		// 個數計量或未知單位：先查無單位重量表
		for _, pw := range pieceWeights {
			if strings.Contains(nameLower, pw.substr) {
				return quantity * pw.grams
			}
		}
		// 明確回退：數值直接視為克，而非靜默歸零
		common.LogDebug("無單位重量未命中，數量視為克",
			zap.String("name", name),
			zap.Float64("quantity", quantity),
		)
		return quantity
	}

	grams := quantity * info.grams
	if info.kind == kindVolume {
		grams *= densityFactor(nameLower)
	}

	common.LogDebug("單位換算完成",
		zap.String("unit", unit),
		zap.String("name", name),
		zap.Float64("quantity", quantity),
		zap.Float64("grams", grams),
	)

	return grams
}

// densityFactor 依名稱子字串查詢密度係數，無匹配時回傳 1（水基準）
func densityFactor(nameLower string) float64 {
	for _, rule := range densityRules {
		for _, substr := range rule.substrs {
			if strings.Contains(nameLower, substr) {
				return rule.factor
			}
		}
	}
	return 1
}

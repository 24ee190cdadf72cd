package nutrition

import (
	"strings"

	"nutrition-estimator/internal/pkg/common"
)

// 回退估算的數量收斂範圍，避免極端數量造成失真的估算值
const (
	fallbackMinQuantity = 0.5
	fallbackMaxQuantity = 5
)

// fallbackCategory 回退估算類別：依名稱子字串匹配的每單位營養基準
type fallbackCategory struct {
	name    string
	substrs []string
	perUnit common.NutritionalInfo
}

// fallbackTable 有序的回退類別表，先命中者優先
var fallbackTable = []fallbackCategory{
	{
		name:    "leafy greens",
		substrs: []string{"spinach", "lettuce", "greens", "kale", "arugula"},
		perUnit: common.NutritionalInfo{Calories: 10, Protein: 1, Fat: 0, Carbs: 2},
	},
	{
		name:    "meat",
		substrs: []string{"chicken", "beef", "pork", "turkey", "fish", "salmon", "tuna"},
		perUnit: common.NutritionalInfo{Calories: 200, Protein: 25, Fat: 10, Carbs: 0},
	},
	{
		name:    "oil",
		substrs: []string{"oil", "butter"},
		perUnit: common.NutritionalInfo{Calories: 120, Protein: 0, Fat: 14, Carbs: 0},
	},
	{
		name:    "egg",
		substrs: []string{"egg"},
		perUnit: common.NutritionalInfo{Calories: 70, Protein: 6, Fat: 5, Carbs: 1},
	},
	{
		name:    "cheese",
		substrs: []string{"cheese"},
		perUnit: common.NutritionalInfo{Calories: 110, Protein: 7, Fat: 9, Carbs: 1},
	},
	{
		name:    "avocado",
		substrs: []string{"avocado"},
		perUnit: common.NutritionalInfo{Calories: 160, Protein: 2, Fat: 15, Carbs: 9},
	},
}

// fallbackDefault 無類別命中時的通用基準
var fallbackDefault = common.NutritionalInfo{Calories: 50, Protein: 2, Fat: 2, Carbs: 5}

// estimateFallback 手工基準的回退估算
// 數量先收斂到 [0.5, 5] 再縮放
func estimateFallback(ing common.ParsedIngredient) common.NutritionalInfo {
	quantity := ing.Quantity
	if quantity < fallbackMinQuantity {
		quantity = fallbackMinQuantity
	}
	if quantity > fallbackMaxQuantity {
		quantity = fallbackMaxQuantity
	}

	nameLower := strings.ToLower(ing.Name)
	for _, cat := range fallbackTable {
		for _, substr := range cat.substrs {
			if strings.Contains(nameLower, substr) {
				return cat.perUnit.Scale(quantity)
			}
		}
	}

	return fallbackDefault.Scale(quantity)
}

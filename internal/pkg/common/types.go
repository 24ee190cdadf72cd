package common

import (
	"fmt"
	"strings"
)

// Confidence 營養估算的信心等級
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Source 營養數據來源
type Source string

const (
	SourceDatabase Source = "database"
	SourceFallback Source = "fallback"
)

// 單位哨兵值
const (
	// UnitCount 以「個數」計量的食材（例如 2 eggs）
	UnitCount = "unit"
	// UnitToTaste 「適量」食材，數量強制為 0
	UnitToTaste = "to taste"
)

// ParsedIngredient 解析後的食材
// 每行食材文字解析一次，之後不再修改
type ParsedIngredient struct {
	Quantity     float64 `json:"quantity"`        // 數量，恆 >= 0
	Unit         string  `json:"unit"`            // 單位表鍵值或哨兵值
	Name         string  `json:"ingredient_name"` // 正規化後的食材名稱（小寫、已去除修飾詞）
	OriginalText string  `json:"original_text"`   // 原始輸入文字
}

// NutritionalInfo 巨量營養素，皆為份量絕對值（非每 100 克）
type NutritionalInfo struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// Add 回傳兩份營養資訊的總和
func (n NutritionalInfo) Add(o NutritionalInfo) NutritionalInfo {
	return NutritionalInfo{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Fat:      n.Fat + o.Fat,
		Carbs:    n.Carbs + o.Carbs,
	}
}

// Scale 依係數縮放營養資訊
func (n NutritionalInfo) Scale(factor float64) NutritionalInfo {
	return NutritionalInfo{
		Calories: n.Calories * factor,
		Protein:  n.Protein * factor,
		Fat:      n.Fat * factor,
		Carbs:    n.Carbs * factor,
	}
}

// IngredientNutrition 單一食材的營養估算結果
type IngredientNutrition struct {
	Ingredient ParsedIngredient `json:"ingredient"`
	Nutrition  NutritionalInfo  `json:"nutrition"`
	Confidence Confidence       `json:"confidence"`
	Source     Source           `json:"source"`
}

// MealNutrition 一餐的營養估算結果
type MealNutrition struct {
	Total       NutritionalInfo       `json:"total"`
	Ingredients []IngredientNutrition `json:"ingredients"`
	Confidence  Confidence            `json:"confidence"`
}

// Meal 一餐的輸入：名稱與食材行列表
type Meal struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// MealResult 一餐的計算結果
type MealResult struct {
	Name      string        `json:"name"`
	Nutrition MealNutrition `json:"nutrition"`
}

// FormatIngredientLines 將食材行列表轉換為格式化字串（日誌用）
func FormatIngredientLines(lines []string) string {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("- %s\n", line))
	}
	return sb.String()
}

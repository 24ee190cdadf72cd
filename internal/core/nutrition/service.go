package nutrition

import (
	"context"

	"nutrition-estimator/internal/core/ingredient"
	"nutrition-estimator/internal/infrastructure/config"
	"nutrition-estimator/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 餐級信心門檻：高信心食材比例嚴格大於門檻才升級
const (
	highConfidenceFraction   = 0.7
	mediumConfidenceFraction = 0.4
)

// Service 營養聚合服務
// 串接解析 → 匹配 → 縮放 → 回退 → 加總
type Service struct {
	matcher        Matcher
	batchSize      int
	scoreThreshold float64
}

// NewService 創建營養聚合服務
func NewService(matcher Matcher, cfg *config.NutritionConfig) *Service {
	return &Service{
		matcher:        matcher,
		batchSize:      cfg.BatchSize,
		scoreThreshold: cfg.ScoreThreshold,
	}
}

// IngredientNutrition 計算單一食材行的營養
// 任何匹配失敗都降級為回退估算，不向呼叫端拋出錯誤
func (s *Service) IngredientNutrition(ctx context.Context, line string) common.IngredientNutrition {
	ing := ingredient.Parse(line)

	// 「適量」食材：零營養、低信心，不發外部請求
	if ing.Quantity == 0 {
		return common.IngredientNutrition{
			Ingredient: ing,
			Nutrition:  common.NutritionalInfo{},
			Confidence: common.ConfidenceLow,
			Source:     common.SourceFallback,
		}
	}

	grams := ingredient.QuantityToGrams(ing.Quantity, ing.Unit, ing.Name)

	candidate, err := s.matcher.Match(ctx, ing.Name)
	if err != nil {
		// 傳輸層失敗不中斷聚合，降級為估算
		common.LogWarn("食材匹配失敗，改用回退估算",
			zap.String("name", ing.Name),
			zap.Error(err),
		)
		return s.fallbackNutrition(ing)
	}
	if candidate == nil {
		return s.fallbackNutrition(ing)
	}

	macros := candidate.Macros()
	if macros.Empty() {
		// 匹配成功但完全沒有營養數據，等同無匹配
		return s.fallbackNutrition(ing)
	}

	// 每 100 克含量依實際克數縮放
	factor := grams / 100
	nutrition := common.NutritionalInfo{
		Calories: macroValue(macros.Calories) * factor,
		Protein:  macroValue(macros.Protein) * factor,
		Fat:      macroValue(macros.Fat) * factor,
		Carbs:    macroValue(macros.Carbs) * factor,
	}

	confidence := common.ConfidenceMedium
	if macros.Complete() && candidate.Score > s.scoreThreshold {
		confidence = common.ConfidenceHigh
	}

	common.LogDebug("食材營養計算完成",
		zap.String("name", ing.Name),
		zap.Float64("grams", grams),
		zap.Float64("calories", nutrition.Calories),
		zap.String("confidence", string(confidence)),
	)

	return common.IngredientNutrition{
		Ingredient: ing,
		Nutrition:  nutrition,
		Confidence: confidence,
		Source:     common.SourceDatabase,
	}
}

// fallbackNutrition 回退估算結果，信心恆為低
func (s *Service) fallbackNutrition(ing common.ParsedIngredient) common.IngredientNutrition {
	return common.IngredientNutrition{
		Ingredient: ing,
		Nutrition:  estimateFallback(ing),
		Confidence: common.ConfidenceLow,
		Source:     common.SourceFallback,
	}
}

// MealNutrition 計算一餐食材列表的營養
// 以有界併發查詢（上限 batchSize）重疊網路延遲；
// 結果寫入索引槽位，輸出順序恆等於輸入順序
func (s *Service) MealNutrition(ctx context.Context, lines []string) common.MealNutrition {
	results := make([]common.IngredientNutrition, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchSize)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			results[i] = s.IngredientNutrition(gctx, line)
			return nil
		})
	}
	// 食材級處理不回傳錯誤
	_ = g.Wait()

	var total common.NutritionalInfo
	highCount := 0
	for _, r := range results {
		total = total.Add(r.Nutrition)
		if r.Confidence == common.ConfidenceHigh {
			highCount++
		}
	}

	return common.MealNutrition{
		Total:       total,
		Ingredients: results,
		Confidence:  mealConfidence(highCount, len(results)),
	}
}

// mealConfidence 依高信心食材比例推導餐級信心，門檻為嚴格大於
func mealConfidence(highCount, total int) common.Confidence {
	if total == 0 {
		return common.ConfidenceLow
	}

	fraction := float64(highCount) / float64(total)
	switch {
	case fraction > highConfidenceFraction:
		return common.ConfidenceHigh
	case fraction > mediumConfidenceFraction:
		return common.ConfidenceMedium
	default:
		return common.ConfidenceLow
	}
}

// MealsNutrition 計算多餐的營養
// 各餐併發計算（餐內的有界併發已各自節制對外請求量），
// 輸出順序恆等於輸入順序；沒有食材列表的餐直接回傳全零低信心結果
func (s *Service) MealsNutrition(ctx context.Context, meals []common.Meal) []common.MealResult {
	results := make([]common.MealResult, len(meals))

	g, gctx := errgroup.WithContext(ctx)
	for i, meal := range meals {
		i, meal := i, meal
		if len(meal.Ingredients) == 0 {
			results[i] = common.MealResult{
				Name: meal.Name,
				Nutrition: common.MealNutrition{
					Ingredients: []common.IngredientNutrition{},
					Confidence:  common.ConfidenceLow,
				},
			}
			continue
		}

		g.Go(func() error {
			results[i] = common.MealResult{
				Name:      meal.Name,
				Nutrition: s.MealNutrition(gctx, meal.Ingredients),
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// macroValue nil 視為 0
func macroValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

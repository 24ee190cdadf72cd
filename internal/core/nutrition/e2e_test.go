package nutrition

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nutrition-estimator/internal/core/fdc"
	"nutrition-estimator/internal/core/nutrition/cache"
	"nutrition-estimator/internal/infrastructure/config"
	"nutrition-estimator/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// e2eFood 建構測試資料庫的一列食品
func e2eFood(desc string, score float64, per100 [4]float64) fdc.FoodCandidate {
	return fdc.FoodCandidate{
		FDCID:       1,
		Description: desc,
		Score:       score,
		FoodNutrients: []fdc.FoodNutrient{
			{NutrientID: fdc.NutrientEnergyKcal, NutrientName: "Energy", UnitName: "KCAL", Value: per100[0]},
			{NutrientID: fdc.NutrientProtein, NutrientName: "Protein", UnitName: "G", Value: per100[1]},
			{NutrientID: fdc.NutrientFat, NutrientName: "Total lipid (fat)", UnitName: "G", Value: per100[2]},
			{NutrientID: fdc.NutrientCarbs, NutrientName: "Carbohydrate, by difference", UnitName: "G", Value: per100[3]},
		},
	}
}

// newE2EServer 假的組成資料庫：依查詢字串回固定結果
func newE2EServer(t *testing.T) *httptest.Server {
	database := map[string][]fdc.FoodCandidate{
		"chicken breast": {e2eFood("Chicken, broilers or fryers, breast, meat only, raw", 80, [4]float64{165, 31, 3.6, 0})},
		"mixed greens":   {e2eFood("Lettuce, leaf, green, raw", 60, [4]float64{23, 2.9, 0.4, 3.6})},
		"cucumber":       {e2eFood("Cucumber, with peel, raw", 70, [4]float64{15, 0.65, 0.11, 3.63})},
		"avocado":        {e2eFood("Avocados, raw, all commercial varieties", 90, [4]float64{160, 2, 14.66, 8.53})},
		"olive oil":      {e2eFood("Oil, olive, salad or cooking", 85, [4]float64{884, 0, 100, 0})},
		"lemon juice":    {e2eFood("Lemon juice, raw", 55, [4]float64{22, 0.35, 0.24, 6.9})},
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/foods/search", r.URL.Path)
		query := r.URL.Query().Get("query")

		foods := database[query]
		resp := fdc.SearchResponse{
			TotalHits:   len(foods),
			CurrentPage: 1,
			TotalPages:  1,
			Foods:       foods,
		}
		if foods == nil {
			resp.Foods = []fdc.FoodCandidate{}
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newE2EService(srvURL string) *Service {
	fdcCfg := &config.FDCConfig{
		APIKey:    "test-key",
		BaseURL:   srvURL,
		Timeout:   5 * time.Second,
		PageSize:  25,
		DataTypes: []string{"Foundation", "SR Legacy"},
	}
	client := fdc.NewClient(fdcCfg, fdc.NewThrottle(0))

	manager := cache.NewManager(&config.CacheConfig{
		Enabled:         true,
		Backend:         "memory",
		MaxSize:         100,
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
	})
	matcher := NewFDCMatcher(client, manager)

	return NewService(matcher, &config.NutritionConfig{
		BatchSize:      3,
		ScoreThreshold: 50,
	})
}

func TestMealEstimationEndToEnd(t *testing.T) {
	srv := newE2EServer(t)
	defer srv.Close()

	svc := newE2EService(srv.URL)

	lines := []string{
		"150 g chicken breast",
		"2 cups mixed greens",
		"1/2 cucumber, sliced",
		"1/4 avocado",
		"2 tbsp olive oil",
		"1 tbsp lemon juice",
		"salt and pepper",
	}
	got := svc.MealNutrition(context.Background(), lines)

	require.Len(t, got.Ingredients, 7)

	// 總量（手算）：
	//   雞胸 150g ×1.5、綠葉菜 60g ×0.6、黃瓜 150g ×1.5、酪梨 37.5g ×0.375、
	//   橄欖油 27.6g ×0.276、檸檬汁 15g ×0.15、鹽與胡椒走回退基準 ×1
	assert.InDelta(t, 641.084, got.Total.Calories, 0.01)
	assert.InDelta(t, 52.0175, got.Total.Protein, 0.01)
	assert.InDelta(t, 40.9385, got.Total.Fat, 0.01)
	assert.InDelta(t, 16.83875, got.Total.Carbs, 0.01)

	// 7 項中 6 項高信心（0.857 > 0.7）→ 餐級高信心
	assert.Equal(t, common.ConfidenceHigh, got.Confidence)

	// 順序與來源
	assert.Equal(t, "chicken breast", got.Ingredients[0].Ingredient.Name)
	assert.Equal(t, common.SourceDatabase, got.Ingredients[0].Source)
	assert.Equal(t, common.ConfidenceHigh, got.Ingredients[0].Confidence)

	salt := got.Ingredients[6]
	assert.Equal(t, "salt and pepper", salt.Ingredient.Name)
	assert.Equal(t, common.SourceFallback, salt.Source)
	assert.Equal(t, common.ConfidenceLow, salt.Confidence)
	assert.InDelta(t, 50, salt.Nutrition.Calories, 1e-9)
}

func TestMealEstimationSecondPassServedFromCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		resp := fdc.SearchResponse{
			TotalHits: 1,
			Foods:     []fdc.FoodCandidate{e2eFood("Chicken, breast, raw", 80, [4]float64{165, 31, 3.6, 0})},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	svc := newE2EService(srv.URL)

	first := svc.MealNutrition(context.Background(), []string{"150 g chicken breast"})
	require.Equal(t, 1, calls)

	second := svc.MealNutrition(context.Background(), []string{"150 g chicken breast"})
	assert.Equal(t, 1, calls, "repeat lookup must be served from cache")
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Confidence, second.Confidence)
}

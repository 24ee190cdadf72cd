package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nutrition-estimator/internal/core/fdc"
	corenutrition "nutrition-estimator/internal/core/nutrition"
	"nutrition-estimator/internal/infrastructure/config"
	"nutrition-estimator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMatcher 固定回傳同一候選的匹配器
type stubMatcher struct {
	candidate *fdc.FoodCandidate
}

func (m *stubMatcher) Match(_ context.Context, _ string) (*fdc.FoodCandidate, error) {
	return m.candidate, nil
}

func newTestRouter(matcher corenutrition.Matcher) *gin.Engine {
	gin.SetMode(gin.TestMode)

	service := corenutrition.NewService(matcher, &config.NutritionConfig{
		BatchSize:      3,
		ScoreThreshold: 50,
	})
	handler := NewHandler(service)

	r := gin.New()
	r.POST("/api/v1/nutrition/meal", handler.EstimateMeal)
	r.POST("/api/v1/nutrition/meals", handler.EstimateMeals)
	r.POST("/api/v1/nutrition/parse", handler.ParseIngredients)
	return r
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEstimateMealRejectsMissingIngredients(t *testing.T) {
	router := newTestRouter(&stubMatcher{})

	w := postJSON(t, router, "/api/v1/nutrition/meal", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, common.ErrCodeInvalidRequest, resp.Code)
}

func TestEstimateMealReturnsNutrition(t *testing.T) {
	matcher := &stubMatcher{candidate: &fdc.FoodCandidate{
		Description: "Egg, whole, raw",
		Score:       90,
		FoodNutrients: []fdc.FoodNutrient{
			{NutrientID: fdc.NutrientEnergyKcal, Value: 143},
			{NutrientID: fdc.NutrientProtein, Value: 12.6},
			{NutrientID: fdc.NutrientFat, Value: 9.5},
			{NutrientID: fdc.NutrientCarbs, Value: 0.7},
		},
	}}
	router := newTestRouter(matcher)

	w := postJSON(t, router, "/api/v1/nutrition/meal", gin.H{
		"ingredients": []string{"2 eggs"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp common.MealNutrition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Ingredients, 1)
	assert.Equal(t, common.SourceDatabase, resp.Ingredients[0].Source)
	// 2 顆蛋 = 100 克，等同每 100 克含量
	assert.InDelta(t, 143, resp.Total.Calories, 1e-9)
	assert.Equal(t, common.ConfidenceHigh, resp.Confidence)
}

func TestEstimateMealsReturnsPerMealResults(t *testing.T) {
	router := newTestRouter(&stubMatcher{})

	w := postJSON(t, router, "/api/v1/nutrition/meals", gin.H{
		"meals": []gin.H{
			{"name": "breakfast", "ingredients": []string{"2 eggs"}},
			{"name": "snack"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meals []common.MealResult `json:"meals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Meals, 2)
	assert.Equal(t, "breakfast", resp.Meals[0].Name)
	assert.Equal(t, "snack", resp.Meals[1].Name)
	assert.Equal(t, common.ConfidenceLow, resp.Meals[1].Nutrition.Confidence)
}

func TestParseIngredients(t *testing.T) {
	router := newTestRouter(&stubMatcher{})

	w := postJSON(t, router, "/api/v1/nutrition/parse", gin.H{
		"lines": []string{"1 1/2 tbsp honey", "salt to taste"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Ingredients []ParsedLine `json:"ingredients"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Ingredients, 2)
	assert.InDelta(t, 1.5, resp.Ingredients[0].Quantity, 1e-9)
	assert.Equal(t, "tbsp", resp.Ingredients[0].Unit)
	assert.Equal(t, "honey", resp.Ingredients[0].Name)
	// 1.5 tbsp 蜂蜜 = 1.5 × 15 × 1.42
	assert.InDelta(t, 31.95, resp.Ingredients[0].Grams, 1e-9)
	assert.Equal(t, common.UnitToTaste, resp.Ingredients[1].Unit)
	assert.Zero(t, resp.Ingredients[1].Quantity)
	assert.Zero(t, resp.Ingredients[1].Grams)
}

package nutrition

import (
	"net/http"

	"nutrition-estimator/internal/core/ingredient"
	corenutrition "nutrition-estimator/internal/core/nutrition"
	"nutrition-estimator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MealRequest 單餐營養估算請求
type MealRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// MealsRequest 多餐營養估算請求
type MealsRequest struct {
	Meals []common.Meal `json:"meals" binding:"required"`
}

// ParseRequest 食材行解析請求
type ParseRequest struct {
	Lines []string `json:"lines" binding:"required"`
}

// ParsedLine 解析結果加上換算後的克數（診斷用）
type ParsedLine struct {
	common.ParsedIngredient
	Grams float64 `json:"grams"`
}

// Handler 營養估算處理器
type Handler struct {
	service *corenutrition.Service
}

// NewHandler 創建營養估算處理器
func NewHandler(service *corenutrition.Service) *Handler {
	return &Handler{service: service}
}

// requestID 取得請求 ID，缺失時補一個
func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.New().String()
	}
	return id
}

// EstimateMeal 估算單餐營養
// POST /api/v1/nutrition/meal
func (h *Handler) EstimateMeal(c *gin.Context) {
	reqID := requestID(c)

	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("無效的單餐估算請求",
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "ingredients is required",
		})
		return
	}

	common.LogInfo("開始估算單餐營養",
		zap.String("request_id", reqID),
		zap.Int("ingredient_count", len(req.Ingredients)),
	)

	result := h.service.MealNutrition(c.Request.Context(), req.Ingredients)

	common.LogInfo("單餐營養估算完成",
		zap.String("request_id", reqID),
		zap.Float64("calories", result.Total.Calories),
		zap.String("confidence", string(result.Confidence)),
	)

	c.JSON(http.StatusOK, result)
}

// EstimateMeals 估算多餐營養
// POST /api/v1/nutrition/meals
func (h *Handler) EstimateMeals(c *gin.Context) {
	reqID := requestID(c)

	var req MealsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("無效的多餐估算請求",
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "meals is required",
		})
		return
	}

	common.LogInfo("開始估算多餐營養",
		zap.String("request_id", reqID),
		zap.Int("meal_count", len(req.Meals)),
	)

	results := h.service.MealsNutrition(c.Request.Context(), req.Meals)

	c.JSON(http.StatusOK, gin.H{
		"meals": results,
	})
}

// ParseIngredients 解析食材行，不做營養查詢
// POST /api/v1/nutrition/parse
func (h *Handler) ParseIngredients(c *gin.Context) {
	reqID := requestID(c)

	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("無效的解析請求",
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "lines is required",
		})
		return
	}

	parsed := make([]ParsedLine, len(req.Lines))
	for i, line := range req.Lines {
		ing := ingredient.Parse(line)
		parsed[i] = ParsedLine{
			ParsedIngredient: ing,
			Grams:            ingredient.QuantityToGrams(ing.Quantity, ing.Unit, ing.Name),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ingredients": parsed,
	})
}

package health

import (
	"net/http"
	"time"

	"nutrition-estimator/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	appVersion := "unknown"
	appEnv := "unknown"
	if cfg, exists := c.Get("config"); exists {
		if appConfig, ok := cfg.(*config.Config); ok {
			appVersion = appConfig.App.Version
			appEnv = appConfig.App.Env
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   appVersion,
		"env":       appEnv,
	})
}

// ReadinessCheck 就緒檢查處理器
// 服務啟動時即完成所有依賴的初始化，這裡只確認設定有被注入
func ReadinessCheck(c *gin.Context) {
	if _, exists := c.Get("config"); !exists {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

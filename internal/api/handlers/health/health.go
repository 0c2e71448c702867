package health

import (
	"net/http"

	"meal-compiler/internal/core/nutrition/source"

	"github.com/gin-gonic/gin"
)

// Handler 健康檢查處理器
type Handler struct {
	sources []source.FoodSource
}

// NewHandler 創建健康檢查處理器
func NewHandler(sources []source.FoodSource) *Handler {
	return &Handler{sources: sources}
}

// Check 回報服務狀態與已啟用的資料來源
func (h *Handler) Check(c *gin.Context) {
	names := make([]string, 0, len(h.sources))
	for _, s := range h.sources {
		names = append(names, s.Name())
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"sources": names,
	})
}

package plan

import (
	"net/http"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/core/nutrition/compile"
	"meal-compiler/internal/core/nutrition/diet"
	"meal-compiler/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 菜單編譯處理器
type Handler struct {
	pipeline *compile.Pipeline
}

// NewHandler 創建菜單編譯處理器
func NewHandler(pipeline *compile.Pipeline) *Handler {
	return &Handler{pipeline: pipeline}
}

// CompileRequest 編譯請求：草稿菜單 + 客戶端飲食限制
type CompileRequest struct {
	Plan        nutrition.DraftPlan `json:"plan"`
	Constraints diet.Constraints    `json:"constraints"`
}

// Compile 編譯草稿菜單並回傳驗證後的完整計畫
func (h *Handler) Compile(c *gin.Context) {
	var req CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式錯誤",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "invalid request body",
		})
		return
	}

	result, err := h.pipeline.Run(c.Request.Context(), req.Plan, req.Constraints)
	if err != nil {
		// 草稿結構壞掉是客戶端錯誤，其餘視為服務端錯誤
		if common.IsValidationError(err) || isValidationWrapped(err) {
			c.JSON(http.StatusBadRequest, common.ErrorResponse{
				Code:    common.ErrInvalidDraftPlan.Code,
				Message: common.ErrInvalidDraftPlan.Message,
				Details: err.Error(),
			})
			return
		}
		common.LogError("菜單編譯失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCompileFailed.Code,
			Message: common.ErrCompileFailed.Message,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// isValidationWrapped 檢查包裝過的驗證錯誤
func isValidationWrapped(err error) bool {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if common.IsValidationError(err) {
			return true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

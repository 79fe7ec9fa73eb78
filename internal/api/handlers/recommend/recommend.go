// Package recommend 食譜推薦 HTTP 處理器
package recommend

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-recommender/internal/api/handlers"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"
)

// Service 推薦服務
type Service interface {
	Recommend(ctx context.Context, req recipe.Request) (*common.RecommendationResult, error)
	RecommendFromImage(ctx context.Context, imageData string, req recipe.Request) (*common.RecommendationResult, error)
}

// Handler 推薦處理器
type Handler struct {
	service Service
	debug   bool
}

// NewHandler 創建推薦處理器
func NewHandler(service Service, debug bool) *Handler {
	return &Handler{service: service, debug: debug}
}

// Register 註冊路由
func (h *Handler) Register(group *gin.RouterGroup) {
	group.POST("/recommend", h.HandleRecommend)
	group.POST("/recommend/image", h.HandleRecommendImage)
}

// HandleRecommend 依食材推薦食譜
func (h *Handler) HandleRecommend(c *gin.Context) {
	if !h.requireJSON(c) {
		return
	}

	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogDebug("請求格式無效", zap.Error(err))
		handlers.RespondError(c, common.NewValidationError(err.Error()), h.debug)
		return
	}

	result, err := h.service.Recommend(c.Request.Context(), req.toServiceRequest())
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleRecommendImage 辨識圖片食材後推薦
func (h *Handler) HandleRecommendImage(c *gin.Context) {
	if !h.requireJSON(c) {
		return
	}

	var req ImageRecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.NewValidationError(err.Error()), h.debug)
		return
	}
	if req.Image == "" {
		handlers.RespondError(c, common.NewValidationError("image is required"), h.debug)
		return
	}

	result, err := h.service.RecommendFromImage(c.Request.Context(), req.Image, req.toServiceRequest())
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	common.LogInfo("圖片推薦完成",
		zap.Int("detected", len(result.Detected)),
		zap.Int("results", result.Count),
		zap.String("request_id", common.RequestIDFromContext(c.Request.Context())),
	)
	c.JSON(http.StatusOK, result)
}

// requireJSON 非 JSON 請求回應 415
func (h *Handler) requireJSON(c *gin.Context) bool {
	if c.ContentType() != gin.MIMEJSON {
		handlers.RespondError(c, common.ErrUnsupportedMediaType, h.debug)
		return false
	}
	return true
}

// Package handlers HTTP 處理器共用的錯誤回應
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-recommender/internal/pkg/common"
)

// RespondError 將錯誤轉為對應狀態碼的 JSON 回應
func RespondError(c *gin.Context, err error, debug bool) {
	ce := ToCustomError(err)
	_ = c.Error(err)

	if ce.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗",
			zap.Error(err),
			zap.String("code", ce.Code),
			zap.String("request_id", common.RequestIDFromContext(c.Request.Context())),
		)
	}

	c.AbortWithStatusJSON(ce.Status, ce.Response(debug))
}

// ToCustomError 將任意錯誤對應到 API 錯誤
func ToCustomError(err error) *common.CustomError {
	if ce, ok := common.AsCustomError(err); ok {
		return ce
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return common.ErrRequestTooLarge.Wrap(err)
	case common.IsValidationError(err):
		return common.ErrInvalidRequest.Wrap(err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.Wrap(err)
	case errors.Is(err, context.Canceled):
		return common.ErrRequestTimeout.Wrap(err)
	default:
		return common.ErrInternalError.Wrap(err)
	}
}

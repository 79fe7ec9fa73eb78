// Package classifier 呼叫外部影像分類服務，辨識圖片中的食材
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

// classifyPath 分類端點
const classifyPath = "/classify"

// classifyRequest 分類請求
type classifyRequest struct {
	Image string `json:"image"`
}

// classifyResponse 分類回應，欄位沿用分類服務的命名
type classifyResponse struct {
	Ingredients []struct {
		Label      string   `json:"classificacao"`
		Confidence *float64 `json:"confidence"`
	} `json:"ingredients"`
}

// Client 影像分類服務客戶端
type Client struct {
	client        *resty.Client
	minConfidence float64
}

// NewClient 創建分類服務客戶端
func NewClient(cfg config.ClassifierConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	common.LogInfo("影像分類服務已設定",
		zap.String("base_url", cfg.BaseURL),
		zap.String("api_key", common.MaskSecret(cfg.APIKey)),
		zap.Float64("min_confidence", cfg.MinConfidence),
	)

	return &Client{client: client, minConfidence: cfg.MinConfidence}
}

// Classify 將 JPEG data URI 送出分類，回傳信心值達門檻的食材
//
// 未提供信心值的標籤一律保留。
func (c *Client) Classify(ctx context.Context, dataURI string) ([]common.DetectedIngredient, error) {
	start := time.Now()
	requestID := common.RequestIDFromContext(ctx)

	detected, err := c.classify(ctx, dataURI)
	common.LogClassifierCall(time.Since(start), len(detected), err, requestID)
	return detected, err
}

func (c *Client) classify(ctx context.Context, dataURI string) ([]common.DetectedIngredient, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(classifyRequest{Image: dataURI}).
		Post(classifyPath)
	if err != nil {
		return nil, common.ErrClassifierError.Wrap(fmt.Errorf("failed to send request to classifier: %w", err))
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, common.ErrClassifierError.Wrap(
			fmt.Errorf("classifier returned status %d: %s", resp.StatusCode(), resp.String()))
	}

	var result classifyResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, common.ErrClassifierError.Wrap(fmt.Errorf("failed to parse classifier response: %w", err))
	}

	detected := make([]common.DetectedIngredient, 0, len(result.Ingredients))
	for _, item := range result.Ingredients {
		label := strings.TrimSpace(item.Label)
		if label == "" {
			continue
		}
		confidence := 0.0
		if item.Confidence != nil {
			confidence = *item.Confidence
			if confidence < c.minConfidence {
				continue
			}
		}
		detected = append(detected, common.DetectedIngredient{Label: label, Confidence: confidence})
	}
	return detected, nil
}

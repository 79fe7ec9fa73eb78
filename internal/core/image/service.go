// Package image 驗證並標準化上傳的食材圖片
package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	"github.com/go-resty/resty/v2"
	_ "golang.org/x/image/webp" // 支援 WebP

	"recipe-recommender/internal/pkg/common"
)

const (
	// jpegQuality 重新編碼品質
	jpegQuality = 85
	// defaultMaxPixels 未設定像素上限時使用
	defaultMaxPixels = 40_000_000
)

// Image 標準化後的圖片，一律為 JPEG
type Image struct {
	Data         []byte
	SourceFormat string
	Width        int
	Height       int
}

// DataURI 轉為 data URI
func (i *Image) DataURI() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Service 圖片處理服務
type Service struct {
	maxSizeBytes int64
	maxPixels    int64
	client       *resty.Client
}

// NewService 創建新的圖片處理服務，maxPixels <= 0 使用預設上限
func NewService(maxSizeBytes, maxPixels int64) *Service {
	if maxPixels <= 0 {
		maxPixels = defaultMaxPixels
	}
	return &Service{
		maxSizeBytes: maxSizeBytes,
		maxPixels:    maxPixels,
		client:       resty.New().SetTimeout(30 * time.Second),
	}
}

// Process 解析 data URI 或下載 URL，驗證後重新編碼為 JPEG
func (s *Service) Process(ctx context.Context, imageData string) (*Image, error) {
	raw, err := s.load(ctx, strings.TrimSpace(imageData))
	if err != nil {
		return nil, err
	}

	// 檢查文件大小
	if int64(len(raw)) > s.maxSizeBytes {
		return nil, common.ErrInvalidImageSize.Wrap(
			fmt.Errorf("image size %d exceeds maximum limit of %d bytes", len(raw), s.maxSizeBytes))
	}

	// 先讀取標頭檢查尺寸，避免解碼出過大的點陣圖
	header, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("failed to decode image: %w", err))
	}
	if pixels := int64(header.Width) * int64(header.Height); pixels > s.maxPixels {
		return nil, common.ErrInvalidImageSize.Wrap(
			fmt.Errorf("image dimensions %dx%d exceed maximum of %d pixels", header.Width, header.Height, s.maxPixels))
	}

	// 解碼圖片
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("failed to decode image: %w", err))
	}

	// 檢查圖片格式
	if !isSupportedFormat(format) {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("unsupported image format: %s", format))
	}

	// 將圖片轉換為 JPEG 格式
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	bounds := img.Bounds()
	return &Image{
		Data:         buf.Bytes(),
		SourceFormat: format,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
	}, nil
}

// load 取得原始位元組
func (s *Service) load(ctx context.Context, imageData string) ([]byte, error) {
	if imageData == "" {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("image data is empty"))
	}

	// 檢查是否為 URL
	if strings.HasPrefix(imageData, "http://") || strings.HasPrefix(imageData, "https://") {
		return s.download(ctx, imageData)
	}

	// 處理 base64 格式
	if !strings.HasPrefix(imageData, "data:image/") {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("invalid image data format"))
	}

	parts := strings.SplitN(imageData, ",", 2)
	if len(parts) != 2 || !strings.HasSuffix(parts[0], ";base64") {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("invalid base64 data format"))
	}

	// 預先以編碼長度估算大小，避免解碼過大的資料
	if int64(base64.StdEncoding.DecodedLen(len(parts[1]))) > s.maxSizeBytes+2 {
		return nil, common.ErrInvalidImageSize.Wrap(
			fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes))
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("failed to decode base64 data: %w", err))
	}
	return decoded, nil
}

// download 下載圖片，最多讀取 maxSizeBytes+1 位元組
func (s *Service) download(ctx context.Context, url string) ([]byte, error) {
	resp, err := s.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, common.ErrInvalidImageFormat.Wrap(
			fmt.Errorf("failed to download image: status code %d", resp.StatusCode()))
	}
	if resp.RawResponse.ContentLength > s.maxSizeBytes {
		return nil, common.ErrInvalidImageSize.Wrap(
			fmt.Errorf("image size %d exceeds maximum limit of %d bytes", resp.RawResponse.ContentLength, s.maxSizeBytes))
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}

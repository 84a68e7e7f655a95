package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"recipe-insight/internal/pkg/common"

	_ "image/gif"  // 支援 GIF
	_ "image/jpeg" // 支援 JPEG
	_ "image/png"  // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP
)

// Service 生成圖片的驗證服務
type Service struct {
	maxSizeBytes int64
}

// NewService 創建新的圖片驗證服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
	}
}

// ToDataURI 驗證 base64 圖片並轉為 data URI，保留原始編碼
func (s *Service) ToDataURI(b64 string) (string, error) {
	b64 = strings.TrimSpace(b64)
	format, err := s.inspect(b64)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:image/%s;base64,%s", format, b64), nil
}

// ValidateDataURI 驗證 data:image/...;base64, 格式
func (s *Service) ValidateDataURI(imageData string) error {
	if !strings.HasPrefix(imageData, "data:image/") {
		return common.ErrInvalidImageFormat.WithErr(fmt.Errorf("invalid image data format"))
	}

	parts := strings.SplitN(imageData, ",", 2)
	if len(parts) != 2 || !strings.HasSuffix(parts[0], ";base64") {
		return common.ErrInvalidImageFormat.WithErr(fmt.Errorf("invalid base64 data format"))
	}

	_, err := s.inspect(parts[1])
	return err
}

// inspect 解碼 base64 並讀取圖片格式
func (s *Service) inspect(b64 string) (string, error) {
	// 先以編碼長度估算，避免解碼過大的資料
	if s.maxSizeBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(b64))) > s.maxSizeBytes+2 {
		return "", fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes)
	}

	decoded, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", common.ErrInvalidImageFormat.WithErr(fmt.Errorf("failed to decode base64 data: %w", err))
	}

	if s.maxSizeBytes > 0 && int64(len(decoded)) > s.maxSizeBytes {
		return "", fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(decoded))
	if err != nil {
		return "", common.ErrInvalidImageFormat.WithErr(fmt.Errorf("failed to decode image: %w", err))
	}

	if !isSupportedFormat(format) {
		return "", common.ErrInvalidImageFormat.WithErr(fmt.Errorf("unsupported image format: %s", format))
	}
	return format, nil
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

package provider

import (
	"context"
	"errors"
)

// ErrDisabled 生成服務未啟用
var ErrDisabled = errors.New("provider disabled")

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TextRequest 文字生成請求
type TextRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// TextGenerator 接受自然語言指令，回傳純文字或 JSON 字串
type TextGenerator interface {
	// Generate 生成文字回應
	Generate(ctx context.Context, req *TextRequest) (string, error)

	// Name 提供者名稱（用於日誌與指標）
	Name() string
}

// ImageRequest 圖片生成請求
type ImageRequest struct {
	Prompt string
	Count  int
	Size   string
}

// GeneratedImage 生成的圖片，URL 或 base64 擇一
type GeneratedImage struct {
	URL     string
	B64JSON string
}

// ImageGenerator 圖片生成介面
type ImageGenerator interface {
	GenerateImages(ctx context.Context, req *ImageRequest) ([]GeneratedImage, error)
	Name() string
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"recipe-insight/internal/core/ai/provider"
	"recipe-insight/internal/infrastructure/config"
	"recipe-insight/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ImageGenerationService OpenAI 相容的圖片生成客戶端
type ImageGenerationService struct {
	config config.ImageConfig
	client *resty.Client
}

type imageGenerationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL     string `json:"url,omitempty"`
		B64JSON string `json:"b64_json,omitempty"`
	} `json:"data"`
}

// NewImageGenerationService 創建圖片生成服務
func NewImageGenerationService(cfg config.ImageConfig) *ImageGenerationService {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json")

	return &ImageGenerationService{
		config: cfg,
		client: client,
	}
}

// Name 提供者名稱
func (s *ImageGenerationService) Name() string {
	return "images"
}

// GenerateImages 生成圖片
func (s *ImageGenerationService) GenerateImages(ctx context.Context, req *provider.ImageRequest) ([]provider.GeneratedImage, error) {
	if !s.config.Active() {
		return nil, provider.ErrDisabled
	}

	body := imageGenerationRequest{
		Model:  s.config.Model,
		Prompt: req.Prompt,
		N:      req.Count,
		Size:   req.Size,
	}
	if body.N <= 0 {
		body.N = s.config.Count
	}
	if body.Size == "" {
		body.Size = s.config.Size
	}

	common.LogDebug("Sending image generation request",
		zap.String("model", body.Model),
		zap.Int("n", body.N),
		zap.String("size", body.Size),
	)

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/images/generations")
	if err != nil {
		return nil, fmt.Errorf("failed to send image request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("image API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 300))
	}

	var result imageGenerationResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse image response: %w", err)
	}

	images := make([]provider.GeneratedImage, 0, len(result.Data))
	for _, d := range result.Data {
		if d.URL == "" && d.B64JSON == "" {
			continue
		}
		images = append(images, provider.GeneratedImage{URL: d.URL, B64JSON: d.B64JSON})
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no images in response")
	}
	return images, nil
}

package recipe

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"recipe-insight/internal/core/ai/provider"
	"recipe-insight/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	headingPrefix = regexp.MustCompile(`^#+\s*`)
	bulletPrefix  = regexp.MustCompile(`^[-•]\s*`)
	numberedStep  = regexp.MustCompile(`^[0-9]+[.)]`)
)

var errMissingTitle = errors.New("generated recipe has no title")

// VisualGenerator 圖文食譜需要的生成能力
type VisualGenerator interface {
	GenerateText(ctx context.Context, prompt string, validate func(string) error) (string, error)
	GenerateImages(ctx context.Context, prompt string) ([]provider.GeneratedImage, error)
}

// ImageEncoder 將 base64 圖片轉為 data URI 並驗證內嵌圖片
type ImageEncoder interface {
	ToDataURI(b64 string) (string, error)
	ValidateDataURI(uri string) error
}

// VisualService 圖文食譜：沒有本地回退
type VisualService struct {
	generator VisualGenerator
	images    ImageEncoder
}

// NewVisualService 創建圖文食譜服務
func NewVisualService(generator VisualGenerator, images ImageEncoder) *VisualService {
	return &VisualService{
		generator: generator,
		images:    images,
	}
}

// Generate 先生成文字食譜，再以標題生成圖片
func (s *VisualService) Generate(ctx context.Context, req VisualRequest) (*VisualResponse, error) {
	text, err := s.generator.GenerateText(ctx, BuildVisualPrompt(req), validateRecipeText)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipe text: %w", err)
	}

	resp := ParseRecipeText(text)
	if resp.Title == "" {
		return nil, errMissingTitle
	}

	generated, err := s.generator.GenerateImages(ctx, BuildImagePrompt(resp.Title, req))
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipe images: %w", err)
	}

	for _, img := range generated {
		uri, err := s.imageURL(img)
		if err != nil {
			common.LogWarn("略過無效的生成圖片",
				zap.Error(err),
				zap.String("request_id", common.RequestIDFromContext(ctx)),
			)
			continue
		}
		resp.ImageURLs = append(resp.ImageURLs, uri)
	}
	if len(resp.ImageURLs) == 0 {
		return nil, fmt.Errorf("no usable images generated")
	}
	return resp, nil
}

// imageURL 遠端網址直接使用，內嵌資料需通過驗證
func (s *VisualService) imageURL(img provider.GeneratedImage) (string, error) {
	switch {
	case strings.HasPrefix(img.URL, "data:"):
		if err := s.images.ValidateDataURI(img.URL); err != nil {
			return "", err
		}
		return img.URL, nil
	case img.URL != "":
		return img.URL, nil
	default:
		return s.images.ToDataURI(img.B64JSON)
	}
}

// validateRecipeText 沒有標題的內容不緩存
func validateRecipeText(text string) error {
	if ParseRecipeText(text).Title == "" {
		return errMissingTitle
	}
	return nil
}

// BuildVisualPrompt 要求條列食材與編號步驟的自然語言食譜
func BuildVisualPrompt(req VisualRequest) string {
	return fmt.Sprintf("Create a %s %s recipe using these ingredients: %s.\n"+
		"Please include:\n"+
		"1. A realistic recipe title\n"+
		"2. A list of ingredients (use bullet points)\n"+
		"3. Step-by-step cooking instructions (numbered)\n"+
		"Make it sound natural and easy to follow.",
		strings.ToLower(req.Style), strings.ToLower(req.Cuisine), req.Ingredients)
}

// BuildImagePrompt 圖片生成指令
func BuildImagePrompt(title string, req VisualRequest) string {
	return fmt.Sprintf("%s, %s cuisine, %s presentation, professionally plated, natural lighting",
		title, req.Cuisine, req.Style)
}

// ParseRecipeText 逐行解析：首行為標題，條列為食材，編號為步驟
func ParseRecipeText(text string) *VisualResponse {
	resp := &VisualResponse{
		Ingredients: []string{},
		Steps:       []string{},
		ImageURLs:   []string{},
	}

	first := true
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if first {
			resp.Title = strings.TrimSpace(headingPrefix.ReplaceAllString(line, ""))
			first = false
			continue
		}
		switch {
		case bulletPrefix.MatchString(line):
			resp.Ingredients = append(resp.Ingredients, strings.TrimSpace(bulletPrefix.ReplaceAllString(line, "")))
		case numberedStep.MatchString(line):
			resp.Steps = append(resp.Steps, line)
		}
	}
	return resp
}

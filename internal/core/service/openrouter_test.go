package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-insight/internal/core/ai/provider"
	"recipe-insight/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenRouter(t *testing.T, handler http.HandlerFunc) *OpenRouterService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenRouterService(config.OpenRouterConfig{
		Enabled:     true,
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		Model:       "test/model",
		MaxTokens:   700,
		Temperature: 0.7,
		Timeout:     2 * time.Second,
	})
}

func TestOpenRouterGenerate(t *testing.T) {
	var got chatRequest
	svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  [{\"title\":\"x\"}]  "}}]}`))
	})

	content, err := svc.Generate(context.Background(), &provider.TextRequest{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"x"}]`, content)
	assert.Equal(t, "test/model", got.Model)
	assert.Equal(t, 700, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestOpenRouterGenerateErrors(t *testing.T) {
	t.Run("status error", func(t *testing.T) {
		svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		_, err := svc.Generate(context.Background(), &provider.TextRequest{Prompt: "p"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("empty choices", func(t *testing.T) {
		svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})
		_, err := svc.Generate(context.Background(), &provider.TextRequest{Prompt: "p"})
		assert.Error(t, err)
	})

	t.Run("context deadline", func(t *testing.T) {
		svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := svc.Generate(ctx, &provider.TextRequest{Prompt: "p"})
		assert.Error(t, err)
	})

	t.Run("disabled without key", func(t *testing.T) {
		svc := NewOpenRouterService(config.OpenRouterConfig{Enabled: true, Timeout: time.Second})
		_, err := svc.Generate(context.Background(), &provider.TextRequest{Prompt: "p"})
		assert.ErrorIs(t, err, provider.ErrDisabled)
	})
}

func TestImageGenerationService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		var req imageGenerationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.N)
		assert.Equal(t, "512x512", req.Size)
		_, _ = w.Write([]byte(`{"data":[{"url":"https://img/1.png"},{"b64_json":"abc"},{}]}`))
	}))
	defer srv.Close()

	svc := NewImageGenerationService(config.ImageConfig{
		Enabled: true, APIKey: "k", BaseURL: srv.URL, Model: "gpt-image-1",
		Count: 2, Size: "512x512", Timeout: time.Second,
	})
	images, err := svc.GenerateImages(context.Background(), &provider.ImageRequest{Prompt: "dish"})
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://img/1.png", images[0].URL)
	assert.Equal(t, "abc", images[1].B64JSON)
}

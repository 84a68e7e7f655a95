package recipe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"recipe-insight/internal/core/ai/provider"
	"recipe-insight/internal/core/ai/queue"
	"recipe-insight/internal/pkg/common"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
)

func TestVisualError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   *common.CustomError
		status int
	}{
		{"disabled", fmt.Errorf("failed to generate recipe text: %w", provider.ErrDisabled), common.ErrGeneratorDisabled, http.StatusServiceUnavailable},
		{"breaker open", gobreaker.ErrOpenState, common.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{"half-open limit", gobreaker.ErrTooManyRequests, common.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{"queue full", queue.ErrQueueFull, common.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{"timeout", fmt.Errorf("wrap: %w", context.DeadlineExceeded), common.ErrGatewayTimeout, http.StatusGatewayTimeout},
		{"other", errors.New("no usable images generated"), common.ErrGeneratorFailed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := visualError(tt.err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.want.Code, got.Code)
			assert.Equal(t, tt.want.Message, got.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestGeneratorDisabledKeepsServiceUnavailableCode(t *testing.T) {
	assert.Equal(t, common.ErrCodeServiceUnavailable, common.ErrGeneratorDisabled.Code)
	assert.ErrorIs(t, common.ErrGeneratorDisabled.WithErr(provider.ErrDisabled), common.ErrServiceUnavailable)
}

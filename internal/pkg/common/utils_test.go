package common

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeErrorBody(t *testing.T, mode string, err *CustomError) (int, ErrorResponse) {
	t.Helper()
	prev := gin.Mode()
	gin.SetMode(mode)
	t.Cleanup(func() { gin.SetMode(prev) })

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	WriteError(c, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestWriteError(t *testing.T) {
	cause := errors.New("upstream 502")

	t.Run("release hides cause", func(t *testing.T) {
		code, body := writeErrorBody(t, gin.ReleaseMode, ErrGeneratorFailed.WithErr(cause))
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, ErrCodeInternalError, body.Code)
		assert.Equal(t, ErrGeneratorFailed.Message, body.Message)
		assert.Empty(t, body.Details)
	})

	t.Run("debug shows cause", func(t *testing.T) {
		code, body := writeErrorBody(t, gin.DebugMode, ErrGeneratorDisabled.WithErr(cause))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, ErrCodeServiceUnavailable, body.Code)
		assert.Equal(t, "upstream 502", body.Details)
	})

	t.Run("debug without cause", func(t *testing.T) {
		_, body := writeErrorBody(t, gin.DebugMode, ErrNotFound)
		assert.Empty(t, body.Details)
	})
}

func TestRequestIDContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
}

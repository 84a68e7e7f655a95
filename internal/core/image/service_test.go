package image

import (
	"bytes"
	"encoding/base64"
	stdimage "image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"recipe-insight/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBase64(t *testing.T) string {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestToDataURI(t *testing.T) {
	svc := NewService(1 << 20)
	b64 := pngBase64(t)

	uri, err := svc.ToDataURI(b64)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	assert.NoError(t, svc.ValidateDataURI(uri))
}

func TestToDataURIRejects(t *testing.T) {
	tests := []struct {
		name          string
		svc           *Service
		data          string
		invalidFormat bool
	}{
		{"not base64", NewService(1 << 20), "%%%", true},
		{"not an image", NewService(1 << 20), base64.StdEncoding.EncodeToString([]byte("hello world")), true},
		{"too large", NewService(8), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data
			if data == "" {
				data = pngBase64(t)
			}
			_, err := tt.svc.ToDataURI(data)
			require.Error(t, err)
			if tt.invalidFormat {
				assert.ErrorIs(t, err, common.ErrInvalidImageFormat)
			} else {
				assert.NotErrorIs(t, err, common.ErrInvalidImageFormat)
			}
		})
	}
}

func TestValidateDataURIFormat(t *testing.T) {
	svc := NewService(1 << 20)
	assert.ErrorIs(t, svc.ValidateDataURI("https://example.com/a.png"), common.ErrInvalidImageFormat)
	assert.ErrorIs(t, svc.ValidateDataURI("data:image/png,abc"), common.ErrInvalidImageFormat)
	assert.ErrorIs(t, svc.ValidateDataURI("data:image/png;base64,aGVsbG8="), common.ErrInvalidImageFormat)
}

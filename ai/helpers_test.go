package ai

import (
	"Vixtral/core"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testConfig(t *testing.T, baseURL string) *core.Config {
	t.Helper()
	conf := &core.Config{}
	conf.DashScope.ApiKey = "sk-test-key"
	conf.DashScope.BaseURL = baseURL
	conf.DashScope.Model = "qwen-image-edit-plus"
	conf.DashScope.Variants = 2
	conf.DashScope.Watermark = false
	conf.DashScope.PromptExtend = true
	conf.DashScope.NegativePrompt = " "
	conf.DashScope.TempImage = filepath.Join(t.TempDir(), "temp_image.png")
	return conf
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, apiStatus int, apiBody string) (imageURL string) {
	t.Helper()
	t.Chdir(t.TempDir())

	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	require.NoError(t, png.Encode(&buf, img))

	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(images.Close)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(apiStatus)
		_, _ = w.Write([]byte(apiBody))
	}))
	t.Cleanup(api.Close)

	t.Setenv("DASHSCOPE_API_KEY", "sk-test")
	t.Setenv("DASHSCOPE_BASE_URL", api.URL)
	return images.URL + "/dog.png"
}

func decode(t *testing.T, out *bytes.Buffer) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &v), out.String())
	return v
}

func TestRun_TwoVariants(t *testing.T) {
	url := setup(t, http.StatusOK, `{"request_id":"r","output":{"choices":[{"message":{"role":"assistant","content":[{"image":"https://o/1.png"},{"image":"https://o/2.png"}]}}]}}`)
	out := &bytes.Buffer{}

	code := run(context.Background(), out, &bytes.Buffer{}, []string{url, "Make the dog wear sunglasses"})

	require.Equal(t, 0, code)
	v := decode(t, out)
	assert.Equal(t, []any{"https://o/1.png", "https://o/2.png"}, v["images"])

	_, err := os.Stat("temp_image.png")
	assert.True(t, os.IsNotExist(err), "temp file must be deleted")
}

func TestRun_APIError(t *testing.T) {
	url := setup(t, http.StatusUnauthorized, `{"code":"InvalidApiKey","message":"Invalid API-key provided."}`)
	out := &bytes.Buffer{}

	code := run(context.Background(), out, &bytes.Buffer{}, []string{url, "x"})

	require.Equal(t, 1, code)
	v := decode(t, out)
	assert.Equal(t, float64(401), v["http_status"])
	assert.Equal(t, "InvalidApiKey", v["error_code"])
	assert.Equal(t, "Invalid API-key provided.", v["error_message"])

	_, err := os.Stat("temp_image.png")
	assert.True(t, os.IsNotExist(err))
}

func TestRun_Unreachable(t *testing.T) {
	url := setup(t, http.StatusOK, `{}`)
	t.Setenv("DASHSCOPE_BASE_URL", "http://127.0.0.1:1")
	out := &bytes.Buffer{}

	code := run(context.Background(), out, &bytes.Buffer{}, []string{url, "x"})

	require.Equal(t, 1, code)
	v := decode(t, out)
	assert.NotEmpty(t, v["error"])
}

func TestRun_Usage(t *testing.T) {
	t.Chdir(t.TempDir())
	out := &bytes.Buffer{}

	code := run(context.Background(), out, &bytes.Buffer{}, []string{"https://only-url"})

	require.Equal(t, 1, code)
	assert.Contains(t, decode(t, out)["error"], "Usage:")
}

func TestRun_MissingKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DASHSCOPE_API_KEY", "")
	out := &bytes.Buffer{}

	code := run(context.Background(), out, &bytes.Buffer{}, []string{"https://x/y.png", "p"})

	require.Equal(t, 1, code)
	assert.Equal(t, "DASHSCOPE_API_KEY not set", decode(t, out)["error"])
}

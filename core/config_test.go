package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DASHSCOPE_API_KEY", "sk-env")

	conf, err := Load("config.yml")
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, conf.Env)
	assert.Equal(t, "sk-env", conf.DashScope.ApiKey)
	assert.Equal(t, "https://dashscope-intl.aliyuncs.com/api/v1", conf.DashScope.BaseURL)
	assert.Equal(t, "qwen-image-edit-plus", conf.DashScope.Model)
	assert.Equal(t, 2, conf.DashScope.Variants)
	assert.False(t, conf.DashScope.Watermark)
	assert.True(t, conf.DashScope.PromptExtend)
	assert.Equal(t, "temp_image.png", conf.DashScope.TempImage)
	assert.Equal(t, 1024, conf.Local.MaxNewTokens)
	assert.Equal(t, "PhotoshopRequest", conf.Reddit.Subreddit)
}

func TestLoad_FileAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// restored on cleanup, unset so .env.local may fill it
	t.Setenv("GEMINI_API_KEY", "")
	require.NoError(t, os.Unsetenv("GEMINI_API_KEY"))
	require.NoError(t, os.WriteFile(".env.local", []byte("GEMINI_API_KEY=gm-dotenv\n"), 0o600))
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("env: prod\ndashscope:\n  variants: 1\nlocal:\n  model_path: /models/qwen\n"), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EnvProd, conf.Env)
	assert.Equal(t, 1, conf.DashScope.Variants)
	assert.Equal(t, "/models/qwen", conf.Local.ModelPath)
	assert.Equal(t, "gm-dotenv", conf.Gemini.ApiKey)
}

func TestLoad_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("dashscope: [not, a, map]\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config:")
}

package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"Vixtral/local"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeRunner = `#!/bin/sh
echo "loading checkpoint shards"
echo "<|output|>"
echo "A red square, now blue."
`

func TestRun_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a posix shell")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	runner := filepath.Join(dir, "fake-vl")
	require.NoError(t, os.WriteFile(runner, []byte(fakeRunner), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "model"), 0o755))
	t.Setenv("QWEN_MODEL_PATH", filepath.Join(dir, "model"))
	t.Setenv("QWEN_VISION_RUNNER", runner)

	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.jpg")
	require.NoError(t, local.SaveImage(local.SolidImage(32, 16, color.NRGBA{R: 255, A: 128}), input))

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{input, output, "make it blue"})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Loading image: "+input)
	assert.Contains(t, out.String(), "Image size: (32, 16)")
	assert.Contains(t, out.String(), "Model output: A red square, now blue.")
	assert.Contains(t, out.String(), "Success!")

	size, err := local.VerifyImage(output)
	require.NoError(t, err)
	assert.Equal(t, 32, size.X)
}

func TestRun_Usage(t *testing.T) {
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"in.png", "out.png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage:")
}

func TestRun_MissingModel(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("QWEN_MODEL_PATH", filepath.Join(dir, "missing"))

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"in.png", "out.png", "p"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading vision model")
	assert.NotContains(t, out.String(), "Success!")
}

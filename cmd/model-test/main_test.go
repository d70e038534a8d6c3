package main

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"Vixtral/local"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner copies --image to --output, standing in for the real pipeline.
const fakeRunner = `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    --image) in="$2"; shift ;;
    --output) out="$2"; shift ;;
  esac
  shift
done
cp "$in" "$out"
`

func TestRun_Passes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a posix shell")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	runner := filepath.Join(dir, "fake-pipeline")
	require.NoError(t, os.WriteFile(runner, []byte(fakeRunner), 0o755))
	modelDir := filepath.Join(dir, "model")
	require.NoError(t, os.Mkdir(modelDir, 0o755))
	t.Setenv("QWEN_MODEL_PATH", modelDir)
	t.Setenv("QWEN_PIPELINE_RUNNER", runner)

	out := &bytes.Buffer{}
	code := run(context.Background(), out, nil)

	require.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "✓ All tests passed!")
	size, err := local.VerifyImage(outputFile)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(512, 512), size)
}

func TestRun_MissingModel(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("QWEN_MODEL_PATH", filepath.Join(dir, "missing"))

	out := &bytes.Buffer{}
	code := run(context.Background(), out, nil)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "✗ Failed to load pipeline")
	assert.NotContains(t, out.String(), "All tests passed")
}

package ai

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFile_PNG(t *testing.T) {
	data := pngBytes(t)
	// the extension does not matter, the content is sniffed
	path := filepath.Join(t.TempDir(), "image.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	uri, err := EncodeFile(path)
	require.NoError(t, err)

	prefix := "data:image/png;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestEncodeFile_NotImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp_image.png")
	require.NoError(t, os.WriteFile(path, []byte("hello, plain text"), 0o600))

	_, err := EncodeFile(path)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestEncodeFile_Missing(t *testing.T) {
	_, err := EncodeFile(filepath.Join(t.TempDir(), "nope.png"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading file")
}

package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage is returned when content does not sniff as an image.
var ErrNotImage = errors.New("unsupported or unrecognized image format")

// DownloadImage saves the body of imageURL to path.
func DownloadImage(ctx context.Context, client *http.Client, imageURL, path string) error {
	body, err := fetch(ctx, client, imageURL)
	if err != nil {
		return err
	}
	defer func() {
		_ = body.Close()
	}()

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err = io.Copy(out, body); err != nil {
		_ = out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}

// FetchImage downloads imageURL into memory and sniffs its MIME type.
func FetchImage(ctx context.Context, client *http.Client, imageURL string) ([]byte, string, error) {
	body, err := fetch(ctx, client, imageURL)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = body.Close()
	}()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", fmt.Errorf("reading image: %w", err)
	}
	mime, err := imageMIME(mimetype.Detect(data))
	if err != nil {
		return nil, "", err
	}
	return data, mime, nil
}

// EncodeFile returns the file as data:<mime>;base64,<data>.
func EncodeFile(path string) (string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading file: %s: %w", path, err)
	}
	mime, err := imageMIME(m)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading file: %s: %w", path, err)
	}
	return DataURI(mime, data), nil
}

func DataURI(mime string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}

func imageMIME(m *mimetype.MIME) (string, error) {
	mime := m.String()
	if !strings.HasPrefix(mime, "image/") {
		return "", ErrNotImage
	}
	return mime, nil
}

func fetch(ctx context.Context, client *http.Client, imageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("failed to download image: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

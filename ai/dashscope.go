package ai

import (
	"Vixtral/core"
	"Vixtral/lib/sl"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const generationPath = "/services/aigc/multimodal-generation/generation"

type DashScope struct {
	conf       *core.Config
	log        *slog.Logger
	httpClient *http.Client
	// the temp image has a fixed name, only one edit may use it at a time
	tempMutex sync.Mutex
}

func NewDashScope(conf *core.Config, log *slog.Logger) *DashScope {
	return &DashScope{
		conf: conf,
		log:  log.With(sl.Module("dashscope")),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (d *DashScope) Name() string {
	return "dashscope"
}

// Edit downloads imageURL, sends it inline with prompt and returns the
// produced image URLs. A non-200 answer is returned as *APIError.
func (d *DashScope) Edit(ctx context.Context, imageURL, prompt string) (*core.EditResult, error) {
	image, err := d.prepareImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	response, err := d.Call(ctx, image, prompt)
	if err != nil {
		return nil, err
	}
	return &core.EditResult{
		Provider:  d.Name(),
		RequestID: response.RequestID,
		Images:    response.Images(),
	}, nil
}

// prepareImage stores the remote image in the temp file, encodes it and
// removes the file again whatever happens.
func (d *DashScope) prepareImage(ctx context.Context, imageURL string) (string, error) {
	d.tempMutex.Lock()
	defer d.tempMutex.Unlock()

	path := d.conf.DashScope.TempImage
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			d.log.Warn("removing temp image", sl.Err(err))
		}
	}()

	if err := DownloadImage(ctx, d.httpClient, imageURL, path); err != nil {
		return "", err
	}
	image, err := EncodeFile(path)
	if err != nil {
		return "", err
	}
	d.log.With(
		sl.Text("url", imageURL),
		slog.Int("encoded", len(image)),
	).Debug("image encoded")
	return image, nil
}

// Call sends one multimodal conversation request. image is a URL or data URI.
func (d *DashScope) Call(ctx context.Context, image, prompt string) (*ConversationResponse, error) {
	request := NewEditRequest(d.conf.DashScope.Model, image, prompt, ConversationParameters{
		N:              d.conf.DashScope.Variants,
		Watermark:      d.conf.DashScope.Watermark,
		NegativePrompt: d.conf.DashScope.NegativePrompt,
		PromptExtend:   d.conf.DashScope.PromptExtend,
	})
	jsonBytes, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}

	endpoint := strings.TrimRight(d.conf.DashScope.BaseURL, "/") + generationPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBytes))
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", d.conf.DashScope.ApiKey))
	req.Header.Set("Content-Type", "application/json")

	d.log.With(
		slog.String("model", request.Model),
		slog.Int("n", request.Parameters.N),
		sl.Text("prompt", prompt),
		sl.Secret(d.conf.DashScope.ApiKey),
	).Info("calling multimodal conversation")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getting response: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			d.log.Error("closing response body", sl.Err(err))
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	d.log.With(
		slog.Int("status", resp.StatusCode),
		sl.Text("body", string(body)),
	).Debug("response body")

	var response ConversationResponse
	decodeErr := json.Unmarshal(body, &response)

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{
			HTTPStatus: resp.StatusCode,
			Code:       response.Code,
			Message:    response.Message,
		}
		if decodeErr != nil {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decoding response: %w", decodeErr)
	}

	d.log.With(
		slog.String("request_id", response.RequestID),
		slog.Int("choices", len(response.Output.Choices)),
	).Info("multimodal conversation")
	return &response, nil
}

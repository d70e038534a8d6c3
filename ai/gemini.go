package ai

import (
	"Vixtral/core"
	"Vixtral/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const editInstruction = `You are an expert image editor. I will provide an image and editing instructions.

EDITING REQUEST: %s

SYSTEM INSTRUCTIONS:
1. Process the provided image according to the editing request
2. Generate a modified version of the image
3. Return ONLY the edited image as a base64-encoded PNG
4. The response must start with "data:image/png;base64,"
5. Do not include any explanations or text

IMPORTANT: Your entire response should be just the base64 image data.`

const promptInstruction = `Given the following Reddit post title for an image editing request, generate a clear, concise, and effective prompt for an AI image editing model. You may use the title and image context if available.

Title: %s
Image URL: %s

Prompt:`

var ErrNoImage = errors.New("gemini: no image in response")

// Gemini drafts edit prompts and can edit images itself.
type Gemini struct {
	conf       *core.Config
	log        *slog.Logger
	client     *genai.Client
	httpClient *http.Client
}

func NewGemini(ctx context.Context, conf *core.Config, log *slog.Logger) (*Gemini, error) {
	if conf.Gemini.ApiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not configured")
	}
	cc := &genai.ClientConfig{
		APIKey:  conf.Gemini.ApiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if conf.Gemini.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: conf.Gemini.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &Gemini{
		conf:   conf,
		log:    log.With(sl.Module("gemini")),
		client: client,
		httpClient: &http.Client{
			Timeout: time.Minute,
		},
	}, nil
}

func (g *Gemini) Name() string {
	return "gemini"
}

// GeneratePrompt turns a request title into an instruction for an edit model.
func (g *Gemini) GeneratePrompt(ctx context.Context, title, imageURL string) (string, error) {
	if title == "" || imageURL == "" {
		return "", errors.New("missing title or imageUrl")
	}
	contents := genai.Text(fmt.Sprintf(promptInstruction, title, imageURL))

	result, err := g.client.Models.GenerateContent(ctx, g.conf.Gemini.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generating prompt: %w", err)
	}
	if result == nil {
		return "", errors.New("genai: empty generate response")
	}
	prompt := strings.TrimSpace(result.Text())
	if prompt == "" {
		return "", errors.New("genai: empty prompt")
	}
	g.log.With(sl.Text("title", title), sl.Text("prompt", prompt)).Info("generated prompt")
	return prompt, nil
}

// Edit sends the image inline with the instruction. Inline image parts of the
// answer are preferred; otherwise an image written into the text is used.
func (g *Gemini) Edit(ctx context.Context, imageURL, prompt string) (*core.EditResult, error) {
	data, mime, err := FetchImage(ctx, g.httpClient, imageURL)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(fmt.Sprintf(editInstruction, prompt)),
		genai.NewPartFromBytes(data, mime),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.1),
		TopP:            genai.Ptr[float32](1),
		TopK:            genai.Ptr[float32](32),
		MaxOutputTokens: 2048,
	}

	result, err := g.client.Models.GenerateContent(ctx, g.conf.Gemini.ImageModel, contents, config)
	if err != nil {
		return nil, fmt.Errorf("editing image: %w", err)
	}
	if result == nil {
		return nil, errors.New("genai: empty generate response")
	}

	images := inlineImages(result)
	if len(images) == 0 {
		text := strings.TrimSpace(result.Text())
		g.log.With(slog.Int("length", len(text)), sl.Text("text", text)).Debug("no inline image")
		if uri := ExtractImage(text); uri != "" {
			images = append(images, uri)
		}
	}
	if len(images) == 0 {
		return nil, ErrNoImage
	}
	return &core.EditResult{Provider: g.Name(), Images: images}, nil
}

func inlineImages(result *genai.GenerateContentResponse) []string {
	var images []string
	for _, candidate := range result.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil {
				continue
			}
			if strings.HasPrefix(part.InlineData.MIMEType, "image/") {
				images = append(images, DataURI(part.InlineData.MIMEType, part.InlineData.Data))
			}
		}
	}
	return images
}

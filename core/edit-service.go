package core

import (
	"Vixtral/reddit"
	"Vixtral/storage"
	"context"
)

// EditResult is what one edit call produced. Images hold URLs or data URIs.
type EditResult struct {
	Provider  string   `json:"provider"`
	RequestID string   `json:"request_id,omitempty"`
	Images    []string `json:"images"`
}

type ImageEditor interface {
	Name() string
	Edit(ctx context.Context, imageURL, prompt string) (*EditResult, error)
}

type PromptGenerator interface {
	GeneratePrompt(ctx context.Context, title, imageURL string) (string, error)
}

type EditService interface {
	Edit(ctx context.Context, userId int64, imageURL, prompt string) (*EditResult, error)
	SuggestPrompt(ctx context.Context, title, imageURL string) (string, error)
	Requests(ctx context.Context, refresh bool) ([]reddit.Post, error)
	History(userId int64, limit int) []storage.EditRecord
}

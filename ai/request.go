package ai

// ConversationRequest is the body of a DashScope multimodal-generation call.
type ConversationRequest struct {
	Model      string                 `json:"model"`
	Input      ConversationInput      `json:"input"`
	Parameters ConversationParameters `json:"parameters"`
}

type ConversationInput struct {
	Messages []Message `json:"messages"`
}

type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart carries either an image (URL or data URI) or a text
type ContentPart struct {
	Image string `json:"image,omitempty"`
	Text  string `json:"text,omitempty"`
}

type ConversationParameters struct {
	N              int    `json:"n"`
	Watermark      bool   `json:"watermark"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	PromptExtend   bool   `json:"prompt_extend"`
}

// NewEditRequest builds a single user message with the image first, then the instruction.
func NewEditRequest(model, image, prompt string, params ConversationParameters) *ConversationRequest {
	return &ConversationRequest{
		Model: model,
		Input: ConversationInput{
			Messages: []Message{{
				Role: "user",
				Content: []ContentPart{
					{Image: image},
					{Text: prompt},
				},
			}},
		},
		Parameters: params,
	}
}

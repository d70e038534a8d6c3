package ai

import "fmt"

// ConversationResponse is returned by DashScope for both success and failure;
// Code and Message are only set on failure.
type ConversationResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Output    struct {
		Choices []Choice `json:"choices"`
	} `json:"output"`
	Usage struct {
		Width      int `json:"width"`
		Height     int `json:"height"`
		ImageCount int `json:"image_count"`
	} `json:"usage"`
}

type Choice struct {
	FinishReason string  `json:"finish_reason"`
	Message      Message `json:"message"`
}

// Images lists every image entry of every choice, in order.
func (r *ConversationResponse) Images() []string {
	images := make([]string, 0)
	for _, choice := range r.Output.Choices {
		for _, part := range choice.Message.Content {
			if part.Image != "" {
				images = append(images, part.Image)
			}
		}
	}
	return images
}

// APIError is a non-200 answer from DashScope.
type APIError struct {
	HTTPStatus int    `json:"http_status"`
	Code       string `json:"error_code"`
	Message    string `json:"error_message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dashscope: status %d: %s: %s", e.HTTPStatus, e.Code, e.Message)
}

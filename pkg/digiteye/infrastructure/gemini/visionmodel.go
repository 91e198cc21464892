package gemini

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"kgeyst.com/digiteye/pkg/common"
	"kgeyst.com/digiteye/pkg/digiteye/domain"
	"kgeyst.com/digiteye/pkg/digiteye/infrastructure/retryhttp"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash-preview-09-2025"
)

const fallbackErrorMessage = "incomplete or empty response from the model"

// Sender is implemented by *retryhttp.Client.
type Sender interface {
	Send(request *retryhttp.Request) (json.RawMessage, error)
}

type VisionModel struct {
	sender   Sender
	endpoint string
	policy   retryhttp.RetryPolicy
}

func NewVisionModel(sender Sender, config *common.Config) *VisionModel {
	baseURL := strings.TrimSuffix(config.GetStringOrDefault(domain.ConfigKeyVisionBaseURL, DefaultBaseURL), "/")
	model := config.GetStringOrDefault(domain.ConfigKeyVisionModel, DefaultModel)
	defaults := retryhttp.DefaultRetryPolicy()
	return &VisionModel{
		sender:   sender,
		endpoint: fmt.Sprintf("%s/models/%s:generateContent", baseURL, model),
		policy: retryhttp.RetryPolicy{
			MaxAttempts: config.GetIntOrDefault(domain.ConfigKeyRequestMaxAttempts, defaults.MaxAttempts),
			BaseDelay:   config.GetDurationOrDefault(domain.ConfigKeyRequestBaseDelay, defaults.BaseDelay),
			Timeout:     config.GetDurationOrDefault(domain.ConfigKeyRequestTimeout, defaults.Timeout),
		},
	}
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

// Ask sends a single user message made of the prompt and the inline image, and returns the text of the first part
// of the first candidate. Any failure, including an unexpected response shape, is a *domain.VisionError.
func (v *VisionModel) Ask(image []byte, mimeType, prompt, credential string) (string, error) {
	payload, err := json.Marshal(generateContentRequest{
		Contents: []content{
			{
				Role: "user",
				Parts: []part{
					{Text: prompt},
					{InlineData: &inlineData{
						MIMEType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(image),
					}},
				},
			},
		},
	})
	if err != nil {
		return "", domain.WrapVisionError(err)
	}
	rawResponse, err := v.sender.Send(retryhttp.NewJSONRequest(v.endpoint, payload, credential, v.policy))
	if err != nil {
		return "", domain.WrapVisionError(err)
	}
	// Any field may be missing or have an unexpected type.
	var response map[string]any
	if err := json.Unmarshal(rawResponse, &response); err != nil {
		return "", domain.NewVisionError(fallbackErrorMessage)
	}
	text := extractText(response)
	if text != "" {
		return text, nil
	}
	return "", domain.NewVisionError(extractErrorMessage(response))
}

// candidates[0].content.parts[0].text
func extractText(response map[string]any) string {
	candidates, _ := response["candidates"].([]any)
	if len(candidates) == 0 {
		return ""
	}
	candidate, _ := candidates[0].(map[string]any)
	candidateContent, _ := candidate["content"].(map[string]any)
	parts, _ := candidateContent["parts"].([]any)
	if len(parts) == 0 {
		return ""
	}
	firstPart, _ := parts[0].(map[string]any)
	text, _ := firstPart["text"].(string)
	return text
}

func extractErrorMessage(response map[string]any) string {
	apiError, _ := response["error"].(map[string]any)
	message, _ := apiError["message"].(string)
	if message == "" {
		return fallbackErrorMessage
	}
	return message
}

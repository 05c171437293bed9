package study

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	appcfg "github.com/studyhelper/core/internal/config"
)

const (
	visionCallTimeout      = 60 * time.Second
	visionMaxTokens        = 2000
	visionTemperature      = 0.2
	defaultImageMIMEType   = "image/jpeg"
	extractionFailureToken = "IMAGE_PROCESSING_ERROR"
)

// UnreadableImageError reports that the model could not read the uploaded
// image. Message carries the model's own explanation.
type UnreadableImageError struct {
	Message string
}

func (e *UnreadableImageError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return "image cannot be processed"
	}
	return e.Message
}

// extractTextFromImage sends the image to the vision model and returns the
// teacher-style walkthrough of its content. Vision extraction goes over the
// chat-completions wire format, so Anthropic providers are rejected here.
func extractTextFromImage(provider *appcfg.AIProvider, image []byte, mimeType string) (string, error) {
	if provider == nil {
		return "", errors.New("AI provider is nil")
	}
	if isAnthropicProviderType(provider.Type) {
		return "", fmt.Errorf("provider %q cannot run vision extraction, configure an OpenAI-style provider for vision_model", provider.ID)
	}
	if strings.TrimSpace(provider.APIKey) == "" {
		return "", errors.New("AI provider api key is empty")
	}
	if len(image) == 0 {
		return "", errors.New("image is empty")
	}

	endpoint := normalizeOpenAICompatibleEndpoint(provider.Endpoint)
	model := strings.TrimSpace(provider.DefaultModel)
	if model == "" {
		model = defaultOpenAIModel
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model":       model,
		"temperature": visionTemperature,
		"max_tokens":  visionMaxTokens,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": extractionPrompt,
					},
					{
						"type": "image_url",
						"image_url": map[string]string{
							"url": imageDataURL(image, mimeType),
						},
					},
				},
			},
		},
	})

	raw, err := postChatCompletions(endpoint, provider.APIKey, body, visionCallTimeout)
	if err != nil {
		return "", err
	}

	extracted := strings.TrimSpace(raw)
	if extracted == "" {
		return "", errors.New("empty response from AI")
	}
	if failure := detectExtractionFailure(extracted); failure != nil {
		return "", failure
	}
	return extracted, nil
}

func imageDataURL(image []byte, mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if mt == "" {
		mt = defaultImageMIMEType
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(image)
}

// detectExtractionFailure recognizes the error JSON the extraction prompt
// instructs the model to emit for unreadable images. Only a response that is
// itself that JSON object counts; extractions merely mentioning the token
// pass through.
func detectExtractionFailure(raw string) error {
	cleaned := stripJSONFences(raw)
	if !strings.HasPrefix(cleaned, "{") {
		return nil
	}

	var escape struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(cleaned), &escape); err != nil {
		return nil
	}
	if escape.Error != extractionFailureToken {
		return nil
	}
	return &UnreadableImageError{Message: escape.Message}
}

package llm

import (
	"errors"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultLMStudioBaseURL = "http://localhost:1234/v1"

// LMStudioClient chats with a local LM Studio server.
type LMStudioClient struct {
	openAIChat
	baseURL string
}

// NewLMStudioClient creates a client for model served at baseURL.
// LM Studio ignores the API key, but the OpenAI client insists on one.
func NewLMStudioClient(model, baseURL string) (*LMStudioClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("lm studio model is required")
	}
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}

	apiKey := "lm-studio"
	for _, env := range []string{"LMSTUDIO_API_KEY", "OPENAI_API_KEY"} {
		if v := os.Getenv(env); v != "" {
			apiKey = v
			break
		}
	}

	return &LMStudioClient{
		openAIChat: openAIChat{
			client: openai.NewClient(option.WithBaseURL(baseURL), option.WithAPIKey(apiKey)),
			model:  model,
			name:   "lm studio",
		},
		baseURL: baseURL,
	}, nil
}

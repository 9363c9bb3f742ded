package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	copilotTokenURL = "https://api.github.com/copilot_internal/v2/token"
	copilotBaseURL  = "https://api.githubcopilot.com"
	editorVersion   = "Timetable/1.0"

	// DefaultModel is used when no model is configured for Copilot.
	DefaultModel = "gpt-4o"
)

// CopilotClient chats through GitHub Copilot's OpenAI compatible API.
type CopilotClient struct {
	openAIChat
}

// NewCopilotClient exchanges the user's GitHub token for a Copilot bearer
// token and builds a client with it.
func NewCopilotClient(model string) (*CopilotClient, error) {
	if model == "" {
		model = DefaultModel
	}

	githubToken, err := LoadGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("loading GitHub token: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bearer, err := exchangeToken(ctx, httpClient, githubToken)
	if err != nil {
		return nil, fmt.Errorf("exchanging token: %w", err)
	}

	return &CopilotClient{openAIChat{
		client: openai.NewClient(
			option.WithBaseURL(copilotBaseURL),
			option.WithAPIKey(bearer),
			option.WithHeader("Editor-Version", editorVersion),
			option.WithHeader("Editor-Plugin-Version", editorVersion),
			option.WithHeader("Copilot-Integration-Id", "vscode-chat"),
		),
		model: model,
		name:  ProviderCopilot,
	}}, nil
}

func exchangeToken(ctx context.Context, httpClient *http.Client, githubToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, copilotTokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+githubToken)
	req.Header.Set("User-Agent", editorVersion)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("token exchange failed (status %d): %s", resp.StatusCode, body)
	}

	var token struct {
		Token     string `json:"token"`
		ExpiresAt int64  `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return token.Token, nil
}

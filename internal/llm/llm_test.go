package llm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func TestNormalizeProvider(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ProviderCopilot},
		{"Copilot", ProviderCopilot},
		{" ollama ", ProviderOllama},
		{"lm-studio", ProviderLMStudio},
		{"llmstudio", ProviderLMStudio},
		{"LMStudio", ProviderLMStudio},
		{"gemini", "gemini"},
	}
	for _, tt := range tests {
		if got := NormalizeProvider(tt.in); got != tt.want {
			t.Errorf("NormalizeProvider(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToLangChainMessages(t *testing.T) {
	got := toLangChainMessages([]Message{
		{Role: RoleSystem, Content: "coach"},
		{Role: RoleUser, Content: "my day"},
		{Role: RoleAssistant, Content: "nice"},
		{Role: "tool", Content: "x"},
	})

	want := []llms.ChatMessageType{
		llms.ChatMessageTypeSystem,
		llms.ChatMessageTypeHuman,
		llms.ChatMessageTypeAI,
		llms.ChatMessageTypeHuman,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Role != want[i] {
			t.Errorf("message %d role = %q, want %q", i, got[i].Role, want[i])
		}
	}
}

func TestToOpenAIMessagesKeepsOrder(t *testing.T) {
	got := toOpenAIMessages([]Message{
		{Role: RoleSystem, Content: "coach"},
		{Role: RoleUser, Content: "my day"},
	})
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if got[0].OfSystem == nil || got[1].OfUser == nil {
		t.Errorf("roles not mapped: %+v", got)
	}
}

func TestLoadGitHubToken(t *testing.T) {
	t.Run("env wins", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "from-env")
		got, err := LoadGitHubToken()
		if err != nil || got != "from-env" {
			t.Fatalf("LoadGitHubToken() = %q, %v", got, err)
		}
	})

	t.Run("hosts file", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("XDG_CONFIG_HOME", dir)

		path := filepath.Join(dir, "github-copilot", "hosts.json")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		data := `{"github.com": {"user": "mentee", "oauth_token": "gho_abc"}}`
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}

		got, err := LoadGitHubToken()
		if err != nil || got != "gho_abc" {
			t.Fatalf("LoadGitHubToken() = %q, %v", got, err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		if _, err := LoadGitHubToken(); err == nil {
			t.Fatal("expected error without any token source")
		}
	})
}

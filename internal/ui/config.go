package ui

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/config"
	"github.com/javiermolinar/timetable/internal/llm"
	"github.com/javiermolinar/timetable/internal/session"
	"github.com/javiermolinar/timetable/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  timetable config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(cfg)

	// Ask if user wants to edit
	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(os.Stdin)

	cfg.Mentee.Name = promptValue(reader, "Mentee name", cfg.Mentee.Name)
	cfg.Mentee.ID = promptInt(reader, "Mentee id", cfg.Mentee.ID)
	cfg.Session.DefaultColor = promptChoice(reader, "Default color", cfg.Session.DefaultColor, colorNames())
	cfg.Session.CommitCooldown = promptValue(reader, "Tap cooldown after saving (e.g. 300ms)", cfg.Session.CommitCooldown)
	cfg.LLM.Provider = promptChoice(reader, "LLM provider", cfg.LLM.Provider, []string{llm.ProviderCopilot, llm.ProviderOllama, llm.ProviderLMStudio})
	cfg.LLM.Model = promptValue(reader, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(reader, "LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[mentee]")
	fmt.Printf("  id               = %d\n", cfg.Mentee.ID)
	fmt.Printf("  name             = %s\n", cfg.Mentee.Name)
	fmt.Println("\n[session]")
	fmt.Printf("  default_color    = %s\n", cfg.Session.DefaultColor)
	fmt.Printf("  commit_cooldown  = %s\n", cfg.Session.CommitCooldown)
	fmt.Println("\n[llm]")
	fmt.Printf("  provider         = %s\n", cfg.LLM.Provider)
	fmt.Printf("  model            = %s\n", cfg.LLM.Model)
	fmt.Printf("  base_url         = %s\n", cfg.LLM.BaseURL)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[ui]")
	fmt.Printf("  theme            = %s\n", cfg.UI.Theme)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int64) int64 {
	for {
		value := promptValue(reader, label, strconv.FormatInt(current, 10))
		n, err := strconv.ParseInt(value, 10, 64)
		if err == nil && n > 0 {
			return n
		}
		fmt.Printf("  Invalid %s %q: must be a positive integer\n", strings.ToLower(label), value)
	}
}

func promptChoice(reader *bufio.Reader, label, current string, options []string) string {
	for {
		value := strings.ToLower(promptValue(reader, fmt.Sprintf("%s (%s)", label, strings.Join(options, ", ")), current))
		if slices.Contains(options, value) {
			return value
		}
		fmt.Printf("  Invalid %s %q\n", strings.ToLower(label), value)
	}
}

func colorNames() []string {
	colors := session.Colors()
	names := make([]string, len(colors))
	for i, c := range colors {
		names[i] = string(c)
	}
	return names
}

func promptTheme(reader *bufio.Reader, current string) string {
	return promptChoice(reader, "UI theme", current, theme.Available())
}

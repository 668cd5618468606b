package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ethanbaker/carebridge/pkg/sdk"
	"github.com/ethanbaker/carebridge/pkg/utils"
)

// Console is a wrapper for the interactive session's state
type Console struct {
	client         *sdk.Client
	role           string
	language       string
	targetLanguage string
	conversationID string
}

var console *Console

func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	baseURL := cfg.GetWithDefault("CAREBRIDGE_URL", "http://localhost:8000")

	// Create the console with sensible defaults; commands change them later
	console = &Console{
		client:         sdk.NewClient(baseURL),
		role:           "patient",
		language:       "en",
		targetLanguage: "es",
		conversationID: "default",
	}

	// Start interactive session
	ctx := context.Background()
	if err := startInteractiveSession(ctx); err != nil {
		log.Fatalf("Failed to start interactive session: %v", err)
	}
}

// startInteractiveSession runs the command line interface against the backend
func startInteractiveSession(ctx context.Context) error {
	fmt.Println("CareBridge console started. Plain input sends a message; type 'help' for commands, 'exit' to quit.")

	// Verify the backend is reachable before reading input
	health, err := console.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	fmt.Printf("Backend status: %s\n", health.Status)

	// Create scanner for reading user input
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("\n[%s %s->%s] > ", console.role, console.language, console.targetLanguage)

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "exit" {
			break
		}

		if input == "" {
			continue
		}

		if err := executeCommand(ctx, input); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}

// executeCommand dispatches one line of input to the backend
func executeCommand(ctx context.Context, input string) error {
	command, rest, _ := strings.Cut(input, " ")

	switch command {
	case "help":
		fmt.Println("Commands:")
		fmt.Println("  role <doctor|patient>   switch speaker")
		fmt.Println("  lang <source> <target>  switch language pair")
		fmt.Println("  history                 show the conversation")
		fmt.Println("  search <query>          search the conversation")
		fmt.Println("  summary                 generate a consultation summary")
		fmt.Println("  languages               list supported languages")
		fmt.Println("Anything else is sent as a message.")
		return nil

	case "role":
		if rest != "doctor" && rest != "patient" {
			return fmt.Errorf("role must be 'doctor' or 'patient'")
		}
		console.role = rest
		return nil

	case "lang":
		parts := strings.Fields(rest)
		if len(parts) != 2 {
			return fmt.Errorf("usage: lang <source> <target>")
		}
		console.language = parts[0]
		console.targetLanguage = parts[1]
		return nil

	case "history":
		history, err := console.client.GetHistory(ctx, console.conversationID, 0)
		if err != nil {
			return err
		}
		for _, entry := range history.Messages {
			fmt.Printf("[%s] %s: %s\n", entry.CreatedAt.Format("15:04:05"), entry.Role, entry.OriginalText)
			if entry.TranslatedText != entry.OriginalText {
				fmt.Printf("  (Translated: %s)\n", entry.TranslatedText)
			}
		}
		fmt.Printf("%d message(s)\n", history.Count)
		return nil

	case "search":
		if rest == "" {
			return fmt.Errorf("usage: search <query>")
		}
		results, err := console.client.Search(ctx, &sdk.SearchRequest{
			Query:          rest,
			ConversationID: console.conversationID,
		})
		if err != nil {
			return err
		}
		for _, result := range results.Results {
			fmt.Printf("[%s] %s: %s\n", result.Message.CreatedAt.Format("15:04:05"), result.Message.Role, result.Snippet)
		}
		fmt.Printf("%d match(es)\n", results.Count)
		return nil

	case "summary":
		report, err := console.client.GenerateSummary(ctx, console.conversationID)
		if err != nil {
			return err
		}
		fmt.Println(report.Summary)
		fmt.Printf("(source: %s, %d messages)\n", report.Source, report.MessageCount)
		return nil

	case "languages":
		languages, err := console.client.Languages(ctx)
		if err != nil {
			return err
		}
		for code, name := range languages.Languages {
			fmt.Printf("  %s  %s\n", code, name)
		}
		return nil
	}

	// Anything else is message text
	response, err := console.client.SendMessage(ctx, &sdk.SendMessageRequest{
		Text:           input,
		Role:           console.role,
		Language:       console.language,
		TargetLanguage: console.targetLanguage,
		ConversationID: console.conversationID,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Translated: %s\n", response.TranslatedText)
	return nil
}

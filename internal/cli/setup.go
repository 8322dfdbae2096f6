package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/embedpipe/embedpipe/internal/adapter"
	"github.com/embedpipe/embedpipe/internal/config"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive first-time configuration",
		Long:  "Choose the embedding provider and store API keys for embedpipe.",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)

			cfg := config.DefaultGlobal()

			fmt.Println("Which embedding provider should embedpipe use?")
			fmt.Println("  [1] Ollama (local, private, free — requires Ollama)")
			fmt.Println("  [2] OpenAI (text-embedding-3-small, small cost)")
			fmt.Println("  [3] Gemini (text-embedding-004)")
			fmt.Print("> ")

			switch readLine(reader) {
			case "2":
				cfg.Embedder = adapter.ProviderOpenAI
				fmt.Print("Enter your OpenAI API key (or press Enter to set OPENAI_API_KEY later): ")
				if key := readLine(reader); key != "" {
					cfg.Keys.OpenAI = key
				}
			case "3":
				cfg.Embedder = adapter.ProviderGemini
				fmt.Print("Enter your Gemini API key (or press Enter to set GEMINI_API_KEY later): ")
				if key := readLine(reader); key != "" {
					cfg.Keys.Gemini = key
				}
			default:
				cfg.Embedder = adapter.ProviderOllama
				fmt.Printf("Ollama host (press Enter for %s): ", cfg.Ollama.Host)
				if host := readLine(reader); host != "" {
					cfg.Ollama.Host = host
				}
			}

			if err := config.SaveGlobal(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			path, _ := config.GlobalConfigPath()
			fmt.Println()
			fmt.Printf("Saved %s. Try: echo '[\"hello\"]' | embedpipe\n", path)
			return nil
		},
	}
}

// readLine reads one trimmed line from r, returning "" on EOF.
func readLine(r *bufio.Reader) string {
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

// Package cli defines the Cobra command tree for the embedpipe CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/embedpipe/embedpipe/internal/adapter"
	"github.com/embedpipe/embedpipe/internal/batch"
	"github.com/embedpipe/embedpipe/internal/config"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd embeds one batch from stdin and prints the vectors to stdout.
var rootCmd = &cobra.Command{
	Use:   "embedpipe",
	Short: "Embed a JSON batch of texts from stdin and print the vectors as JSON",
	Long: `Embedpipe reads a JSON array of strings from standard input, embeds the
whole batch in one call to the configured embedding provider, and writes
the vectors to standard output as a single JSON line — an array of arrays
of numbers, one vector per input string, in input order.

  echo '["hello", "world"]' | embedpipe

Run 'embedpipe setup' to choose a provider. The default is a local Ollama
instance serving the all-minilm sentence transformer.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadGlobal()
		if err != nil {
			return err
		}

		emb, err := adapter.New(cfg.Embedder, cfg.Ollama.EmbedModel,
			cfg.APIKey(cfg.Embedder), cfg.Ollama.Host)
		if err != nil {
			return err
		}

		return batch.Process(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), emb)
	},
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(
		newPullCmd(),
		newSetupCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("embedpipe %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/embedpipe/embedpipe/internal/adapter"
	"github.com/embedpipe/embedpipe/internal/config"
)

func newPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Download the embedding model into the local Ollama instance",
		Long: `Ask the configured Ollama server to pull the embedding model, so the
first embed run does not pay the download cost.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadGlobal()
			if err != nil {
				return err
			}
			if cfg.Embedder != adapter.ProviderOllama {
				return fmt.Errorf("pull only applies to the ollama embedder (configured: %s)", cfg.Embedder)
			}

			var bar *progressbar.ProgressBar
			if term.IsTerminal(int(os.Stderr.Fd())) {
				bar = progressbar.NewOptions64(-1,
					progressbar.OptionSetDescription("  Pulling "+cfg.Ollama.EmbedModel),
					progressbar.OptionSpinnerType(14),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowBytes(true),
					progressbar.OptionClearOnFinish(),
				)
			}

			err = adapter.PullOllamaModel(cmd.Context(), cfg.Ollama.Host, cfg.Ollama.EmbedModel,
				func(p adapter.PullProgress) {
					if bar == nil || p.Total <= 0 {
						return
					}
					bar.ChangeMax64(p.Total)
					_ = bar.Set64(p.Completed)
				})
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			fmt.Printf("Pulled %s from %s.\n", cfg.Ollama.EmbedModel, cfg.Ollama.Host)
			return nil
		},
	}
}

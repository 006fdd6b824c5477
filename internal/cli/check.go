package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"quizbot/internal/config"
	"quizbot/internal/corpus"
)

// newCheckCmd parses the configured corpus and reports the entry count,
// so a broken corpus file is caught before a deploy.
func newCheckCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Parse the corpus and report how many questions it contains",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Corpus.Path == "" {
				return fmt.Errorf("check requires a corpus file path")
			}
			quiz, err := corpus.Load(cmd.Context(), corpus.NewFileLoader(cfg.Corpus.Path))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "corpus ok: %d questions\n", quiz.Len())
			return nil
		},
	}
}

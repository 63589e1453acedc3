package spaneval

import (
	"encoding/json"
	"fmt"

	"github.com/mwiater/spaneval/internal/corpus"
	"github.com/spf13/cobra"
)

// validateCmd loads the corpus and prints its statistics.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the corpus loads and print its statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		stats, err := corpus.Validate(cfg.Corpus)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cfg.JSONMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}
		fmt.Fprintf(out, "Corpus:    %s (%s)\n", stats.Path, stats.Format)
		fmt.Fprintf(out, "Documents: %d\n", stats.Documents)
		fmt.Fprintf(out, "Spans:     %d (%d unlabeled)\n", stats.Spans, stats.Unlabeled)
		for _, label := range stats.SortedLabels() {
			fmt.Fprintf(out, "  %-12s %d\n", label, stats.Labels[label])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

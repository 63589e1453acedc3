package spaneval

import (
	"encoding/json"
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/mwiater/spaneval/internal/corpus"
	"github.com/mwiater/spaneval/internal/logging"
	"github.com/mwiater/spaneval/internal/majority"
	"github.com/spf13/cobra"
)

// trainCmd trains a majority model on the whole corpus and saves it.
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a majority model on the whole corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.ModelPath == "" {
			return fmt.Errorf("train: --model is required")
		}
		docs, err := corpus.Load(cfg.Corpus)
		if err != nil {
			return err
		}

		model := majority.Train(docs)
		if err := majority.SaveModel(cfg.ModelPath, model); err != nil {
			return err
		}
		logging.LogEvent("trained model labels=%d total=%d path=%s", len(model.Ranking), model.Total, cfg.ModelPath)
		logging.LogValue("model", model)
		if cfg.Debug {
			pp.Fprintln(cmd.ErrOrStderr(), model)
		}

		out := cmd.OutOrStdout()
		if cfg.JSONMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(model)
		}
		if model.Empty() {
			fmt.Fprintln(out, "No labels found; the model is empty.")
			return nil
		}
		fmt.Fprintf(out, "Model written to %s (%d labeled spans)\n", cfg.ModelPath, model.Total)
		for _, lc := range model.Ranking {
			fmt.Fprintf(out, "  %-12s %6d  %.6f\n", lc.Label, lc.Count, model.Score(lc.Label))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
}

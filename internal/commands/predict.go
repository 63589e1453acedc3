package spaneval

import (
	"encoding/json"
	"fmt"

	"github.com/mwiater/spaneval/internal/annotation"
	"github.com/mwiater/spaneval/internal/corpus"
	"github.com/mwiater/spaneval/internal/logging"
	"github.com/mwiater/spaneval/internal/majority"
	"github.com/mwiater/spaneval/internal/util"
	"github.com/spf13/cobra"
)

// snippetRunes bounds the covered text printed next to each prediction.
const snippetRunes = 40

type documentPredictions struct {
	Name        string            `json:"name"`
	Predictions []annotation.Span `json:"predictions"`
}

// predictCmd applies a saved model to every span of the corpus.
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Write recommendations for every span using a saved model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.ModelPath == "" {
			return fmt.Errorf("predict: --model is required")
		}
		model, err := majority.LoadModel(cfg.ModelPath)
		if err != nil {
			return err
		}
		docs, err := corpus.Load(cfg.Corpus)
		if err != nil {
			return err
		}

		predictor := majority.Predictor{MaxRecommendations: cfg.Recommender.Max()}
		results := make([]documentPredictions, 0, len(docs))
		written := 0
		for _, doc := range docs {
			out, err := predictor.PredictDocument(model, doc)
			if err != nil {
				return err
			}
			preds := out.Predictions()
			if preds == nil {
				preds = []annotation.Span{}
			}
			written += len(preds)
			results = append(results, documentPredictions{Name: doc.Name, Predictions: preds})
		}
		logging.LogEvent("predicted documents=%d predictions=%d", len(docs), written)

		out := cmd.OutOrStdout()
		if cfg.JSONMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		for i, r := range results {
			fmt.Fprintf(out, "%s\n", r.Name)
			for _, p := range r.Predictions {
				covered := util.Snippet(docs[i].Text, p.Start, p.End, snippetRunes)
				fmt.Fprintf(out, "  [%d,%d) %-12s %.6f  %q\n", p.Start, p.End, p.Label, p.Score, covered)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
}

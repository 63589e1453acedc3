package spaneval

import (
	"fmt"
	"io"

	"github.com/mwiater/spaneval/internal/annotation"
	"github.com/mwiater/spaneval/internal/appconfig"
	"github.com/mwiater/spaneval/internal/corpus"
	"github.com/mwiater/spaneval/internal/evaluation"
	"github.com/mwiater/spaneval/internal/logging"
	"github.com/mwiater/spaneval/internal/report"
	"github.com/mwiater/spaneval/internal/splitter"
	"github.com/spf13/cobra"
)

// evaluateCmd runs a percentage or incremental evaluation over the corpus.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate the majority recommender on a corpus",
	Long: `Split the corpus, train the majority recommender on the training part and score its
predictions on the held-out part. With --strategy incremental the training window grows by
--batchSize spans per step and every step is scored against the same test block.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		docs, err := corpus.Load(cfg.Corpus)
		if err != nil {
			return err
		}
		summary, err := runEvaluation(cfg, docs, progressWriter(cmd, cfg))
		if err != nil {
			return err
		}
		return writeSummary(cmd.OutOrStdout(), cfg, summary)
	},
}

func init() {
	flags := evaluateCmd.Flags()
	flags.String("strategy", "", "splitting strategy: percentage or incremental")
	flags.Float64("trainRatio", 0, "share of the corpus used for training (0 = default 0.8)")
	flags.Int("maxTrainSamples", 0, "maximum training set size (0 = default)")
	flags.Int("batchSize", 0, "incremental window growth per step (0 = default)")
	flags.Int("maxSteps", 0, "stop an incremental run after this many steps (0 = no limit)")
	flags.String("averaging", "", "score averaging: macro or micro")
	flags.String("unit", "", "split unit: span or document")

	bindFlags(flags, map[string]string{
		"strategy":        "splitter.strategy",
		"trainRatio":      "splitter.trainRatio",
		"maxTrainSamples": "splitter.maxTrainSamples",
		"batchSize":       "splitter.batchSize",
		"maxSteps":        "splitter.maxSteps",
		"averaging":       "evaluation.averaging",
		"unit":            "evaluation.unit",
	})

	rootCmd.AddCommand(evaluateCmd)
}

// progressWriter returns stderr for incremental table runs and nil otherwise.
func progressWriter(cmd *cobra.Command, cfg *appconfig.Config) io.Writer {
	if cfg.JSONMode || cfg.Splitter.StrategyName() != appconfig.StrategyIncremental {
		return nil
	}
	return cmd.ErrOrStderr()
}

// runEvaluation evaluates docs according to cfg and summarises the run.
func runEvaluation(cfg *appconfig.Config, docs annotation.Corpus, progressOut io.Writer) (report.Summary, error) {
	ev, err := evaluation.NewEvaluator(*cfg)
	if err != nil {
		return report.Summary{}, err
	}
	meta := report.Meta{
		Corpus:    cfg.Corpus.Path,
		Strategy:  cfg.Splitter.StrategyName(),
		Averaging: ev.Averaging,
		Unit:      ev.Unit,
	}

	s, err := splitter.FromConfig(cfg.Splitter, ev.Size(docs))
	if err != nil {
		return report.Summary{}, err
	}
	logging.LogValue("splitter", map[string]any{
		"strategy":        meta.Strategy,
		"corpusSize":      ev.Size(docs),
		"trainRatio":      cfg.Splitter.Ratio(),
		"maxTrainSamples": cfg.Splitter.TrainCap(),
		"batchSize":       cfg.Splitter.Batch(),
	})

	inc, ok := s.(*splitter.IncrementalSplitter)
	if !ok {
		res, err := ev.Evaluate(docs, s)
		if err != nil {
			return report.Summary{}, err
		}
		logging.LogStep("evaluate", 1, res.TrainingSetSize(), res.TestSetSize(), res.Scores().Map())
		return report.FromResult(meta, res), nil
	}

	total := inc.Steps()
	if limit := cfg.Splitter.MaxSteps; limit > 0 && limit < total {
		total = limit
	}
	progress := report.NewProgress(total, progressOut)
	steps, err := ev.EvaluateIncremental(docs, inc, cfg.Splitter.MaxSteps, func(st evaluation.StepResult) {
		logging.LogStep("incremental", st.Step, st.TrainingSize, st.TestSize, st.Result.Scores().Map())
		progress.Increment()
	})
	progress.Finish()
	if err != nil {
		return report.Summary{}, fmt.Errorf("incremental evaluation: %w", err)
	}
	return report.NewSummary(meta, steps), nil
}

// writeSummary prints the summary as JSON or tables and exports it when configured.
func writeSummary(out io.Writer, cfg *appconfig.Config, summary report.Summary) error {
	if cfg.JSONMode {
		if err := report.WriteJSON(out, summary); err != nil {
			return err
		}
	} else {
		if err := report.RenderTable(out, summary); err != nil {
			return err
		}
		if err := report.RenderPerLabel(out, summary.PerLabel); err != nil {
			return err
		}
	}

	if cfg.ExportPath != "" {
		if err := report.Export(cfg.ExportPath, summary); err != nil {
			return err
		}
		logging.LogEvent("exported run %s to %s", summary.RunID, cfg.ExportPath)
	}
	return nil
}

package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}
	if cfg == nil {
		cfg = &Config{}
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:               %v\n", cfg.Debug)
	fmt.Fprintf(out, "  JSON Mode:           %v\n", cfg.JSONMode)
	fmt.Fprintf(out, "  Log File:            %s\n", cfg.LogFilePath())
	if cfg.ExportPath != "" {
		fmt.Fprintf(out, "  Export:              %s\n", cfg.ExportPath)
	}
	fmt.Fprintln(out, "  Recommender:")
	fmt.Fprintf(out, "    Layer:             %s\n", cfg.Recommender.LayerName)
	fmt.Fprintf(out, "    Feature:           %s\n", cfg.Recommender.FeatureName)
	fmt.Fprintf(out, "    Max Recommendations: %d\n", cfg.Recommender.Max())
	fmt.Fprintln(out, "  Splitter:")
	fmt.Fprintf(out, "    Strategy:          %s\n", cfg.Splitter.StrategyName())
	fmt.Fprintf(out, "    Train Ratio:       %v\n", cfg.Splitter.Ratio())
	fmt.Fprintf(out, "    Max Train Samples: %d\n", cfg.Splitter.TrainCap())
	if cfg.Splitter.StrategyName() == StrategyIncremental {
		fmt.Fprintf(out, "    Batch Size:        %d\n", cfg.Splitter.Batch())
		fmt.Fprintf(out, "    Max Steps:         %d\n", cfg.Splitter.MaxSteps)
	}
	fmt.Fprintln(out, "  Evaluation:")
	fmt.Fprintf(out, "    Averaging:         %s\n", cfg.Evaluation.AveragingMode())
	fmt.Fprintf(out, "    Unit:              %s\n", cfg.Evaluation.SplitUnit())
	fmt.Fprintln(out, "  Corpus:")
	fmt.Fprintf(out, "    Path:              %s\n", cfg.Corpus.Path)
	fmt.Fprintf(out, "    Format:            %s\n", cfg.Corpus.Format)
	if cfg.Corpus.Format == FormatCoNLL {
		fmt.Fprintf(out, "    Token Numbers:     %v\n", cfg.Corpus.HasTokenNumber)
		fmt.Fprintf(out, "    Header:            %v\n", cfg.Corpus.HasHeader)
		fmt.Fprintf(out, "    Embedded NEs:      %v\n", cfg.Corpus.HasEmbeddedNamedEntity)
	}
}

// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoad checks that a valid file loads with defaults applied through the
// accessors, and that malformed, invalid and missing files fail.
func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
        "recommender": {"layerName": "NamedEntity", "featureName": "value"},
        "splitter": {"strategy": "incremental", "trainRatio": 0.5},
        "corpus": {"path": "data/ner.jsonl"}
    }`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.ConfigPath != path {
		t.Fatalf("expected ConfigPath %s, got %s", path, cfg.ConfigPath)
	}
	if cfg.Recommender.Max() != 3 {
		t.Fatalf("expected default max recommendations 3, got %d", cfg.Recommender.Max())
	}
	if cfg.Splitter.StrategyName() != StrategyIncremental {
		t.Fatalf("expected incremental strategy, got %s", cfg.Splitter.StrategyName())
	}
	if cfg.Splitter.Ratio() != 0.5 {
		t.Fatalf("expected ratio 0.5, got %v", cfg.Splitter.Ratio())
	}
	if cfg.Splitter.TrainCap() != 10 || cfg.Splitter.Batch() != 5000 {
		t.Fatalf("expected default caps, got %d/%d", cfg.Splitter.TrainCap(), cfg.Splitter.Batch())
	}
	if cfg.Evaluation.AveragingMode() != AveragingMacro || cfg.Evaluation.SplitUnit() != UnitSpan {
		t.Fatalf("unexpected evaluation defaults %+v", cfg.Evaluation)
	}
	if cfg.LogFilePath() != "spaneval.log" {
		t.Fatalf("expected default log file, got %s", cfg.LogFilePath())
	}

	if _, err := Load(writeConfig(t, `{ "splitter": [`)); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}
	if _, err := Load(writeConfig(t, `{ "splitter": {"trainRatio": 1.5} }`)); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for ratio, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nonexistent.json")); err == nil {
		t.Fatal("Load() with nonexistent file should have failed")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"defaults", Config{}, true},
		{"negative ratio", Config{Splitter: Splitter{TrainRatio: -0.2}}, false},
		{"negative cap", Config{Splitter: Splitter{MaxTrainSamples: -1}}, false},
		{"negative batch", Config{Splitter: Splitter{BatchSize: -5}}, false},
		{"negative steps", Config{Splitter: Splitter{MaxSteps: -1}}, false},
		{"unknown strategy", Config{Splitter: Splitter{Strategy: "random"}}, false},
		{"micro averaging", Config{Evaluation: Evaluation{Averaging: "MICRO"}}, true},
		{"unknown averaging", Config{Evaluation: Evaluation{Averaging: "weighted"}}, false},
		{"document unit", Config{Evaluation: Evaluation{Unit: "document"}}, true},
		{"unknown unit", Config{Evaluation: Evaluation{Unit: "token"}}, false},
		{"conll corpus", Config{Corpus: Corpus{Format: "conll"}}, true},
		{"unknown format", Config{Corpus: Corpus{Format: "xml"}}, false},
		{"negative recommendations", Config{Recommender: Recommender{MaxRecommendations: -1}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{
		Splitter: Splitter{Strategy: StrategyIncremental, BatchSize: 50, MaxSteps: 3},
		Corpus:   Corpus{Path: "train.tsv", Format: FormatCoNLL, HasHeader: true},
	}
	ShowConfig(&buf, "config/config.json", cfg)

	out := buf.String()
	for _, want := range []string{
		"Config file: config/config.json",
		"Strategy:          incremental",
		"Batch Size:        50",
		"Header:            true",
		"Averaging:         macro",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %s", want, out)
		}
	}

	buf.Reset()
	ShowConfig(&buf, "", nil)
	if !strings.Contains(buf.String(), "No config file loaded") {
		t.Fatalf("expected defaults notice, got %s", buf.String())
	}
}

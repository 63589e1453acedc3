package report

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mwiater/spaneval/internal/evaluation"
)

func result(pairs ...[2]string) *evaluation.Result {
	r := evaluation.NewResult(evaluation.Macro)
	for _, p := range pairs {
		r.Add(p[0], p[1])
	}
	return r
}

func sampleSteps() []evaluation.StepResult {
	return []evaluation.StepResult{
		{Step: 1, TrainingSize: 3, TestSize: 4, Result: result([2]string{"LOC", "LOC"}, [2]string{"PER", "LOC"}, [2]string{"LOC", "LOC"}, [2]string{"ORG", "LOC"})},
		{Step: 2, TrainingSize: 6, TestSize: 4, Result: result([2]string{"LOC", "LOC"}, [2]string{"PER", "PER"}, [2]string{"LOC", "LOC"}, [2]string{"ORG", "LOC"})},
	}
}

func TestNewSummary(t *testing.T) {
	s := NewSummary(Meta{Corpus: "ner.jsonl", Strategy: "incremental", Averaging: evaluation.Macro, Unit: evaluation.UnitSpan}, sampleSteps())
	if _, err := uuid.Parse(s.RunID); err != nil {
		t.Fatalf("expected a uuid run id, got %q: %v", s.RunID, err)
	}
	if len(s.Steps) != 2 || s.Final().Step != 2 {
		t.Fatalf("unexpected steps %+v", s.Steps)
	}
	if math.Abs(s.Accuracy.Mean-0.625) > 1e-12 {
		t.Fatalf("expected mean accuracy 0.625, got %v", s.Accuracy.Mean)
	}
	// Sample standard deviation of {0.5, 0.75}.
	if math.Abs(s.Accuracy.StdDev-math.Sqrt(0.03125)) > 1e-12 {
		t.Fatalf("unexpected accuracy stddev %v", s.Accuracy.StdDev)
	}
	if len(s.PerLabel) != 3 || s.PerLabel[2].Label != "PER" || s.PerLabel[2].TP != 1 {
		t.Fatalf("per-label breakdown should come from the last step, got %+v", s.PerLabel)
	}
}

func TestFromResult(t *testing.T) {
	s := FromResult(Meta{Strategy: "percentage"}, result([2]string{"LOC", "LOC"}))
	if len(s.Steps) != 1 || s.F1.StdDev != 0 || s.F1.Mean != 1 {
		t.Fatalf("unexpected single-step summary %+v", s)
	}
	empty := FromResult(Meta{}, nil)
	if len(empty.Steps) != 0 || empty.Final().Step != 0 || empty.F1.Mean != 0 {
		t.Fatalf("unexpected empty summary %+v", empty)
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	s := NewSummary(Meta{Corpus: "ner.jsonl", Strategy: "incremental", Averaging: evaluation.Macro, Unit: evaluation.UnitSpan}, sampleSteps())
	if err := RenderTable(&buf, s); err != nil {
		t.Fatalf("RenderTable: %v", err)
	}
	out := buf.String()
	for _, want := range []string{s.RunID, "strategy=incremental", "corpus=ner.jsonl", "Accuracy", "0.500000", "0.750000", "mean=0.625000"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderPerLabel(&buf, s.PerLabel); err != nil {
		t.Fatalf("RenderPerLabel: %v", err)
	}
	for _, want := range []string{"Label", "LOC", "ORG", "PER", "Support"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in per-label output:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := RenderPerLabel(&buf, nil); err != nil || !strings.Contains(buf.String(), "no labels scored") {
		t.Fatalf("unexpected empty per-label output %q, %v", buf.String(), err)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	s := NewSummary(Meta{Strategy: "incremental"}, sampleSteps())
	if err := WriteJSON(&buf, s); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["runId"] != s.RunID {
		t.Fatalf("expected runId %s, got %v", s.RunID, decoded["runId"])
	}
	steps, ok := decoded["steps"].([]any)
	if !ok || len(steps) != 2 {
		t.Fatalf("unexpected steps %v", decoded["steps"])
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	s := NewSummary(Meta{Strategy: "incremental"}, sampleSteps())

	yamlPath := filepath.Join(dir, "out", "run.yaml")
	if err := Export(yamlPath, s); err != nil {
		t.Fatalf("Export yaml: %v", err)
	}
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if decoded["strategy"] != "incremental" || decoded["runId"] != s.RunID {
		t.Fatalf("unexpected yaml export %v", decoded)
	}

	jsonPath := filepath.Join(dir, "run.json")
	if err := Export(jsonPath, s); err != nil {
		t.Fatalf("Export json: %v", err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if !json.Valid(data) {
		t.Fatalf("expected JSON export, got %s", data)
	}
}

func TestProgress(t *testing.T) {
	var p *Progress
	p.Increment()
	p.Finish()

	noop := NewProgress(3, nil)
	noop.Increment()
	noop.Finish()

	bar := NewProgress(2, io.Discard)
	bar.Increment()
	bar.Increment()
	bar.Finish()
}

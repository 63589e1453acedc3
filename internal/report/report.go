// internal/report/report.go
// Package report summarises evaluation runs and renders or exports them.
package report

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/mwiater/spaneval/internal/evaluation"
)

// Meta describes the run a summary belongs to.
type Meta struct {
	Corpus    string
	Strategy  string
	Averaging evaluation.Averaging
	Unit      evaluation.Unit
}

// Step holds the scores of one evaluation step.
type Step struct {
	Step         int               `json:"step" yaml:"step"`
	TrainingSize int               `json:"trainingSize" yaml:"trainingSize"`
	TestSize     int               `json:"testSize" yaml:"testSize"`
	Scores       evaluation.Scores `json:"scores" yaml:"scores"`
}

// Aggregate is the spread of a metric across steps.
type Aggregate struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
}

// Summary is the exportable record of an evaluation run.
type Summary struct {
	RunID     string                  `json:"runId" yaml:"runId"`
	CreatedAt time.Time               `json:"createdAt" yaml:"createdAt"`
	Corpus    string                  `json:"corpus,omitempty" yaml:"corpus,omitempty"`
	Strategy  string                  `json:"strategy" yaml:"strategy"`
	Averaging evaluation.Averaging    `json:"averaging" yaml:"averaging"`
	Unit      evaluation.Unit         `json:"unit" yaml:"unit"`
	Steps     []Step                  `json:"steps" yaml:"steps"`
	PerLabel  []evaluation.LabelScore `json:"perLabel" yaml:"perLabel"`
	F1        Aggregate               `json:"f1" yaml:"f1"`
	Accuracy  Aggregate               `json:"accuracy" yaml:"accuracy"`
}

// NewSummary builds a summary from incremental steps. The per-label
// breakdown is taken from the last step.
func NewSummary(meta Meta, steps []evaluation.StepResult) Summary {
	s := Summary{
		RunID:     uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Corpus:    meta.Corpus,
		Strategy:  meta.Strategy,
		Averaging: meta.Averaging,
		Unit:      meta.Unit,
		Steps:     make([]Step, 0, len(steps)),
	}

	f1s := make([]float64, 0, len(steps))
	accs := make([]float64, 0, len(steps))
	for _, st := range steps {
		if st.Result == nil {
			continue
		}
		scores := st.Result.Scores()
		s.Steps = append(s.Steps, Step{
			Step:         st.Step,
			TrainingSize: st.TrainingSize,
			TestSize:     st.TestSize,
			Scores:       scores,
		})
		f1s = append(f1s, scores.F1)
		accs = append(accs, scores.Accuracy)
		s.PerLabel = st.Result.PerLabel()
	}
	s.F1 = aggregate(f1s)
	s.Accuracy = aggregate(accs)
	return s
}

// FromResult summarises a single evaluation as a one-step run.
func FromResult(meta Meta, res *evaluation.Result) Summary {
	if res == nil {
		return NewSummary(meta, nil)
	}
	return NewSummary(meta, []evaluation.StepResult{{
		Step:         1,
		TrainingSize: res.TrainingSetSize(),
		TestSize:     res.TestSetSize(),
		Result:       res,
	}})
}

// Final returns the last step, or the zero Step when there is none.
func (s Summary) Final() Step {
	if len(s.Steps) == 0 {
		return Step{}
	}
	return s.Steps[len(s.Steps)-1]
}

func aggregate(values []float64) Aggregate {
	if len(values) == 0 {
		return Aggregate{}
	}
	agg := Aggregate{Mean: stat.Mean(values, nil)}
	if len(values) > 1 {
		if sd := stat.StdDev(values, nil); !math.IsNaN(sd) {
			agg.StdDev = sd
		}
	}
	return agg
}

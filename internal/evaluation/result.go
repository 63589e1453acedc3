// internal/evaluation/result.go
// Package evaluation scores a recommender against held-out gold spans.
package evaluation

import (
	"fmt"
	"sort"
	"strings"
)

// Averaging selects how per-label counts are combined into precision and recall.
type Averaging string

const (
	// Macro averages per-label precision and recall over every observed label.
	Macro Averaging = "macro"
	// Micro divides the global true positive count by the global totals.
	Micro Averaging = "micro"
)

// ParseAveraging accepts "macro" or "micro" in any case. Empty means macro.
func ParseAveraging(s string) (Averaging, error) {
	switch a := Averaging(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return Macro, nil
	case Macro, Micro:
		return a, nil
	default:
		return "", fmt.Errorf("unknown averaging %q", s)
	}
}

type counts struct {
	tp, fp, fn, support int
}

// Result accumulates the outcome of predicting one test set.
type Result struct {
	averaging Averaging

	tp, fp, fn, total int
	labels            map[string]*counts
	confusion         map[string]map[string]int

	trainingSize, testSize int
	trainingDocs, testDocs int
}

// NewResult returns an empty accumulator using the given averaging mode.
func NewResult(averaging Averaging) *Result {
	if averaging == "" {
		averaging = Macro
	}
	return &Result{
		averaging: averaging,
		labels:    make(map[string]*counts),
		confusion: make(map[string]map[string]int),
	}
}

func (r *Result) label(name string) *counts {
	c, ok := r.labels[name]
	if !ok {
		c = &counts{}
		r.labels[name] = c
	}
	return c
}

// Add records one test instance with its gold and predicted label. An empty
// string stands for "no label".
func (r *Result) Add(gold, predicted string) {
	r.total++
	row, ok := r.confusion[gold]
	if !ok {
		row = make(map[string]int)
		r.confusion[gold] = row
	}
	row[predicted]++

	if gold != "" {
		r.label(gold).support++
	}
	if gold != "" && gold == predicted {
		r.tp++
		r.label(gold).tp++
		return
	}
	if predicted != "" {
		r.fp++
		r.label(predicted).fp++
	}
	if gold != "" {
		r.fn++
		r.label(gold).fn++
	}
}

// AddUnmatched records a prediction made where no gold span exists. It counts
// as a false positive but not as a test instance.
func (r *Result) AddUnmatched(predicted string) {
	if predicted == "" {
		return
	}
	r.fp++
	r.label(predicted).fp++
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func harmonic(p, r float64) float64 {
	return ratio(2*p*r, p+r)
}

// Averaging returns the mode used by Precision, Recall and F1.
func (r *Result) Averaging() Averaging { return r.averaging }

// Accuracy is the share of test instances whose prediction equals the gold label.
func (r *Result) Accuracy() float64 {
	return ratio(float64(r.tp), float64(r.total))
}

// Precision returns micro or macro precision depending on the averaging mode.
func (r *Result) Precision() float64 {
	if r.averaging == Micro {
		return ratio(float64(r.tp), float64(r.tp+r.fp))
	}
	p, _ := r.macro()
	return p
}

// Recall returns micro or macro recall depending on the averaging mode.
func (r *Result) Recall() float64 {
	if r.averaging == Micro {
		return ratio(float64(r.tp), float64(r.tp+r.fn))
	}
	_, rec := r.macro()
	return rec
}

// F1 is the harmonic mean of Precision and Recall.
func (r *Result) F1() float64 {
	return harmonic(r.Precision(), r.Recall())
}

func (r *Result) macro() (precision, recall float64) {
	if len(r.labels) == 0 {
		return 0, 0
	}
	for _, c := range r.labels {
		precision += ratio(float64(c.tp), float64(c.tp+c.fp))
		recall += ratio(float64(c.tp), float64(c.tp+c.fn))
	}
	n := float64(len(r.labels))
	return precision / n, recall / n
}

// TruePositives returns the global true positive count.
func (r *Result) TruePositives() int { return r.tp }

// FalsePositives returns the global false positive count.
func (r *Result) FalsePositives() int { return r.fp }

// FalseNegatives returns the global false negative count.
func (r *Result) FalseNegatives() int { return r.fn }

// Total returns the number of scored test instances.
func (r *Result) Total() int { return r.total }

// TrainingSetSize is the number of training positions of the split.
func (r *Result) TrainingSetSize() int { return r.trainingSize }

// TestSetSize is the number of test positions of the split.
func (r *Result) TestSetSize() int { return r.testSize }

// TrainingDocuments is the number of distinct documents contributing training spans.
func (r *Result) TrainingDocuments() int { return r.trainingDocs }

// TestDocuments is the number of distinct documents contributing test spans.
func (r *Result) TestDocuments() int { return r.testDocs }

// LabelScore is the breakdown for a single label.
type LabelScore struct {
	Label     string  `json:"label" yaml:"label"`
	TP        int     `json:"tp" yaml:"tp"`
	FP        int     `json:"fp" yaml:"fp"`
	FN        int     `json:"fn" yaml:"fn"`
	Support   int     `json:"support" yaml:"support"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
}

// PerLabel returns the per-label scores sorted by label.
func (r *Result) PerLabel() []LabelScore {
	out := make([]LabelScore, 0, len(r.labels))
	for name, c := range r.labels {
		p := ratio(float64(c.tp), float64(c.tp+c.fp))
		rec := ratio(float64(c.tp), float64(c.tp+c.fn))
		out = append(out, LabelScore{
			Label:     name,
			TP:        c.tp,
			FP:        c.fp,
			FN:        c.fn,
			Support:   c.support,
			Precision: p,
			Recall:    rec,
			F1:        harmonic(p, rec),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Confusion returns a copy of the gold by predicted label table.
func (r *Result) Confusion() map[string]map[string]int {
	out := make(map[string]map[string]int, len(r.confusion))
	for gold, row := range r.confusion {
		cp := make(map[string]int, len(row))
		for pred, n := range row {
			cp[pred] = n
		}
		out[gold] = cp
	}
	return out
}

// Scores is a serialisable snapshot of a Result.
type Scores struct {
	Averaging         Averaging `json:"averaging" yaml:"averaging"`
	Accuracy          float64   `json:"accuracy" yaml:"accuracy"`
	Precision         float64   `json:"precision" yaml:"precision"`
	Recall            float64   `json:"recall" yaml:"recall"`
	F1                float64   `json:"f1" yaml:"f1"`
	TruePositives     int       `json:"tp" yaml:"tp"`
	FalsePositives    int       `json:"fp" yaml:"fp"`
	FalseNegatives    int       `json:"fn" yaml:"fn"`
	Total             int       `json:"total" yaml:"total"`
	TrainingSetSize   int       `json:"trainingSetSize" yaml:"trainingSetSize"`
	TestSetSize       int       `json:"testSetSize" yaml:"testSetSize"`
	TrainingDocuments int       `json:"trainingDocuments" yaml:"trainingDocuments"`
	TestDocuments     int       `json:"testDocuments" yaml:"testDocuments"`
}

// Scores computes every metric once.
func (r *Result) Scores() Scores {
	return Scores{
		Averaging:         r.averaging,
		Accuracy:          r.Accuracy(),
		Precision:         r.Precision(),
		Recall:            r.Recall(),
		F1:                r.F1(),
		TruePositives:     r.tp,
		FalsePositives:    r.fp,
		FalseNegatives:    r.fn,
		Total:             r.total,
		TrainingSetSize:   r.trainingSize,
		TestSetSize:       r.testSize,
		TrainingDocuments: r.trainingDocs,
		TestDocuments:     r.testDocs,
	}
}

// Map returns the four headline metrics keyed by name.
func (s Scores) Map() map[string]float64 {
	return map[string]float64{
		"accuracy":  s.Accuracy,
		"precision": s.Precision,
		"recall":    s.Recall,
		"f1":        s.F1,
	}
}

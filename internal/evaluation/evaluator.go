package evaluation

import (
	"fmt"
	"strings"

	"github.com/mwiater/spaneval/internal/annotation"
	"github.com/mwiater/spaneval/internal/appconfig"
	"github.com/mwiater/spaneval/internal/majority"
	"github.com/mwiater/spaneval/internal/splitter"
)

// Unit selects what a split position refers to.
type Unit string

const (
	// UnitSpan indexes the gold spans of the corpus in document order.
	UnitSpan Unit = "span"
	// UnitDocument indexes whole documents.
	UnitDocument Unit = "document"
)

// ParseUnit accepts "span" or "document" in any case. Empty means span.
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(strings.ToLower(strings.TrimSpace(s))); u {
	case "":
		return UnitSpan, nil
	case UnitSpan, UnitDocument:
		return u, nil
	default:
		return "", fmt.Errorf("unknown split unit %q", s)
	}
}

// Evaluator trains a majority model on one side of a split and scores its
// predictions on the other.
type Evaluator struct {
	Predictor majority.Predictor
	Averaging Averaging
	Unit      Unit
	// Store receives predictions; nil uses an annotation.DocumentStore.
	Store annotation.SpanStore
}

// NewEvaluator builds an Evaluator from application configuration.
func NewEvaluator(cfg appconfig.Config) (Evaluator, error) {
	avg, err := ParseAveraging(cfg.Evaluation.Averaging)
	if err != nil {
		return Evaluator{}, err
	}
	unit, err := ParseUnit(cfg.Evaluation.Unit)
	if err != nil {
		return Evaluator{}, err
	}
	return Evaluator{
		Predictor: majority.Predictor{MaxRecommendations: cfg.Recommender.Max()},
		Averaging: avg,
		Unit:      unit,
	}, nil
}

func (e Evaluator) store() annotation.SpanStore {
	if e.Store == nil {
		return annotation.NewDocumentStore()
	}
	return e.Store
}

// Size returns the number of split positions corpus provides under the
// evaluator's unit.
func (e Evaluator) Size(corpus annotation.Corpus) int {
	if e.Unit == UnitDocument {
		return len(corpus)
	}
	return corpus.SpanCount()
}

// testCase is one label-free document to predict together with its gold spans.
type testCase struct {
	work *annotation.Document
	gold []annotation.Span
}

// partition applies a split to the corpus, returning training documents that
// carry only training spans and test cases that carry only test spans.
func (e Evaluator) partition(corpus annotation.Corpus, split splitter.Split) ([]*annotation.Document, []testCase) {
	if e.Unit == UnitDocument {
		train := make([]*annotation.Document, 0, len(split.Training))
		for _, i := range split.Training {
			train = append(train, corpus[i])
		}
		tests := make([]testCase, 0, len(split.Test))
		for _, i := range split.Test {
			tests = append(tests, testCase{work: corpus[i].WithoutLabels(), gold: corpus[i].GoldSpans()})
		}
		return train, tests
	}

	instances := corpus.Instances()
	group := func(positions []int) (order []int, byDoc map[int]*annotation.Document) {
		byDoc = make(map[int]*annotation.Document)
		for _, pos := range positions {
			inst := instances[pos]
			doc, ok := byDoc[inst.Doc]
			if !ok {
				src := corpus[inst.Doc]
				doc = &annotation.Document{Name: src.Name, Text: src.Text}
				byDoc[inst.Doc] = doc
				order = append(order, inst.Doc)
			}
			doc.Spans = append(doc.Spans, inst.Span)
		}
		return order, byDoc
	}

	trainOrder, trainDocs := group(split.Training)
	train := make([]*annotation.Document, 0, len(trainOrder))
	for _, i := range trainOrder {
		train = append(train, trainDocs[i])
	}

	testOrder, testDocs := group(split.Test)
	tests := make([]testCase, 0, len(testOrder))
	for _, i := range testOrder {
		doc := testDocs[i]
		tests = append(tests, testCase{work: doc.WithoutLabels(), gold: doc.Spans})
	}
	return train, tests
}

// Evaluate splits the corpus, trains on the training side and scores the top
// prediction at every test span. Each call is independent of earlier ones.
func (e Evaluator) Evaluate(corpus annotation.Corpus, s splitter.DataSplitter) (*Result, error) {
	split, err := s.Split(e.Size(corpus))
	if err != nil {
		return nil, fmt.Errorf("error splitting corpus: %w", err)
	}

	train, tests := e.partition(corpus, split)
	model := majority.Train(train)
	store := e.store()

	result := NewResult(e.Averaging)
	result.trainingSize = split.TrainingSize()
	result.testSize = split.TestSize()
	result.trainingDocs = len(train)
	result.testDocs = len(tests)

	for _, tc := range tests {
		if _, err := e.Predictor.Predict(model, tc.work, store); err != nil {
			return nil, fmt.Errorf("error predicting %s: %w", tc.work.Name, err)
		}
		var predictions []annotation.Span
		for _, sp := range store.ReadSpans(tc.work) {
			if sp.IsPrediction() {
				predictions = append(predictions, sp)
			}
		}
		for _, pair := range Match(tc.gold, predictions) {
			if pair.HasGold {
				result.Add(pair.GoldLabel(), pair.PredictedLabel())
			} else {
				result.AddUnmatched(pair.PredictedLabel())
			}
		}
	}
	return result, nil
}

// StepResult is the outcome of one incremental step.
type StepResult struct {
	Step         int
	TrainingSize int
	TestSize     int
	Result       *Result
}

// Observer is notified after every incremental step.
type Observer func(StepResult)

// EvaluateIncremental advances s until it is exhausted or maxSteps steps ran,
// evaluating after every advance. maxSteps <= 0 means no limit.
func (e Evaluator) EvaluateIncremental(corpus annotation.Corpus, s *splitter.IncrementalSplitter, maxSteps int, observe Observer) ([]StepResult, error) {
	if n := e.Size(corpus); n != s.CorpusSize() {
		return nil, fmt.Errorf("corpus has %d positions, splitter expects %d: %w", n, s.CorpusSize(), splitter.ErrCorpusSizeMismatch)
	}

	var steps []StepResult
	for s.HasNext() && (maxSteps <= 0 || len(steps) < maxSteps) {
		if err := s.Next(); err != nil {
			return steps, err
		}
		res, err := e.Evaluate(corpus, s)
		if err != nil {
			return steps, fmt.Errorf("step %d: %w", s.Step(), err)
		}
		step := StepResult{
			Step:         s.Step(),
			TrainingSize: res.TrainingSetSize(),
			TestSize:     res.TestSetSize(),
			Result:       res,
		}
		steps = append(steps, step)
		if observe != nil {
			observe(step)
		}
	}
	return steps, nil
}

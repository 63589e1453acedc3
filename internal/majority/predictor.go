package majority

import (
	"fmt"

	"github.com/mwiater/spaneval/internal/annotation"
)

// DefaultMaxRecommendations is used when a Predictor has no positive limit.
const DefaultMaxRecommendations = 3

// Predictor writes the model's top labels as scored predictions.
type Predictor struct {
	MaxRecommendations int
}

func (p Predictor) limit() int {
	if p.MaxRecommendations <= 0 {
		return DefaultMaxRecommendations
	}
	return p.MaxRecommendations
}

// Predict writes up to MaxRecommendations candidates at the offsets of every
// unlabeled gold span in doc. Each candidate is scored with its training
// frequency. It returns the number of predictions written.
func (p Predictor) Predict(m *Model, doc *annotation.Document, store annotation.SpanStore) (int, error) {
	if m.Empty() || doc == nil {
		return 0, nil
	}
	candidates := m.Top(p.limit())

	seen := make(map[annotation.Offsets]bool)
	written := 0
	for _, s := range store.ReadSpans(doc) {
		if s.IsPrediction() || s.Labeled() {
			continue
		}
		key := s.Offsets()
		if seen[key] {
			continue
		}
		seen[key] = true
		for _, c := range candidates {
			score := float64(c.Count) / float64(m.Total)
			if err := store.AddSpan(doc, s.Start, s.End, c.Label, score); err != nil {
				return written, fmt.Errorf("predict %s: %w", c.Label, err)
			}
			written++
		}
	}
	return written, nil
}

// PredictDocument returns a label-free copy of doc with predictions applied.
func (p Predictor) PredictDocument(m *Model, doc *annotation.Document) (*annotation.Document, error) {
	work := doc.WithoutLabels()
	if _, err := p.Predict(m, work, annotation.NewDocumentStore()); err != nil {
		return nil, err
	}
	return work, nil
}

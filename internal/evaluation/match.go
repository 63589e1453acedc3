package evaluation

import (
	"sort"

	"github.com/mwiater/spaneval/internal/annotation"
)

// Pair links a gold span with the prediction scored against it. Either side
// may be missing: a gold span without a prediction, or a prediction at
// offsets no gold span covers.
type Pair struct {
	Gold          annotation.Span
	Predicted     annotation.Span
	HasGold       bool
	HasPrediction bool
}

// GoldLabel returns the gold label, or "" when there is no gold span.
func (p Pair) GoldLabel() string {
	if !p.HasGold {
		return ""
	}
	return p.Gold.Label
}

// PredictedLabel returns the predicted label, or "" when nothing was predicted.
func (p Pair) PredictedLabel() string {
	if !p.HasPrediction {
		return ""
	}
	return p.Predicted.Label
}

// Match pairs gold and predicted spans with identical offsets. Only the best
// prediction per offset pair is used: highest score, then lowest label.
// Overlapping but unequal spans do not match. Gold pairs come first in input
// order, followed by unmatched predictions in document order.
func Match(gold, predicted []annotation.Span) []Pair {
	best := make(map[annotation.Offsets]annotation.Span)
	for _, p := range predicted {
		key := p.Offsets()
		cur, ok := best[key]
		if !ok || p.Score > cur.Score || (p.Score == cur.Score && p.Label < cur.Label) {
			best[key] = p
		}
	}

	pairs := make([]Pair, 0, len(gold))
	covered := make(map[annotation.Offsets]bool, len(gold))
	for _, g := range gold {
		key := g.Offsets()
		covered[key] = true
		p, ok := best[key]
		pairs = append(pairs, Pair{Gold: g, Predicted: p, HasGold: true, HasPrediction: ok})
	}

	var unmatched []annotation.Span
	for key, p := range best {
		if !covered[key] {
			unmatched = append(unmatched, p)
		}
	}
	sort.Slice(unmatched, func(i, j int) bool {
		if unmatched[i].Start != unmatched[j].Start {
			return unmatched[i].Start < unmatched[j].Start
		}
		return unmatched[i].End < unmatched[j].End
	})
	for _, p := range unmatched {
		pairs = append(pairs, Pair{Predicted: p, HasPrediction: true})
	}
	return pairs
}

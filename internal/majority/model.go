// internal/majority/model.go
// Package majority implements the data-majority baseline recommender: it
// counts training labels and proposes the most frequent ones for every
// unlabeled span.
package majority

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/mwiater/spaneval/internal/annotation"
)

// ErrInvalidModel is returned when a persisted model is inconsistent.
var ErrInvalidModel = errors.New("invalid majority model")

// LabelCount is one entry of a model's label ranking.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Model holds label frequencies ordered from most to least frequent.
type Model struct {
	Ranking []LabelCount `json:"ranking"`
	Total   int          `json:"total"`
}

// Train counts the labels of the gold spans in docs. Unlabeled spans and
// predictions are ignored. A corpus without labels yields an empty model.
func Train(docs []*annotation.Document) *Model {
	counts := make(map[string]int)
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, s := range doc.Spans {
			if s.IsPrediction() || !s.Labeled() {
				continue
			}
			counts[s.Label]++
		}
	}
	return fromCounts(counts)
}

func fromCounts(counts map[string]int) *Model {
	m := &Model{Ranking: make([]LabelCount, 0, len(counts))}
	for label, n := range counts {
		m.Ranking = append(m.Ranking, LabelCount{Label: label, Count: n})
		m.Total += n
	}
	rank(m.Ranking)
	return m
}

// rank orders by count descending, breaking ties by label so results do not
// depend on map iteration order.
func rank(r []LabelCount) {
	sort.Slice(r, func(i, j int) bool {
		if r[i].Count != r[j].Count {
			return r[i].Count > r[j].Count
		}
		return r[i].Label < r[j].Label
	})
}

// Empty reports whether the model saw no labels.
func (m *Model) Empty() bool {
	return m == nil || m.Total == 0
}

// Majority returns the most frequent label, or "" for an empty model.
func (m *Model) Majority() string {
	if m.Empty() {
		return ""
	}
	return m.Ranking[0].Label
}

// Top returns at most k ranking entries.
func (m *Model) Top(k int) []LabelCount {
	if m.Empty() || k <= 0 {
		return nil
	}
	if k > len(m.Ranking) {
		k = len(m.Ranking)
	}
	out := make([]LabelCount, k)
	copy(out, m.Ranking[:k])
	return out
}

// Score returns the relative frequency of label, 0 when unseen.
func (m *Model) Score(label string) float64 {
	if m.Empty() {
		return 0
	}
	for _, lc := range m.Ranking {
		if lc.Label == label {
			return float64(lc.Count) / float64(m.Total)
		}
	}
	return 0
}

// Labels returns the ranked label names.
func (m *Model) Labels() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.Ranking))
	for i, lc := range m.Ranking {
		out[i] = lc.Label
	}
	return out
}

func (m *Model) validate() error {
	sum := 0
	seen := make(map[string]bool, len(m.Ranking))
	for _, lc := range m.Ranking {
		if lc.Label == "" || lc.Count <= 0 {
			return fmt.Errorf("%w: entry %+v", ErrInvalidModel, lc)
		}
		if seen[lc.Label] {
			return fmt.Errorf("%w: duplicate label %q", ErrInvalidModel, lc.Label)
		}
		seen[lc.Label] = true
		sum += lc.Count
	}
	if sum != m.Total {
		return fmt.Errorf("%w: counts sum to %d, total is %d", ErrInvalidModel, sum, m.Total)
	}
	return nil
}

// SaveModel writes the model as indented JSON.
func SaveModel(path string, m *Model) error {
	if m == nil {
		m = &Model{}
	}
	if m.Ranking == nil {
		m.Ranking = []LabelCount{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling model: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("error writing model %s: %w", path, err)
	}
	return nil
}

// LoadModel reads a model written by SaveModel and re-ranks it.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading model %s: %w", path, err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error parsing model %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	rank(m.Ranking)
	return &m, nil
}

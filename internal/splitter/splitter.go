// internal/splitter/splitter.go
// Package splitter partitions corpus positions into training and test sets.
package splitter

import (
	"errors"
	"math"
)

var (
	// ErrInvalidConfiguration is returned by constructors given unusable parameters.
	ErrInvalidConfiguration = errors.New("invalid splitter configuration")
	// ErrExhausted is returned when an incremental splitter is advanced past its last step.
	ErrExhausted = errors.New("splitter exhausted")
	// ErrNotStepping is returned when an incremental split is requested before the first step.
	ErrNotStepping = errors.New("splitter has not been advanced")
	// ErrCorpusSizeMismatch is returned when a split is requested for a different corpus size
	// than the splitter was built for.
	ErrCorpusSizeMismatch = errors.New("corpus size mismatch")
)

// floorTolerance absorbs floating point error in ratio products such as 0.29*100.
const floorTolerance = 1e-9

// Target names the role a corpus position plays in a split.
type Target int

const (
	// Ignore positions are assigned to neither training nor test.
	Ignore Target = iota
	// Train positions feed the trainer.
	Train
	// Test positions are predicted and scored.
	Test
)

func (t Target) String() string {
	switch t {
	case Train:
		return "train"
	case Test:
		return "test"
	default:
		return "ignore"
	}
}

// Split holds disjoint, ascending training and test positions.
type Split struct {
	Training []int `json:"training"`
	Test     []int `json:"test"`
}

// TrainingSize returns the number of training positions.
func (s Split) TrainingSize() int { return len(s.Training) }

// TestSize returns the number of test positions.
func (s Split) TestSize() int { return len(s.Test) }

// Target reports the role of position i.
func (s Split) Target(i int) Target {
	if contains(s.Training, i) {
		return Train
	}
	if contains(s.Test, i) {
		return Test
	}
	return Ignore
}

// Targets returns the role of every position in [0, n).
func (s Split) Targets(n int) []Target {
	targets := make([]Target, n)
	for _, i := range s.Training {
		if i >= 0 && i < n {
			targets[i] = Train
		}
	}
	for _, i := range s.Test {
		if i >= 0 && i < n {
			targets[i] = Test
		}
	}
	return targets
}

// DataSplitter partitions the positions [0, corpusSize) of a corpus.
type DataSplitter interface {
	Split(corpusSize int) (Split, error)
}

func contains(sorted []int, i int) bool {
	lo, hi := 0, len(sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case sorted[mid] == i:
			return true
		case sorted[mid] < i:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return false
}

func span(from, to int) []int {
	if to <= from {
		return []int{}
	}
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

func floorRatio(n int, ratio float64) int {
	return int(math.Floor(float64(n)*ratio + floorTolerance))
}

func validRatio(ratio float64) bool {
	return ratio > 0 && ratio <= 1 && !math.IsNaN(ratio)
}

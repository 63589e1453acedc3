package splitter

import (
	"fmt"
)

// State is the position of an IncrementalSplitter in its step sequence.
type State int

const (
	// Initialized splitters have not been advanced yet.
	Initialized State = iota
	// Stepping splitters have a current window and can grow further.
	Stepping
	// Exhausted splitters hold their final window and cannot be advanced.
	Exhausted
)

func (s State) String() string {
	switch s {
	case Stepping:
		return "stepping"
	case Exhausted:
		return "exhausted"
	default:
		return "initialized"
	}
}

// IncrementalSplitter grows the training window by batchSize positions per
// step against a held-out test block fixed at construction.
//
// The last corpusSize - floor(trainRatio*corpusSize) positions form the test
// set. At step i the first min(batchSize*i, maxTrainSamples, floor(trainRatio*corpusSize))
// positions are training; the rest of the training pool is ignored. The caller
// drives the sequence with HasNext and Next. An instance is not restartable.
type IncrementalSplitter struct {
	batchSize  int
	corpusSize int
	trainPool  int
	limit      int
	step       int
}

// NewIncrementalSplitter validates the parameters and binds the corpus size.
func NewIncrementalSplitter(trainRatio float64, batchSize, maxTrainSamples, corpusSize int) (*IncrementalSplitter, error) {
	if !validRatio(trainRatio) {
		return nil, fmt.Errorf("%w: train ratio %v outside (0,1]", ErrInvalidConfiguration, trainRatio)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfiguration, batchSize)
	}
	if maxTrainSamples <= 0 {
		return nil, fmt.Errorf("%w: max train samples must be positive, got %d", ErrInvalidConfiguration, maxTrainSamples)
	}
	if corpusSize < 0 {
		return nil, fmt.Errorf("%w: negative corpus size %d", ErrInvalidConfiguration, corpusSize)
	}

	pool := floorRatio(corpusSize, trainRatio)
	if pool > corpusSize {
		pool = corpusSize
	}
	limit := pool
	if maxTrainSamples < limit {
		limit = maxTrainSamples
	}

	return &IncrementalSplitter{
		batchSize:  batchSize,
		corpusSize: corpusSize,
		trainPool:  pool,
		limit:      limit,
	}, nil
}

// window returns the training window size at step.
func (s *IncrementalSplitter) window(step int) int {
	w := s.batchSize * step
	if w > s.limit || w < 0 {
		w = s.limit
	}
	return w
}

// HasNext reports whether another growth step remains.
func (s *IncrementalSplitter) HasNext() bool {
	return s.window(s.step) < s.limit
}

// Next advances the window by one batch. It fails with ErrExhausted, leaving
// the splitter unchanged, once the window has reached its cap.
func (s *IncrementalSplitter) Next() error {
	if !s.HasNext() {
		return fmt.Errorf("advance past step %d: %w", s.step, ErrExhausted)
	}
	s.step++
	return nil
}

// Step returns the number of completed Next calls.
func (s *IncrementalSplitter) Step() int { return s.step }

// CorpusSize returns the corpus size the splitter was built for.
func (s *IncrementalSplitter) CorpusSize() int { return s.corpusSize }

// Limit returns the largest training window the splitter will reach.
func (s *IncrementalSplitter) Limit() int { return s.limit }

// Steps returns the total number of steps the splitter will take.
func (s *IncrementalSplitter) Steps() int {
	if s.limit == 0 {
		return 0
	}
	return (s.limit + s.batchSize - 1) / s.batchSize
}

// State reports the splitter's position in its step sequence.
func (s *IncrementalSplitter) State() State {
	switch {
	case s.step == 0:
		return Initialized
	case s.HasNext():
		return Stepping
	default:
		return Exhausted
	}
}

// Split returns the current window and the fixed test block.
func (s *IncrementalSplitter) Split(corpusSize int) (Split, error) {
	if corpusSize != s.corpusSize {
		return Split{}, fmt.Errorf("split %d positions with a splitter built for %d: %w", corpusSize, s.corpusSize, ErrCorpusSizeMismatch)
	}
	if s.step == 0 {
		return Split{}, fmt.Errorf("split before first step: %w", ErrNotStepping)
	}
	return Split{
		Training: span(0, s.window(s.step)),
		Test:     span(s.trainPool, s.corpusSize),
	}, nil
}

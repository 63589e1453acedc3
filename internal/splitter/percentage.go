package splitter

import (
	"fmt"
)

// PercentageBasedSplitter assigns the first trainRatio of the corpus, capped at
// maxTrainSamples, to training and everything after it to test.
type PercentageBasedSplitter struct {
	trainRatio      float64
	maxTrainSamples int
}

// NewPercentageBasedSplitter validates the parameters and returns a splitter.
func NewPercentageBasedSplitter(trainRatio float64, maxTrainSamples int) (*PercentageBasedSplitter, error) {
	if !validRatio(trainRatio) {
		return nil, fmt.Errorf("%w: train ratio %v outside (0,1]", ErrInvalidConfiguration, trainRatio)
	}
	if maxTrainSamples <= 0 {
		return nil, fmt.Errorf("%w: max train samples must be positive, got %d", ErrInvalidConfiguration, maxTrainSamples)
	}
	return &PercentageBasedSplitter{
		trainRatio:      trainRatio,
		maxTrainSamples: maxTrainSamples,
	}, nil
}

// TrainCount returns the number of training positions for a corpus of size n.
func (s *PercentageBasedSplitter) TrainCount(n int) int {
	if n <= 0 {
		return 0
	}
	count := floorRatio(n, s.trainRatio)
	if count > s.maxTrainSamples {
		count = s.maxTrainSamples
	}
	if count < 1 {
		count = 1
	}
	if count > n {
		count = n
	}
	return count
}

// Split assigns [0, trainCount) to training and [trainCount, n) to test.
func (s *PercentageBasedSplitter) Split(corpusSize int) (Split, error) {
	if corpusSize < 0 {
		return Split{}, fmt.Errorf("%w: negative corpus size %d", ErrCorpusSizeMismatch, corpusSize)
	}
	trainCount := s.TrainCount(corpusSize)
	return Split{
		Training: span(0, trainCount),
		Test:     span(trainCount, corpusSize),
	}, nil
}

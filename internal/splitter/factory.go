package splitter

import (
	"fmt"

	"github.com/mwiater/spaneval/internal/appconfig"
)

// FromConfig builds the splitter named by cfg. corpusSize is only bound by
// the incremental strategy.
func FromConfig(cfg appconfig.Splitter, corpusSize int) (DataSplitter, error) {
	switch cfg.StrategyName() {
	case appconfig.StrategyPercentage:
		return NewPercentageBasedSplitter(cfg.Ratio(), cfg.TrainCap())
	case appconfig.StrategyIncremental:
		return NewIncrementalSplitter(cfg.Ratio(), cfg.Batch(), cfg.TrainCap(), corpusSize)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfiguration, cfg.Strategy)
	}
}

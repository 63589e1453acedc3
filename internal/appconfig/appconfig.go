// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultLogFile is used when the config leaves logFile empty.
	defaultLogFile = "spaneval.log"
	// defaultMaxRecommendations is the number of candidate labels written per span.
	defaultMaxRecommendations = 3
	// defaultTrainRatio is the share of the corpus used for training.
	defaultTrainRatio = 0.8
	// defaultMaxTrainSamples caps the training set size.
	defaultMaxTrainSamples = 10
	// defaultBatchSize is the incremental window growth per step.
	defaultBatchSize = 5000
)

// Splitting strategies.
const (
	StrategyPercentage  = "percentage"
	StrategyIncremental = "incremental"
)

// Averaging modes.
const (
	AveragingMacro = "macro"
	AveragingMicro = "micro"
)

// Split units.
const (
	UnitSpan     = "span"
	UnitDocument = "document"
)

// Corpus formats.
const (
	FormatJSONL = "jsonl"
	FormatJSON  = "json"
	FormatCoNLL = "conll"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the top-level application configuration.
type Config struct {
	Debug       bool        `json:"debug"`
	JSONMode    bool        `json:"jsonMode"`
	LogFile     string      `json:"logFile,omitempty"`
	ExportPath  string      `json:"export,omitempty" mapstructure:"export"`
	ModelPath   string      `json:"model,omitempty" mapstructure:"model"`
	Recommender Recommender `json:"recommender"`
	Splitter    Splitter    `json:"splitter"`
	Evaluation  Evaluation  `json:"evaluation"`
	Corpus      Corpus      `json:"corpus"`
	ConfigPath  string      `json:"-" mapstructure:"-"`
}

// Recommender is the host recommender configuration. Only MaxRecommendations
// changes prediction behaviour; layer and feature names are routing metadata.
type Recommender struct {
	LayerName          string `json:"layerName,omitempty"`
	FeatureName        string `json:"featureName,omitempty"`
	MaxRecommendations int    `json:"maxRecommendations,omitempty"`
}

// Splitter selects and parameterises the data splitter.
type Splitter struct {
	Strategy        string  `json:"strategy,omitempty"`
	TrainRatio      float64 `json:"trainRatio,omitempty"`
	MaxTrainSamples int     `json:"maxTrainSamples,omitempty"`
	BatchSize       int     `json:"batchSize,omitempty"`
	MaxSteps        int     `json:"maxSteps,omitempty"`
}

// Evaluation controls how scores are aggregated.
type Evaluation struct {
	Averaging string `json:"averaging,omitempty"`
	Unit      string `json:"unit,omitempty"`
}

// Corpus locates the annotated documents and describes their format.
type Corpus struct {
	Path                   string `json:"path,omitempty"`
	Format                 string `json:"format,omitempty"`
	HasTokenNumber         bool   `json:"hasTokenNumber"`
	HasHeader              bool   `json:"hasHeader"`
	HasEmbeddedNamedEntity bool   `json:"hasEmbeddedNamedEntity"`
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// Max returns the configured candidate count, defaulting to 3 when unset.
func (r Recommender) Max() int {
	if r.MaxRecommendations <= 0 {
		return defaultMaxRecommendations
	}
	return r.MaxRecommendations
}

// StrategyName returns the normalised strategy, defaulting to percentage.
func (s Splitter) StrategyName() string {
	if v := strings.ToLower(strings.TrimSpace(s.Strategy)); v != "" {
		return v
	}
	return StrategyPercentage
}

// Ratio returns the training ratio. Zero selects the default of 0.8.
func (s Splitter) Ratio() float64 {
	if s.TrainRatio == 0 {
		return defaultTrainRatio
	}
	return s.TrainRatio
}

// TrainCap returns the maximum number of training samples.
func (s Splitter) TrainCap() int {
	if s.MaxTrainSamples == 0 {
		return defaultMaxTrainSamples
	}
	return s.MaxTrainSamples
}

// Batch returns the incremental batch size.
func (s Splitter) Batch() int {
	if s.BatchSize == 0 {
		return defaultBatchSize
	}
	return s.BatchSize
}

// AveragingMode returns the normalised averaging mode, defaulting to macro.
func (e Evaluation) AveragingMode() string {
	if v := strings.ToLower(strings.TrimSpace(e.Averaging)); v != "" {
		return v
	}
	return AveragingMacro
}

// SplitUnit returns the normalised split unit, defaulting to span.
func (e Evaluation) SplitUnit() string {
	if v := strings.ToLower(strings.TrimSpace(e.Unit)); v != "" {
		return v
	}
	return UnitSpan
}

// Validate reports the first configuration error, if any.
func (c Config) Validate() error {
	s := c.Splitter
	ratio := s.Ratio()
	if math.IsNaN(ratio) || ratio <= 0 || ratio > 1 {
		return fmt.Errorf("%w: splitter.trainRatio %v outside (0,1]", ErrInvalidConfig, ratio)
	}
	if s.TrainCap() <= 0 {
		return fmt.Errorf("%w: splitter.maxTrainSamples must be positive, got %d", ErrInvalidConfig, s.MaxTrainSamples)
	}
	if s.Batch() <= 0 {
		return fmt.Errorf("%w: splitter.batchSize must be positive, got %d", ErrInvalidConfig, s.BatchSize)
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("%w: splitter.maxSteps must not be negative, got %d", ErrInvalidConfig, s.MaxSteps)
	}
	switch s.StrategyName() {
	case StrategyPercentage, StrategyIncremental:
	default:
		return fmt.Errorf("%w: unknown splitter.strategy %q", ErrInvalidConfig, s.Strategy)
	}
	switch c.Evaluation.AveragingMode() {
	case AveragingMacro, AveragingMicro:
	default:
		return fmt.Errorf("%w: unknown evaluation.averaging %q", ErrInvalidConfig, c.Evaluation.Averaging)
	}
	switch c.Evaluation.SplitUnit() {
	case UnitSpan, UnitDocument:
	default:
		return fmt.Errorf("%w: unknown evaluation.unit %q", ErrInvalidConfig, c.Evaluation.Unit)
	}
	if c.Recommender.MaxRecommendations < 0 {
		return fmt.Errorf("%w: recommender.maxRecommendations must not be negative, got %d", ErrInvalidConfig, c.Recommender.MaxRecommendations)
	}
	switch f := strings.ToLower(strings.TrimSpace(c.Corpus.Format)); f {
	case "", FormatJSONL, FormatJSON, FormatCoNLL:
	default:
		return fmt.Errorf("%w: unknown corpus.format %q", ErrInvalidConfig, c.Corpus.Format)
	}
	return nil
}

// Load reads the application configuration from the specified path and validates it.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	config.ConfigPath = path
	return config, nil
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

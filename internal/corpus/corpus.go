// internal/corpus/corpus.go
// Package corpus loads annotated documents from disk.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mwiater/spaneval/internal/annotation"
	"github.com/mwiater/spaneval/internal/appconfig"
)

// ErrUnknownFormat is returned when no reader matches the requested format.
var ErrUnknownFormat = errors.New("unknown corpus format")

// Reader decodes a corpus from a stream.
type Reader interface {
	Read(r io.Reader) (annotation.Corpus, error)
}

// Stats summarises a loaded corpus.
type Stats struct {
	Path      string         `json:"path"`
	Format    string         `json:"format"`
	Documents int            `json:"documents"`
	Spans     int            `json:"spans"`
	Unlabeled int            `json:"unlabeled"`
	Labels    map[string]int `json:"labels"`
}

// SortedLabels returns the label names in ascending order.
func (s Stats) SortedLabels() []string {
	labels := make([]string, 0, len(s.Labels))
	for l := range s.Labels {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// DetectFormat resolves an explicit format or infers one from the file extension.
func DetectFormat(path, format string) (string, error) {
	if f := strings.ToLower(strings.TrimSpace(format)); f != "" {
		switch f {
		case appconfig.FormatJSONL, appconfig.FormatJSON, appconfig.FormatCoNLL:
			return f, nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return appconfig.FormatJSONL, nil
	case ".json":
		return appconfig.FormatJSON, nil
	case ".conll", ".tsv", ".txt":
		return appconfig.FormatCoNLL, nil
	}
	return "", fmt.Errorf("%w: cannot infer format of %q", ErrUnknownFormat, path)
}

// NewReader returns the reader for a corpus configuration.
func NewReader(cfg appconfig.Corpus) (Reader, error) {
	format, err := DetectFormat(cfg.Path, cfg.Format)
	if err != nil {
		return nil, err
	}
	switch format {
	case appconfig.FormatJSONL:
		return NewJSONReader(true)
	case appconfig.FormatJSON:
		return NewJSONReader(false)
	default:
		return NewCoNLLReader(CoNLLOptions{
			HasTokenNumber:         cfg.HasTokenNumber,
			HasHeader:              cfg.HasHeader,
			HasEmbeddedNamedEntity: cfg.HasEmbeddedNamedEntity,
		}), nil
	}
}

// Load reads the corpus described by cfg. Document names default to the file
// name followed by the document's position.
func Load(cfg appconfig.Corpus) (annotation.Corpus, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("corpus path is required")
	}
	reader, err := NewReader(cfg)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("error opening corpus: %w", err)
	}
	defer file.Close()

	docs, err := reader.Read(file)
	if err != nil {
		return nil, fmt.Errorf("error reading corpus %s: %w", cfg.Path, err)
	}
	base := filepath.Base(cfg.Path)
	for i, doc := range docs {
		if doc.Name == "" {
			doc.Name = fmt.Sprintf("%s#%d", base, i+1)
		}
	}
	return docs, nil
}

// Validate loads the corpus and reports its statistics.
func Validate(cfg appconfig.Corpus) (Stats, error) {
	docs, err := Load(cfg)
	if err != nil {
		return Stats{}, err
	}
	format, _ := DetectFormat(cfg.Path, cfg.Format)
	return Describe(cfg.Path, format, docs), nil
}

// Describe computes statistics for an already loaded corpus.
func Describe(path, format string, docs annotation.Corpus) Stats {
	stats := Stats{
		Path:      path,
		Format:    format,
		Documents: len(docs),
		Labels:    make(map[string]int),
	}
	for label, n := range docs.LabelCounts() {
		stats.Spans += n
		if label == "" {
			stats.Unlabeled += n
			continue
		}
		stats.Labels[label] = n
	}
	return stats
}
